package auth

import (
	"net/http"
	"strings"
)

// AuthorizationHeader is the header carrying the bearer credential.
const AuthorizationHeader = "Authorization"

// SetBearer attaches the credential to an outgoing request. An empty credential leaves the request untouched.
func SetBearer(req *http.Request, credential string) {
	if credential == "" {
		return
	}
	req.Header.Set(AuthorizationHeader, "Bearer "+credential)
}

// BearerFromHeader extracts the credential from an Authorization header value.
func BearerFromHeader(value string) (string, bool) {
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
