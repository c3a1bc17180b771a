package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/oasis-hotel/portal/internal/domain"
)

// ErrMalformedCredential is returned when a credential cannot be parsed as a claims token.
var ErrMalformedCredential = errors.New("malformed credential")

// Decoder reads the claims embedded in a bearer credential.
// Signatures are not verified: the backend that issued the token is trusted
// and verifies it again on every API call.
type Decoder struct {
	parser *jwt.Parser
}

// NewDecoder builds a decoder.
func NewDecoder() *Decoder {
	return &Decoder{parser: jwt.NewParser(jwt.WithJSONNumber())}
}

// Decode parses the credential's claims.
func (d *Decoder) Decode(credential string) (domain.GuestClaims, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return domain.GuestClaims{}, fmt.Errorf("%w: empty", ErrMalformedCredential)
	}

	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(credential, claims); err != nil {
		return domain.GuestClaims{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	sub, err := subjectID(claims["sub"])
	if err != nil {
		return domain.GuestClaims{}, fmt.Errorf("%w: sub: %v", ErrMalformedCredential, err)
	}

	out := domain.GuestClaims{SubjectID: sub}
	if out.Name, err = optionalString(claims, "name"); err != nil {
		return domain.GuestClaims{}, err
	}
	if out.RoomNumber, err = optionalString(claims, "room_number"); err != nil {
		return domain.GuestClaims{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return domain.GuestClaims{}, fmt.Errorf("%w: exp: %v", ErrMalformedCredential, err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

func subjectID(v any) (int64, error) {
	switch sub := v.(type) {
	case nil:
		return 0, errors.New("missing")
	case json.Number:
		if n, err := sub.Int64(); err == nil {
			return n, nil
		}
		f, err := sub.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("not an integer: %s", sub)
		}
		return int64(f), nil
	case string:
		n, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", sub)
		}
		return n, nil
	case float64:
		if sub != math.Trunc(sub) {
			return 0, fmt.Errorf("not an integer: %v", sub)
		}
		return int64(sub), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func optionalString(claims jwt.MapClaims, key string) (string, error) {
	v, ok := claims[key]
	if !ok || v == nil {
		return "", nil
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		// room numbers are sometimes issued as bare numbers
		return s.String(), nil
	default:
		return "", fmt.Errorf("%w: %s has type %T", ErrMalformedCredential, key, v)
	}
}

// ExpiresAt reads only the expiry of a credential. ok is false when the
// credential is not a claims token or carries no usable expiry.
func (d *Decoder) ExpiresAt(credential string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(strings.TrimSpace(credential), claims); err != nil {
		return time.Time{}, false
	}
	t, err := claims.GetExpirationTime()
	if err != nil || t == nil {
		return time.Time{}, false
	}
	return t.Time, true
}
