// Package backend talks to the hotel Backend API. Every request carries the
// stored bearer credential; failures are reported as domain errors and never
// touch the session.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oasis-hotel/portal/internal/auth"
	"github.com/oasis-hotel/portal/internal/domain"
	apperrors "github.com/oasis-hotel/portal/pkg/util/errorutil"
)

// ServiceName labels errors raised by this client.
const ServiceName = "backend"

// maxErrorBody bounds how much of an upstream error body is read.
const maxErrorBody = 4 << 10

// CredentialSource yields the bearer credential for outgoing requests.
type CredentialSource interface {
	Credential(ctx context.Context) (string, bool, error)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Service names the upstream in errors and logs; defaults to ServiceName.
	Service string
	// Credentials may be nil for unauthenticated upstreams.
	Credentials CredentialSource
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// Client is a small JSON-over-HTTP client bound to one base URL.
type Client struct {
	baseURL     *url.URL
	service     string
	credentials CredentialSource
	http        *http.Client
	logger      *zap.Logger
}

// New builds a client. The base URL must be absolute.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	service := opts.Service
	if service == "" {
		service = ServiceName
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     base,
		service:     service,
		credentials: opts.Credentials,
		http:        httpClient,
		logger:      logger.Named(service),
	}, nil
}

// Service returns the upstream name used in errors.
func (c *Client) Service() string {
	return c.service
}

// GuestLogin is the guest login form.
type GuestLogin struct {
	RoomNumber string `json:"room_number"`
	Password   string `json:"password"`
}

// StaffLogin is the answer of the staff login endpoint.
type StaffLogin struct {
	Token string              `json:"token"`
	Staff domain.StaffPayload `json:"staff"`
}

// LoginGuest exchanges room credentials for a bearer credential. The backend
// answers with a bare JSON string.
func (c *Client) LoginGuest(ctx context.Context, req GuestLogin) (string, error) {
	var credential string
	if err := c.PostJSON(ctx, "/guests/login", req, &credential); err != nil {
		return "", err
	}
	if credential == "" {
		return "", apperrors.NewBackendError(c.service, http.StatusOK, "empty credential in login response")
	}
	return credential, nil
}

// LoginStaff exchanges a staff id and password for a credential and the staff record.
func (c *Client) LoginStaff(ctx context.Context, staffID int64, password string) (StaffLogin, error) {
	body := map[string]any{"staff_id": staffID, "password": password}
	var resp StaffLogin
	if err := c.PostJSON(ctx, "/staff/login", body, &resp); err != nil {
		return StaffLogin{}, err
	}
	if resp.Token == "" {
		return StaffLogin{}, apperrors.NewBackendError(c.service, http.StatusOK, "empty credential in login response")
	}
	if err := resp.Staff.Validate(); err != nil {
		return StaffLogin{}, apperrors.NewBackendError(c.service, http.StatusOK, err.Error())
	}
	return resp, nil
}

// GetJSON fetches path and decodes the JSON answer into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, "", nil, out)
}

// PostJSON sends in as JSON and decodes the answer into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(payload), out)
}

// Do performs one request. out may be nil to discard the body.
func (c *Client) Do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.credentials != nil {
		credential, found, err := c.credentials.Credential(ctx)
		if err != nil {
			c.logger.Warn("credential unavailable; sending anonymously", zap.Error(err))
		} else if found {
			auth.SetBearer(req, credential)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("upstream unreachable", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return apperrors.NewBackendUnreachable(c.service, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(path, resp.StatusCode, upstreamMessage(resp.Body))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewBackendError(c.service, resp.StatusCode, "invalid JSON in response")
	}
	return nil
}

// statusError maps an upstream answer. Refusals keep their meaning so the
// caller can tell bad credentials from a broken upstream.
func (c *Client) statusError(path string, status int, message string) error {
	switch status {
	case http.StatusUnauthorized:
		if message == "" {
			message = "credentials rejected by " + c.service
		}
		return apperrors.NewUnauthorized(message)
	case http.StatusForbidden:
		if message == "" {
			message = "access denied by " + c.service
		}
		return apperrors.NewForbidden(message)
	case http.StatusNotFound:
		return apperrors.NewNotFound(strings.TrimPrefix(path, "/"), map[string]any{"service": c.service, "upstream_status": status})
	}
	return apperrors.NewBackendError(c.service, status, message)
}

func (c *Client) resolve(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL.String() + path
}

// upstreamMessage extracts a readable message from an error body.
func upstreamMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var shaped struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(raw, &shaped) == nil {
		if shaped.Message != "" {
			return shaped.Message
		}
		var s string
		if json.Unmarshal(shaped.Error, &s) == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(shaped.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
