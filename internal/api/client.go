// internal/api/client.go

// Package api is the typed HTTP client for the experiment backend. Every endpoint the
// hedlab front ends touch is exposed as a method on Client; paths and payload shapes
// match the backend exactly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mwiater/hedlab/internal/appconfig"
	"github.com/mwiater/hedlab/internal/logging"
)

// requestIDHeader carries the per-request correlation id.
const requestIDHeader = "X-Request-ID"

// Client talks to the experiment backend over same-origin JSON endpoints.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	newID   func() string
}

// New constructs a Client configured with the application's backend URL and request timeout.
func New(cfg *appconfig.Config) *Client {
	if cfg == nil {
		cfg = &appconfig.Config{}
	}
	return &Client{
		baseURL: cfg.Endpoint(),
		client: &http.Client{
			Transport: &http.Transport{ForceAttemptHTTP2: false, Proxy: http.ProxyFromEnvironment},
		},
		timeout: cfg.RequestTimeout(),
		newID:   uuid.NewString,
	}
}

// BaseURL returns the backend root the client is bound to.
func (c *Client) BaseURL() string { return c.baseURL }

// errorEnvelope matches the backend's failure payload: {"error": "..."}.
type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

// message extracts a printable error message, or "" when the field is absent or null.
func (e errorEnvelope) message() string {
	raw := bytes.TrimSpace(e.Error)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("false")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}

// send issues a request and returns the open response. Callers own resp.Body.
func (c *Client) send(ctx context.Context, method, path string, payload any) (*http.Response, string, error) {
	endpoint := c.baseURL + path
	requestID := c.newID()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, requestID, fmt.Errorf("api: encode %s: %w", path, err)
		}
		logging.LogRequest("HEDLAB->BACKEND", method, path, requestID, redactPayload(path, data))
		body = bytes.NewReader(data)
	} else {
		logging.LogRequest("HEDLAB->BACKEND", method, path, requestID, nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, requestID, fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, requestID, &TransportError{Method: method, Endpoint: path, Err: err}
	}
	return resp, requestID, nil
}

// call performs a JSON round trip. out may be nil when the caller only cares about
// success. A backend error field wins over the HTTP status.
func (c *Client) call(ctx context.Context, method, path string, payload, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, requestID, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Endpoint: path, Err: err}
	}
	logging.LogRequest("BACKEND->HEDLAB", method, path, requestID, body)

	if err := checkResponse(path, resp, body); err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: decode %s response: %w", path, err)
	}
	return nil
}

// checkResponse turns an error payload or a non-2xx status into an *Error.
func checkResponse(path string, resp *http.Response, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env errorEnvelope
		if err := json.Unmarshal(trimmed, &env); err == nil {
			if msg := env.message(); msg != "" {
				return &Error{Endpoint: path, Status: resp.StatusCode, Message: msg}
			}
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(trimmed))
		if msg == "" || len(msg) > 200 {
			msg = resp.Status
		}
		return &Error{Endpoint: path, Status: resp.StatusCode, Message: msg}
	}
	return nil
}

// redactPayload masks credential values before a request body reaches the log.
func redactPayload(path string, data []byte) any {
	if path != pathSaveEnvVar {
		return data
	}
	var req saveEnvVarsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return "<redacted>"
	}
	return saveEnvVarsRequest{EnvVars: logging.RedactValues(req.EnvVars)}
}

// IsTimeout reports whether err stems from a request deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te *TransportError
	if errors.As(err, &te) {
		var netErr interface{ Timeout() bool }
		if errors.As(te.Err, &netErr) {
			return netErr.Timeout()
		}
	}
	return false
}
