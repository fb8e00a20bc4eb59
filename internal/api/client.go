// Package api provides the client for the remote expense-tracking API.
// It owns the wire contract only; session state lives in internal/session
// and caching in internal/query.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL matches the development backend.
	DefaultBaseURL = "http://localhost:5001/api"

	requestTimeout = 15 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

// ErrUnauthorized indicates the bearer token was rejected. Callers other
// than session bootstrap treat it like any other error.
var ErrUnauthorized = errors.New("api: unauthorized")

// APIError is a rejected request (non-2xx). Message carries the server's
// reported message when the body had one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Is makes 401/403 APIErrors match ErrUnauthorized via errors.Is.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// TokenFunc returns the current bearer token, or "" when signed out.
// Supplied by the session store so the client never owns auth state.
type TokenFunc func() string

// Client talks to one expense API origin.
type Client struct {
	baseURL string
	token   TokenFunc
	http    *http.Client
}

// NewClient creates a client for the given origin. An empty baseURL falls
// back to DefaultBaseURL; a nil token means all requests go out anonymous.
func NewClient(baseURL string, token TokenFunc) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{},
	}
}

// BaseURL reports the configured origin.
func (c *Client) BaseURL() string { return c.baseURL }

// get performs an authenticated GET. Reads are retried once on transport
// failure; a rejected request (APIError) is never retried.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	body, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err == nil {
		return body, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) || ctx.Err() != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, path, q, nil)
}

// send performs a mutating request. Never retried.
func (c *Client) send(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("api: encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	return c.do(ctx, method, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(raw, resp.StatusCode),
		}
	}
	return raw, nil
}

// errorMessage extracts the server's {"message": ...} body, falling back
// to a generic text per status class.
func errorMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Message) != "" {
		return body.Message
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "not authorized"
	case status == http.StatusNotFound:
		return "not found"
	case status >= 500:
		return "server error"
	default:
		return "request failed"
	}
}
