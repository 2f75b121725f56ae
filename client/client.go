// Package client is a typed Go client for the keepnotes API. It owns the
// caller's session explicitly: load it on start-up, and it is saved on
// register/login and cleared on logout or on any 401.
package client

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
	"sync"
	"time"
)

const defaultBaseURL = "http://localhost:5000"

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore

	mu      sync.RWMutex
	session *Session
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithSessionStore persists the session across process restarts.
func WithSessionStore(s SessionStore) Option {
	return func(c *Client) {
		if s != nil {
			c.store = s
		}
	}
}

// New constructs a Client pointing at the API base URL (without the /api
// suffix). The session store defaults to memory only.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      &MemorySessionStore{},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// FieldError is one entry of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError represents an error response from the API.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

// Unauthenticated reports whether the server rejected the caller's identity.
// The client has already dropped its session when this is true.
func (e *APIError) Unauthenticated() bool { return e.Status == http.StatusUnauthorized }

func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

func (e *APIError) Conflict() bool { return e.Status == http.StatusConflict }

func (e *APIError) Validation() bool { return e.Status == http.StatusBadRequest }

// IsUnauthenticated unwraps err looking for a 401 APIError.
func IsUnauthenticated(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthenticated()
}

// envelope mirrors the server's uniform response body.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Errors  []FieldError    `json:"errors"`
}

// request is one API call. Exactly one of jsonBody and form may be set.
type request struct {
	method   string
	path     string
	query    url.Values
	jsonBody any
	form     *multipartBody
	auth     bool
}

func (c *Client) do(ctx context.Context, r request, v any) (*envelope, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var (
		reader      io.Reader
		contentType string
	)
	switch {
	case r.form != nil:
		reader, contentType = r.form.buf, r.form.contentType
	case r.jsonBody != nil:
		payload, err := json.Marshal(r.jsonBody)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader, contentType = bytes.NewReader(payload), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if r.auth {
		token := c.Token()
		if token == "" {
			return nil, &APIError{Status: http.StatusUnauthorized, Message: "not logged in"}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &env); err != nil && resp.StatusCode < http.StatusBadRequest {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		if apiErr.Unauthenticated() {
			if err := c.clearSession(); err != nil {
				return nil, errors.Join(apiErr, err)
			}
		}
		return nil, apiErr
	}

	if v != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, v); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}
	return &env, nil
}
