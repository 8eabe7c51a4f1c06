// Package gateway normalizes all interaction with the storefront REST backend
// into typed calls with a uniform error contract.
package gateway

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
)

// APIError is the normalized failure returned by every gateway call: the
// backend's human-readable message when one could be parsed, otherwise a
// generic message embedding the HTTP status. Status is zero for transport
// failures.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return e.Message
}

// TokenSource supplies the current bearer token. An empty string means no
// session; authenticated requests are then sent without an Authorization
// header and rejected by the backend.
type TokenSource interface {
	Token() string
}

// Client wraps the backend REST surface. GET-style listing calls are safe to
// retry; mutations are never retried automatically, a failed mutation
// surfaces to the caller.
type Client struct {
	base           *url.URL
	client         *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

// New creates a client against the given base URL.
func New(baseURL string, timeout time.Duration, tokens TokenSource) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:   base,
		client: &http.Client{Timeout: timeout},
		tokens: tokens,
	}, nil
}

// SetUnauthorizedHook registers the single place that reacts to a 401: every
// 401 response invokes it exactly once, regardless of the endpoint. The app
// wires it to a forced logout.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Message string `json:"message"`
}

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into out (which may be nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload any, authed bool, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType, authed, out)
}

// do is the single request path: URL construction against the fixed base,
// bearer attachment, response shaping and error normalization.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, authed bool, out any) error {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("http request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.normalizeError(resp)
	}

	// 204 carries no body; parsing it as JSON would fail.
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to read response body: %v", err), Status: resp.StatusCode}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Message: fmt.Sprintf("failed to decode response: %v", err), Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) normalizeError(resp *http.Response) error {
	apiErr := &APIError{
		Message: fmt.Sprintf("request failed with status %d", resp.StatusCode),
		Status:  resp.StatusCode,
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	var eb errorBody
	if json.Unmarshal(data, &eb) == nil && eb.Message != "" {
		apiErr.Message = eb.Message
	}
	return apiErr
}
