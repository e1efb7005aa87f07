package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusError is returned for responses outside the 2xx range. Message holds
// the server-provided body text, or a fallback when the body was empty.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// IsAuthStatus reports whether the error is an authentication-class HTTP
// failure (401/403)
func IsAuthStatus(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden
}

// Client talks to the remote ConnectIQ service
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Logger
}

// NewClient creates a client for the service at baseURL. A zero timeout
// disables the client-side timeout.
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SetLogger attaches a logger for boundary validation warnings
func (c *Client) SetLogger(logger *log.Logger) {
	c.logger = logger
}

// BaseURL returns the configured service root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs a JSON request against the service. body may be nil; token
// is attached as a bearer credential only when non-empty. Non-2xx responses
// become a *StatusError carrying the response body text.
func (c *Client) Request(ctx context.Context, method, path string, body any, token string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = "API error"
		}
		return nil, &StatusError{StatusCode: res.StatusCode, Message: msg}
	}

	return json.RawMessage(data), nil
}

// PostForm performs a form-encoded POST, used only by the login contract
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request POST %s: %w", path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = "API error"
		}
		return nil, &StatusError{StatusCode: res.StatusCode, Message: msg}
	}

	return json.RawMessage(data), nil
}

// Recommendations asks the service for connection suggestions for an intent
func (c *Client) Recommendations(ctx context.Context, intent, token string) (*RecommendationsResponse, error) {
	raw, err := c.Request(ctx, http.MethodPost, "/recommendations", map[string]string{"intent": intent}, token)
	if err != nil {
		return nil, err
	}
	resp, dropped, err := parseRecommendations(raw)
	if err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if len(dropped) > 0 && c.logger != nil {
		c.logger.Printf("recommendations: dropped %d malformed entries at %v", len(dropped), dropped)
	}
	return resp, nil
}

// ProtectedTest calls the authenticated connectivity probe
func (c *Client) ProtectedTest(ctx context.Context, token string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, "/protected-test", nil, token)
}

// SearchHistory fetches the server-side search history for the session user
func (c *Client) SearchHistory(ctx context.Context, token string) ([]HistoryEntry, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/user/search-history", nil, token)
	if err != nil {
		return nil, err
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode search history: %w", err)
	}
	return entries, nil
}
