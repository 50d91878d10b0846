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

// Middleware wraps the transport used for every outgoing call.
type Middleware func(http.RoundTripper) http.RoundTripper

// Client talks to the course platform REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL    = "http://localhost:3000"
	defaultUserAgent = "coursedeck/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 4 << 10
)

// NewClient builds a Client for apiURL. A zero timeout uses the default.
func NewClient(apiURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: http.DefaultTransport,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Use composes middleware around the current transport. The first argument
// ends up outermost. Call it before the client is shared.
func (c *Client) Use(mw ...Middleware) {
	for i := len(mw) - 1; i >= 0; i-- {
		c.http.Transport = mw[i](c.http.Transport)
	}
}

// BaseURL reports the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(raw))
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
