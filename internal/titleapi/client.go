// Package titleapi is a minimal client for the chat provider's private web
// API, covering just enough surface to drive the conversation-title
// endpoint: session validation, organization lookup, and the
// create/title/delete conversation operations.
package titleapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds the connection parameters for a Client.
type Config struct {
	BaseURL        string        // deployment base URL, no trailing slash
	SessionKey     string        // sessionKey cookie value
	Platform       string        // anthropic-client-platform header
	AcceptLanguage string        // accept-language header
	Timeout        time.Duration // per-request timeout, default 60s

	// HTTPClient overrides the default client. Used in tests.
	HTTPClient *http.Client
}

// Client talks to a single chat provider deployment with a fixed credential.
type Client struct {
	baseURL        string
	sessionKey     string
	platform       string
	acceptLanguage string
	client         *http.Client
}

// New creates a Client from the given config.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	platform := cfg.Platform
	if platform == "" {
		platform = "web_claude_ai"
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		sessionKey:     cfg.SessionKey,
		platform:       platform,
		acceptLanguage: cfg.AcceptLanguage,
		client:         httpClient,
	}
}

// BaseURL returns the deployment base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// StatusError is returned when the remote answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned %d: %s", e.StatusCode, e.Body)
}

// do issues a request with the session cookie and required headers attached,
// returning the response body on 2xx and a *StatusError otherwise.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("anthropic-client-platform", c.platform)
	if c.acceptLanguage != "" {
		req.Header.Set("accept-language", c.acceptLanguage)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: "sessionKey", Value: c.sessionKey})

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}
