// Package apiclient is a Go client for the Referencer HTTP API. It holds the
// session cookie issued at sign-in, translates 401 responses into
// ErrUnauthorized so callers can prompt for sign-in, and implements the
// backends the tag cache runs on.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const defaultHTTPTimeout = 15 * time.Second

// Sentinel errors mapped from API status codes.
var (
	ErrUnauthorized = errors.New("not signed in")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Client talks to a Referencer server with a session cookie.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The client must carry a
// cookie jar or the session will not survive past sign-in.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New constructs a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("apiclient: cookie jar: %w", err)
	}
	client := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
			Jar:     jar,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		return nil, errors.New("apiclient: base URL required")
	}
	return client, nil
}

const sessionCookieName = "referencer_session"

// SessionCookie returns the current session cookie value, or "" when not
// signed in. Callers can persist it across processes.
func (c *Client) SessionCookie() string {
	u, err := url.Parse(c.baseURL)
	if err != nil || c.httpClient.Jar == nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == sessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// SetSessionCookie seeds the jar with a previously saved session cookie.
func (c *Client) SetSessionCookie(value string) {
	u, err := url.Parse(c.baseURL)
	if err != nil || c.httpClient.Jar == nil || value == "" {
		return
	}
	c.httpClient.Jar.SetCookies(u, []*http.Cookie{{
		Name:  sessionCookieName,
		Value: value,
		Path:  "/",
	}})
}

// apiError is the server's JSON error envelope.
type apiError struct {
	Error string `json:"error"`
}

// do issues one request and decodes the response into out (unless out is
// nil). Error statuses map to the sentinel errors where a sentinel exists.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("apiclient: build url: %w", err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("apiclient: request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var envelope apiError
	_ = json.Unmarshal(raw, &envelope)
	msg := envelope.Error
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		if msg == "" {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		if msg == "" {
			return ErrConflict
		}
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("apiclient: http %d: %s", resp.StatusCode, msg)
}
