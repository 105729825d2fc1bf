// Package client is a typed client for the console REST API.
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
	"time"

	"go.uber.org/zap"
)

// DefaultTerminationTimeout bounds exit submissions
const DefaultTerminationTimeout = 30 * time.Second

// Client calls the console API
type Client struct {
	baseURL            string
	fallbackBaseURL    string
	token              string
	httpClient         *http.Client
	terminationTimeout time.Duration
	logger             *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithFallbackBaseURL sets the base URL retried once when an employee fetch
// fails at the transport level
func WithFallbackBaseURL(raw string) Option {
	return func(c *Client) {
		c.fallbackBaseURL = strings.TrimRight(raw, "/")
	}
}

// WithToken sends a bearer token on every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the overall per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTerminationTimeout sets the deadline of exit submissions
func WithTerminationTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.terminationTimeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for retries and failures
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for baseURL (scheme and host, e.g. http://localhost:8080)
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if err := validateBaseURL(baseURL); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:            baseURL,
		httpClient:         &http.Client{Timeout: 15 * time.Second},
		terminationTimeout: DefaultTerminationTimeout,
		logger:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.fallbackBaseURL != "" {
		if err := validateBaseURL(c.fallbackBaseURL); err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
	}
	return c, nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: want http(s)://host[:port]", raw)
	}
	return nil
}

// BaseURL returns the primary base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the response shape of every JSON endpoint
type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// request describes one API call
type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
}

// do sends req against the primary base URL and decodes data into dest
func (c *Client) do(ctx context.Context, req request, dest interface{}) error {
	return c.send(ctx, c.baseURL, req, dest)
}

// doWithFallback retries once against the fallback base URL when the
// primary fails at the transport level. API errors are never retried.
func (c *Client) doWithFallback(ctx context.Context, req request, dest interface{}) error {
	err := c.send(ctx, c.baseURL, req, dest)
	if err == nil || c.fallbackBaseURL == "" || !isTransportError(err) || ctx.Err() != nil {
		return err
	}

	c.logger.Warn("Primary API unreachable, retrying fallback",
		zap.String("path", req.path),
		zap.String("fallback", c.fallbackBaseURL),
		zap.Error(err))
	return c.send(ctx, c.fallbackBaseURL, req, dest)
}

func (c *Client) send(ctx context.Context, base string, req request, dest interface{}) error {
	resp, err := c.roundTrip(ctx, base, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("unexpected response: %s", truncate(raw, 200))}
	}

	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		return &APIError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Fields:  env.Errors,
			Data:    env.Data,
		}
	}

	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

// download fetches a binary body such as an export
func (c *Client) download(ctx context.Context, req request) ([]byte, string, error) {
	resp, err := c.roundTrip(ctx, c.baseURL, req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		var env envelope
		if json.Unmarshal(raw, &env) == nil {
			return nil, "", &APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
		}
		return nil, "", &APIError{Status: resp.StatusCode, Message: resp.Status}
	}
	return raw, fileNameFrom(resp.Header.Get("Content-Disposition")), nil
}

func (c *Client) roundTrip(ctx context.Context, base string, req request) (*http.Response, error) {
	target := base + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}

func isTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func fileNameFrom(disposition string) string {
	const marker = "filename="
	i := strings.Index(disposition, marker)
	if i < 0 {
		return ""
	}
	return strings.Trim(disposition[i+len(marker):], `"; `)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
