// Package api is the typed HTTP client for the SewaBazaar platform API.
//
// It covers the provider booking endpoints, notifications and their
// preferences, review submission, and the server-sent notification stream.
// All methods return *Error so callers can branch on the failure kind.
package api

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

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/internal/version"
)

const defaultTimeout = 15 * time.Second

// Client talks to the platform API.
type Client struct {
	baseURL   string
	userAgent string
	token     func() string
	logger    *zap.Logger

	httpc   *http.Client // bounded by Config.Timeout
	streamc *http.Client // no timeout; streams are bounded by their context
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The streaming client is
// derived from it with the timeout cleared, so long-lived streams survive.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpc = h
		streamc := *h
		streamc.Timeout = 0
		c.streamc = &streamc
	}
}

// WithLogger sets the logger used for request tracing. Defaults to a no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTokenProvider supplies the bearer token per request, for callers that
// rotate tokens. It overrides Config.Token.
func WithTokenProvider(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

// WithUserAgent overrides the default user agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client for the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, newError(KindValidation, "base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, newError(KindValidation, fmt.Sprintf("invalid base URL %q: %v", cfg.BaseURL, err))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := otelhttp.NewTransport(http.DefaultTransport)

	c := &Client{
		baseURL:   base,
		userAgent: cfg.UserAgent,
		logger:    zap.NewNop(),
		httpc:     &http.Client{Timeout: timeout, Transport: transport},
		streamc:   &http.Client{Transport: transport},
	}
	if c.userAgent == "" {
		c.userAgent = "sewabazaar-go/" + version.Version
	}
	if cfg.Token != "" {
		token := cfg.Token
		c.token = func() string { return token }
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// url joins the base URL with an absolute API path.
func (c *Client) url(path string) string {
	return c.baseURL + path
}

// newRequest builds a request with the standard headers attached. Every
// request carries a fresh X-Request-ID so failures can be correlated.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, "", err
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, requestID, nil
}

// do performs one JSON round trip. A nil out discards the response body; an
// empty 2xx body leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindRequest, Message: fmt.Sprintf("encode %s %s: %v", method, path, err), cause: err}
		}
		body = bytes.NewReader(payload)
	}

	req, requestID, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return &Error{Kind: KindRequest, Message: fmt.Sprintf("build %s %s: %v", method, path, err), cause: err}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &Error{
			Kind:      KindRequest,
			Message:   fmt.Sprintf("%s %s: %v", method, path, err),
			RequestID: requestID,
			cause:     err,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Kind:       KindRequest,
			HTTPStatus: resp.StatusCode,
			Message:    fmt.Sprintf("%s %s: read response: %v", method, path, err),
			RequestID:  requestID,
			cause:      err,
		}
	}

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp.StatusCode, requestID, method, path, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{
			Kind:       KindRequest,
			HTTPStatus: resp.StatusCode,
			Message:    fmt.Sprintf("%s %s: decode response: %v", method, path, err),
			RequestID:  requestID,
			cause:      err,
		}
	}
	return nil
}

// responseError turns a non-2xx response into a typed *Error. The platform
// wraps failures as {"error": "..."}; anything else falls back to the status.
func (c *Client) responseError(status int, requestID, method, path string, data []byte) *Error {
	message := fmt.Sprintf("%s %s: %s", method, path, http.StatusText(status))
	var envelope struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		switch {
		case envelope.Error != "":
			message = envelope.Error
		case envelope.Detail != "":
			message = envelope.Detail
		}
	}
	return &Error{
		Kind:       kindForStatus(status),
		HTTPStatus: status,
		Message:    message,
		RequestID:  requestID,
	}
}
