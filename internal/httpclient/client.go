// Package httpclient provides the HTTP client used by the remote question sources
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retries after a failed attempt
	DefaultMaxRetries = 2

	// MaxResponseSize is the maximum allowed response size (10MB)
	MaxResponseSize = 10 * 1024 * 1024

	// UserAgent is the user agent string for HTTP requests
	UserAgent = "quizzed-backend/1.0"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=client.go Client

// Client is an interface for HTTP operations
type Client interface {
	// Get performs an HTTP GET request with the given extra headers and returns the response body
	Get(ctx context.Context, url string, header http.Header) ([]byte, error)
}

// DefaultClient is the default HTTP client implementation.
// Transport failures and 429/5xx responses are retried with exponential backoff.
type DefaultClient struct {
	client     *http.Client
	timeout    time.Duration
	maxRetries int
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
}

// Option configures a DefaultClient
type Option func(*DefaultClient)

// WithMaxRetries sets how many times a retryable failure is retried.
// Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(c *DefaultClient) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackOff sets the backoff policy factory used between retries
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *DefaultClient) {
		if fn != nil {
			c.newBackOff = fn
		}
	}
}

// WithLogger sets the logger used to report retries
func WithLogger(logger *zap.Logger) Option {
	return func(c *DefaultClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransport sets the round tripper used for requests, typically an instrumented one
func WithTransport(rt http.RoundTripper) Option {
	return func(c *DefaultClient) {
		if rt != nil {
			c.client.Transport = rt
		}
	}
}

// NewDefaultClient creates a new default HTTP client with the specified timeout
// If timeout is 0, uses DefaultTimeout
func NewDefaultClient(timeout time.Duration, opts ...Option) Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	c := &DefaultClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout:    timeout,
		maxRetries: DefaultMaxRetries,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request
func (c *DefaultClient) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	operation := func() ([]byte, error) {
		body, err := c.get(ctx, url, header)
		if err != nil && !isRetryable(ctx, err) {
			return nil, backoff.Permanent(err)
		}
		return body, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.maxRetries)+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Debug("retrying request",
				zap.String("url", url),
				zap.Duration("backoff", next),
				zap.Error(err))
		}),
	)
}

func (c *DefaultClient) get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &requestError{err: fmt.Errorf("failed to create request: %w", err)}
	}

	// Set headers
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	// Execute request
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Check status code
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, NewHTTPError(resp.StatusCode, url, resp.Status)
	}

	// Check Content-Length header if available
	if resp.ContentLength > MaxResponseSize {
		return nil, &requestError{err: fmt.Errorf(
			"response size %d bytes exceeds maximum allowed size of %d bytes (%.2f MB)",
			resp.ContentLength, MaxResponseSize, float64(MaxResponseSize)/(1024*1024))}
	}

	// +1 to detect if limit exceeded
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > MaxResponseSize {
		return nil, &requestError{err: fmt.Errorf("response size exceeds maximum allowed size of %d bytes (%.2f MB)",
			MaxResponseSize, float64(MaxResponseSize)/(1024*1024))}
	}

	return body, nil
}

// isRetryable reports whether a failed attempt is worth repeating
func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests ||
			httpErr.StatusCode >= http.StatusInternalServerError
	}

	return true
}
