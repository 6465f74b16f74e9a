// Package sender fires resolved tracking URLs as HTTP beacons.
//
// A beacon is a fire-and-forget GET: the response body is drained and
// discarded, and nothing is retried.
package sender

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single beacon request.
const DefaultTimeout = 5 * time.Second

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "beacon/1.0"

// maxDrain caps how much of a response body is read before closing.
const maxDrain = 64 << 10

// StatusError reports a beacon answered with an HTTP error status.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d at %s", e.StatusCode, e.URL)
}

// HTTPSender sends beacons with an http.Client.
// It is safe for concurrent use.
type HTTPSender struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures an HTTPSender.
type Option func(*HTTPSender)

// WithClient sets the HTTP client. Default: a new http.Client.
func WithClient(c *http.Client) Option {
	return func(s *HTTPSender) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout sets the per-beacon timeout. Zero disables it.
// Default: DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSender) {
		s.timeout = d
	}
}

// WithUserAgent sets the User-Agent header. Default: DefaultUserAgent
func WithUserAgent(ua string) Option {
	return func(s *HTTPSender) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// NewHTTPSender creates an HTTPSender with the given options.
func NewHTTPSender(opts ...Option) *HTTPSender {
	s := &HTTPSender{
		client:    &http.Client{},
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send issues a GET for url and discards the response.
// Statuses of 400 and above are returned as *StatusError.
func (s *HTTPSender) Send(ctx context.Context, url string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build beacon request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send beacon: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	if resp.StatusCode >= http.StatusBadRequest {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return nil
}
