package api

import (
	"log/slog"
	"net/http"
	"time"
)

// Defaults chosen for a dashboard client sitting close to its backend:
// generous request timeout, a few retries with short backoff.
const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRetries   = 3
	defaultRetryBackoff = time.Second
)

// Client talks to the signal backend's REST surface. One Client is shared
// by everything in the process; it is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a client for the backend at baseURL (no trailing
// slash). An empty apiKey disables bearer auth, which is how a local
// backend runs.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:       slog.Default(),
		maxRetries:   defaultMaxRetries,
		retryBackoff: defaultRetryBackoff,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets how many times a retryable failure is re-attempted and
// the starting backoff between attempts.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely; any timeout
// set via WithTimeout before this point is discarded with it.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
