package govapi

import (
	"log/slog"
	"net/http"
	"time"
)

const sourceName = "government_api"

// Client provides access to the data.gov.in mandi price resource.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	pageSize  int
	resultCap int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new market API client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    slog.Default(),
		pageSize:  100,
		resultCap: 20,
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

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPageSize sets how many records are requested per call.
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithResultCap sets the maximum number of quotes returned after filtering.
func WithResultCap(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.resultCap = n
		}
	}
}
