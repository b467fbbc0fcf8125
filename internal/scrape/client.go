package scrape

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"
)

const sourceName = "scrape"

// Client fetches the statistics portal listing page, one request at a time.
type Client struct {
	baseURL    string
	path       string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger

	cooldown time.Duration

	// slot serializes requests; lastRequest is only touched by the holder.
	slot        *semaphore.Weighted
	lastRequest time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new scrape client.
func NewClient(baseURL, path string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   baseURL,
		path:      path,
		userAgent: "mandi-data-resolver/1.0 (+https://github.com/krishimitra/mandi-data)",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:   slog.Default(),
		cooldown: 2 * time.Second,
		slot:     semaphore.NewWeighted(1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithCooldown sets the minimum inter-request delay.
func WithCooldown(d time.Duration) ClientOption {
	return func(c *Client) {
		c.cooldown = d
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets the client identity header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
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

// acquireSlot claims the request slot and waits out the remaining cooldown.
// The caller must release the returned func. Context cancellation aborts
// both the claim and the wait.
func (c *Client) acquireSlot(ctx context.Context) (release func(), err error) {
	if err := c.slot.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	if wait := c.cooldown - time.Since(c.lastRequest); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			c.slot.Release(1)
			return nil, ctx.Err()
		}
	}

	return func() { c.slot.Release(1) }, nil
}
