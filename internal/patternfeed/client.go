// Package patternfeed fetches merchant and keyword tables from a remote pattern store.
package patternfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/spice-categorizer/internal/categorize"
	"github.com/Veraticus/spice-categorizer/internal/common"
	"github.com/Veraticus/spice-categorizer/internal/model"
)

var _ categorize.PatternFetcher = (*Client)(nil)

// DefaultTimeout bounds a single feed request.
const DefaultTimeout = 10 * time.Second

// Client reads the public pattern feed over HTTP.
type Client struct {
	httpClient *http.Client
	url        string
	retry      common.RetryOptions
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryOptions overrides the retry policy.
func WithRetryOptions(opts common.RetryOptions) Option {
	return func(c *Client) {
		c.retry = opts
	}
}

// NewClient creates a feed client for the given patterns endpoint.
func NewClient(url string, opts ...Option) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: pattern feed url", common.ErrMissingConfig)
	}

	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		retry: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchPatterns performs the GET and decodes the feed. Server errors and transport
// failures are retried; client errors are not.
func (c *Client) FetchPatterns(ctx context.Context) (*model.PatternFeed, error) {
	var feed *model.PatternFeed

	err := common.WithRetry(ctx, func() error {
		var err error
		feed, err = c.fetchOnce(ctx)
		return err
	}, c.retry)
	if err != nil {
		return nil, err
	}

	return feed, nil
}

func (c *Client) fetchOnce(ctx context.Context) (*model.PatternFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("Requesting pattern feed", "url", c.url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &common.RetryableError{Err: err}
		}
		return nil, &common.RetryableError{Err: fmt.Errorf("failed to fetch patterns: %w", err), Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("pattern feed error: %d - %s", resp.StatusCode, string(body)),
			Retryable: resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
		}
	}

	var feed model.PatternFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("failed to decode pattern feed: %w", err)}
	}

	return &feed, nil
}
