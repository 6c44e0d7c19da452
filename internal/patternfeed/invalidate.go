package patternfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Veraticus/spice-categorizer/internal/common"
)

// InvalidatePath is the server route that drops the cached pattern tables.
const InvalidatePath = "/api/patterns/invalidate"

// InvalidateURL joins a server base URL and InvalidatePath.
func InvalidateURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + InvalidatePath
}

// Invalidate POSTs to the client's URL, which must be a server's invalidate
// endpoint, asking it to drop its cached tables. Retries follow the same policy
// as FetchPatterns.
func (c *Client) Invalidate(ctx context.Context) error {
	return common.WithRetry(ctx, func() error {
		return c.invalidateOnce(ctx)
	}, c.retry)
}

func (c *Client) invalidateOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, nil)
	if err != nil {
		return &common.RetryableError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &common.RetryableError{Err: err}
		}
		return &common.RetryableError{Err: fmt.Errorf("failed to invalidate patterns: %w", err), Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &common.RetryableError{
			Err:       fmt.Errorf("invalidate error: %d - %s", resp.StatusCode, string(body)),
			Retryable: resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
		}
	}
	return nil
}
