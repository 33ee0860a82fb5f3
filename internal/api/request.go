package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jchliao/twse-data/internal/errlog"
)

// APIError represents a non-success status from the quote endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quote endpoint error %d: %s", e.StatusCode, e.Message)
}

// FetchQuotes issues one GET for the given venue-qualified filter string
// (see snapshot.BuildQuery) and returns the raw response body. Up to
// maxAttempts attempts are made; each failed attempt is recorded with its
// attempt index, and the fetcher sleeps the scheduled backoff between
// attempts. When the budget is exhausted the batch yields no response and
// the caller drops it for this cycle.
func (c *Client) FetchQuotes(ctx context.Context, exCh string) ([]byte, error) {
	query := url.Values{}
	query.Set("ex_ch", exCh)
	query.Set("json", "1")
	query.Set("delay", "0")
	query.Set("lang", c.lang)

	fullURL := c.baseURL + "?" + query.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		c.recordAttempt(attempt, err)

		if attempt == c.maxAttempts {
			break
		}
		if err := c.sleepBackoff(ctx, attempt); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", c.maxAttempts, lastErr)
}

// doRequest performs a single GET with the browser-like header set the
// endpoint expects.
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", c.referer)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return body, nil
}

// recordAttempt files one recorder entry per failed attempt. Non-success
// statuses are warnings; transport failures (timeouts included) are errors
// carrying the error type.
func (c *Client) recordAttempt(attempt int, err error) {
	if c.recorder == nil {
		return
	}
	if apiErr, ok := err.(*APIError); ok {
		c.recorder.Record(errlog.LevelWarn, "HTTP", "get",
			fmt.Sprintf("status_code=%d", apiErr.StatusCode),
			map[string]any{"attempt": attempt})
		return
	}
	c.recorder.Record(errlog.LevelError, "HTTP", "get",
		fmt.Sprintf("%T: %v", err, err),
		map[string]any{"attempt": attempt})
}

// sleepBackoff blocks for the scheduled delay after the given failed
// attempt, honoring context cancellation.
func (c *Client) sleepBackoff(ctx context.Context, attempt int) error {
	if attempt > len(c.backoff) {
		return nil
	}
	d := c.backoff[attempt-1]

	c.logger.Debug("retrying quote fetch",
		"attempt", attempt+1,
		"backoff", d,
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
