package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jchliao/twse-data/internal/decode"
	"github.com/jchliao/twse-data/internal/market"
)

// Default client settings.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 4

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"
)

// Client fetches daily OHLCV bars from a chart-style provider. Unlike the
// realtime fetcher there is no retry budget here: the provider is a backfill
// source and a failed symbol simply surfaces as an error for that symbol.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	concurrency int
	userAgent   string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a daily-bars client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
		userAgent:   defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithConcurrency bounds the number of in-flight symbol fetches in FetchAll.
func WithConcurrency(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
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

// Fetch retrieves daily bars for one code over the given range.
func (c *Client) Fetch(ctx context.Context, code string, venue market.Venue, rng Range) (*Series, error) {
	symbol := Symbol(code, venue)
	p1, p2 := rng.periods()

	query := url.Values{}
	query.Set("period1", fmt.Sprintf("%d", p1))
	query.Set("period2", fmt.Sprintf("%d", p2))
	query.Set("interval", "1d")

	fullURL := c.baseURL + "/" + url.PathEscape(symbol) + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch %s: status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response for %s: %w", symbol, err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response for %s: %w", symbol, err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("provider error for %s: %s: %s",
			symbol, parsed.Chart.Error.Code, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart result for %s", symbol)
	}

	series := &Series{
		Code:   code,
		Venue:  venue,
		Symbol: symbol,
		Bars:   parsed.Chart.Result[0].bars(decode.Taipei()),
	}

	c.logger.Debug("fetched daily bars",
		"symbol", symbol,
		"bars", len(series.Bars),
	)

	return series, nil
}

// FetchAll retrieves bars for every code concurrently, bounded by the
// client's concurrency limit. Results come back in the caller's code order.
// Any symbol failure fails the whole call; backfill is all-or-nothing so a
// partial export never masquerades as a complete one.
func (c *Client) FetchAll(ctx context.Context, codes []string, dir market.Directory, rng Range) ([]Series, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("at least one ticker code is required")
	}

	results := make([]Series, len(codes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, code := range codes {
		i, code := i, code
		g.Go(func() error {
			s, err := c.Fetch(ctx, code, dir.Classify(code), rng)
			if err != nil {
				return err
			}
			results[i] = *s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
