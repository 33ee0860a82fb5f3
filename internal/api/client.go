package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jchliao/twse-data/internal/errlog"
)

// Default client settings. The backoff schedule is indexed by attempt:
// the fetcher sleeps Backoff[i] after failed attempt i+1 and never sleeps
// after the final attempt.
var DefaultBackoff = []time.Duration{
	500 * time.Millisecond,
	1 * time.Second,
	2 * time.Second,
}

const (
	DefaultTimeout     = 5 * time.Second
	DefaultMaxAttempts = 3
	DefaultLang        = "zh_tw"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"
	defaultReferer   = "https://mis.twse.com.tw/stock/detail-item"
)

// Client fetches quote snapshots from the exchange's realtime endpoint.
// Failed attempts are recorded on the run's error recorder; the endpoint
// requires browser-like headers or it serves empty payloads.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	recorder   *errlog.Recorder

	maxAttempts int
	backoff     []time.Duration
	userAgent   string
	referer     string
	lang        string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a quote endpoint client. The recorder receives one
// entry per failed attempt and may be nil in tests that don't assert on it.
func NewClient(baseURL string, recorder *errlog.Recorder, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:      slog.Default(),
		recorder:    recorder,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		userAgent:   defaultUserAgent,
		referer:     defaultReferer,
		lang:        DefaultLang,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the attempt budget and the backoff schedule between
// failed attempts.
func WithRetries(maxAttempts int, backoff []time.Duration) ClientOption {
	return func(c *Client) {
		c.maxAttempts = maxAttempts
		c.backoff = backoff
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

// WithLang sets the language tag sent to the endpoint.
func WithLang(lang string) ClientOption {
	return func(c *Client) {
		c.lang = lang
	}
}
