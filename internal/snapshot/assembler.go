package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/jchliao/twse-data/internal/api"
	"github.com/jchliao/twse-data/internal/errlog"
	"github.com/jchliao/twse-data/internal/market"
	"github.com/jchliao/twse-data/internal/model"
)

// DefaultMinInterval is the hard floor between consecutive batch requests.
const DefaultMinInterval = 200 * time.Millisecond

// QuoteFetcher issues one quote request per batch. Satisfied by api.Client.
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, exCh string) ([]byte, error)
}

// Config holds assembler settings.
type Config struct {
	BatchSize   int           // codes per request (default 50)
	MinInterval time.Duration // floor between batch requests (default 200ms)
}

// DefaultConfig returns the endpoint-safe defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:   DefaultBatchSize,
		MinInterval: DefaultMinInterval,
	}
}

// Assembler drives the full snapshot cycle: classify, partition, fetch,
// decode, concatenate. Batch-level failures reduce the row count and are
// reflected in the error recorder; they never fail the cycle.
type Assembler struct {
	cfg      Config
	fetcher  QuoteFetcher
	dir      market.Directory
	recorder *errlog.Recorder
	logger   *slog.Logger
	limiter  *rate.Limiter
}

// New creates an assembler. A nil directory falls back to the seeded static
// table; a nil logger falls back to slog.Default().
func New(cfg Config, fetcher QuoteFetcher, dir market.Directory, recorder *errlog.Recorder, logger *slog.Logger) *Assembler {
	if dir == nil {
		dir = market.DefaultDirectory()
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Assembler{
		cfg:      cfg,
		fetcher:  fetcher,
		dir:      dir,
		recorder: recorder,
		logger:   logger,
	}
	if cfg.MinInterval > 0 {
		a.limiter = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}
	return a
}

// validate rejects configuration errors before any network activity. These
// are the only failures FetchSnapshot surfaces as errors.
func (a *Assembler) validate() error {
	if a.cfg.BatchSize < 1 {
		return fmt.Errorf("batch size must be >= 1, got %d", a.cfg.BatchSize)
	}
	if a.cfg.MinInterval < 0 {
		return fmt.Errorf("min interval must be >= 0, got %v", a.cfg.MinInterval)
	}
	if a.fetcher == nil {
		return fmt.Errorf("quote fetcher is required")
	}
	return nil
}

// FetchSnapshot fetches one snapshot cycle for codes and returns the
// normalized table. The table always carries the fixed column schema, with
// zero rows when every batch fails; rows appear in batch-then-item order.
// Network and parse failures are absorbed per batch. The returned error is
// non-nil only for configuration errors or context cancellation.
func (a *Assembler) FetchSnapshot(ctx context.Context, codes []string) (*model.Table, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	pairs := make([]Pair, len(codes))
	for i, code := range codes {
		pairs[i] = Pair{Code: code, Venue: a.dir.Classify(code)}
	}

	table := &model.Table{}
	batches := Partition(pairs, a.cfg.BatchSize)

	for i, batch := range batches {
		// Hard floor on request spacing, independent of how fast the
		// previous fetch returned.
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return table, err
			}
		}

		rows, ok := a.fetchBatch(ctx, batch)
		if !ok {
			if ctx.Err() != nil {
				return table, ctx.Err()
			}
			a.logger.Warn("batch dropped for this cycle",
				"batch", i+1,
				"batches", len(batches),
				"codes", len(batch),
			)
			continue
		}

		table.Rows = append(table.Rows, rows...)
		a.logger.Debug("batch decoded",
			"batch", i+1,
			"batches", len(batches),
			"rows", len(rows),
		)
	}

	return table, nil
}

// fetchBatch fetches and decodes one batch. Returns ok=false when the batch
// contributed nothing because of a fetch or parse failure.
func (a *Assembler) fetchBatch(ctx context.Context, batch Batch) ([]model.QuoteRow, bool) {
	body, err := a.fetcher.FetchQuotes(ctx, BuildQuery(batch))
	if err != nil {
		// Per-attempt details were already recorded by the fetcher.
		return nil, false
	}

	resp, err := api.ParseStockInfo(body)
	if err != nil {
		if a.recorder != nil {
			a.recorder.Record(errlog.LevelError, "PARSE", "json", err.Error(), nil)
		}
		return nil, false
	}

	rows := make([]model.QuoteRow, 0, len(resp.MsgArray))
	for _, msg := range resp.MsgArray {
		rows = append(rows, decodeRow(msg))
	}
	return rows, true
}
