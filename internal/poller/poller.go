package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jchliao/twse-data/internal/model"
)

// SnapshotSource produces one normalized snapshot table per cycle.
// Satisfied by snapshot.Assembler.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context, codes []string) (*model.Table, error)
}

// TableHandler receives each cycle's table.
type TableHandler interface {
	HandleTable(ctx context.Context, tbl *model.Table) error
}

// TableHandlerFunc is a function adapter for TableHandler.
type TableHandlerFunc func(context.Context, *model.Table) error

func (f TableHandlerFunc) HandleTable(ctx context.Context, tbl *model.Table) error {
	return f(ctx, tbl)
}

// Config holds poller configuration.
type Config struct {
	Rounds   int           // number of snapshot cycles (default: 1)
	Interval time.Duration // sleep between cycles; no sleep after the last
}

// DefaultConfig returns a single immediate cycle.
func DefaultConfig() Config {
	return Config{Rounds: 1}
}

// Poller runs snapshot cycles sequentially: fetch, hand the table to the
// handler, sleep, repeat. Cycles never overlap; a cycle that recovers zero
// rows still reaches the handler so the caller can surface a notice.
type Poller struct {
	cfg     Config
	source  SnapshotSource
	codes   []string
	handler TableHandler
	logger  *slog.Logger
}

// New creates a poller for the given code list.
func New(cfg Config, source SnapshotSource, codes []string, handler TableHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		source:  source,
		codes:   codes,
		handler: handler,
		logger:  logger,
	}
}

// Run executes all configured cycles. Configuration errors and handler
// errors stop the run; fetch-side data problems are already absorbed by the
// source and only shrink the tables.
func (p *Poller) Run(ctx context.Context) error {
	if p.cfg.Rounds < 1 {
		return fmt.Errorf("rounds must be >= 1, got %d", p.cfg.Rounds)
	}
	if p.cfg.Interval < 0 {
		return fmt.Errorf("interval must be >= 0, got %v", p.cfg.Interval)
	}
	if len(p.codes) == 0 {
		return fmt.Errorf("at least one ticker code is required")
	}

	for round := 1; round <= p.cfg.Rounds; round++ {
		start := time.Now()
		p.logger.Info("starting snapshot cycle",
			"round", round,
			"rounds", p.cfg.Rounds,
			"codes", len(p.codes),
		)

		tbl, err := p.source.FetchSnapshot(ctx, p.codes)
		if err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}

		if p.handler != nil {
			if err := p.handler.HandleTable(ctx, tbl); err != nil {
				return fmt.Errorf("round %d: handle table: %w", round, err)
			}
		}

		p.logger.Info("snapshot cycle complete",
			"round", round,
			"rows", len(tbl.Rows),
			"duration", time.Since(start),
		)

		if round < p.cfg.Rounds && p.cfg.Interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.cfg.Interval):
			}
		}
	}

	return nil
}
