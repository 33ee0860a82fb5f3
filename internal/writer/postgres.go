package writer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jchliao/twse-data/internal/model"
)

// PostgresWriter persists snapshot tables into the quote_snapshots table
// using a single pgx batch per snapshot cycle. Inserts are append-only;
// re-fetched rows with an identical (code, ts) pair are dropped by the
// ON CONFLICT clause.
type PostgresWriter struct {
	db     *pgxpool.Pool
	runID  uuid.UUID
	logger *slog.Logger
}

// NewPostgresWriter creates a writer tagged with the run ID.
func NewPostgresWriter(db *pgxpool.Pool, runID uuid.UUID, logger *slog.Logger) *PostgresWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresWriter{db: db, runID: runID, logger: logger}
}

// Append inserts all rows of the table. Empty tables are a no-op.
func (w *PostgresWriter) Append(ctx context.Context, tbl *model.Table) error {
	if tbl.Empty() {
		return nil
	}

	start := time.Now()
	sql := insertSQL()

	batch := &pgx.Batch{}
	for i := range tbl.Rows {
		batch.Queue(sql, rowArgs(w.runID, &tbl.Rows[i])...)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	conflicts := 0
	for range tbl.Rows {
		ct, err := results.Exec()
		if err != nil {
			return fmt.Errorf("insert quote snapshot: %w", err)
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	w.logger.Debug("persisted snapshot table",
		"rows", len(tbl.Rows),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// insertSQL builds the insert statement from the fixed schema so the
// column list can never drift from the row projection.
func insertSQL() string {
	cols := append([]string{"run_id"}, model.Schema()...)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO quote_snapshots (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)
}

// rowArgs projects a row into insert order, run ID first.
func rowArgs(runID uuid.UUID, row *model.QuoteRow) []any {
	return append([]any{runID}, row.Values()...)
}
