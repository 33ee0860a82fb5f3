package errlog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jchliao/twse-data/internal/decode"
)

// Level classifies a recorded entry.
type Level string

const (
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Recorder buffers structured warning/error lines for one run and mirrors
// each entry to the operator log. A fresh recorder is created per run and
// passed into the components that need it; there is no process-global
// instance. Not safe for concurrent use: the gatherer appends from a single
// flow of control.
type Recorder struct {
	runID   uuid.UUID
	logger  *slog.Logger
	now     func() time.Time
	records []string
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the timestamp source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// New creates a recorder with a fresh run ID.
func New(logger *slog.Logger, opts ...Option) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		runID:  uuid.New(),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID identifies this run in drained lines and persisted rows.
func (r *Recorder) RunID() uuid.UUID {
	return r.runID
}

// Len returns the number of buffered entries.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Record appends a structured entry and emits an operator-visible log line.
// subject is the affected ticker code or a pseudo-subject like "HTTP";
// step names the pipeline stage that failed.
func (r *Recorder) Record(level Level, subject, step, message string, context map[string]any) {
	ctx := "{}"
	if len(context) > 0 {
		if b, err := json.Marshal(context); err == nil {
			ctx = string(b)
		}
	}

	now := r.now().In(decode.Taipei()).Format(time.RFC3339)
	line := fmt.Sprintf("%s | %s | %s | %s | %s | %s | %s",
		now, r.runID, level, subject, step, message, ctx)
	r.records = append(r.records, line)

	attrs := []any{"subject", subject, "step", step}
	for k, v := range context {
		attrs = append(attrs, k, v)
	}
	switch level {
	case LevelError:
		r.logger.Error(message, attrs...)
	default:
		r.logger.Warn(message, attrs...)
	}
}

// Drain writes all buffered lines to w and clears the buffer. A no-op when
// the buffer is empty.
func (r *Recorder) Drain(w io.Writer) error {
	if len(r.records) == 0 {
		return nil
	}
	for _, line := range r.records {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write error log: %w", err)
		}
	}
	r.records = r.records[:0]
	return nil
}

// DrainToDir appends buffered lines to a date-partitioned log file in dir
// (error_log_YYYYMMDD.log) and clears the buffer. A no-op when empty.
func (r *Recorder) DrainToDir(dir string) error {
	if len(r.records) == 0 {
		return nil
	}
	name := fmt.Sprintf("error_log_%s.log", r.now().In(decode.Taipei()).Format("20060102"))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open error log %s: %w", path, err)
	}
	defer f.Close()

	return r.Drain(f)
}
