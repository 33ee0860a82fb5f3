package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jchliao/twse-data/internal/history"
)

var barColumns = []string{"date", "symbol", "open", "high", "low", "close", "volume"}

// BarsCSVWriter writes historical daily-bar series to one CSV per export,
// all symbols in one file. Unlike the snapshot sinks this always truncates:
// a backfill export is a complete artifact, not an append stream.
type BarsCSVWriter struct {
	dir string
}

// NewBarsCSVWriter creates a writer rooted at dir.
func NewBarsCSVWriter(dir string) *BarsCSVWriter {
	return &BarsCSVWriter{dir: dir}
}

// Write exports all series to history_<start>_<end>.csv. Empty exports are
// skipped.
func (w *BarsCSVWriter) Write(series []history.Series, rng history.Range) (string, error) {
	total := 0
	for i := range series {
		total += len(series[i].Bars)
	}
	if total == 0 {
		return "", nil
	}

	name := fmt.Sprintf("history_%s_%s.csv",
		rng.Start.Format("20060102"), rng.End.Format("20060102"))
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create bars csv %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(barColumns); err != nil {
		return "", fmt.Errorf("write bars header: %w", err)
	}

	for i := range series {
		s := &series[i]
		for _, b := range s.Bars {
			record := []string{
				b.Date.Format("2006-01-02"),
				s.Symbol,
				renderCell(deref(b.Open)),
				renderCell(deref(b.High)),
				renderCell(deref(b.Low)),
				renderCell(deref(b.Close)),
				renderCell(derefInt(b.Volume)),
			}
			if err := cw.Write(record); err != nil {
				return "", fmt.Errorf("write bars row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush bars csv: %w", err)
	}
	return path, nil
}

func deref(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
