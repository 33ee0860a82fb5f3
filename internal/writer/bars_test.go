package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jchliao/twse-data/internal/history"
	"github.com/jchliao/twse-data/internal/market"
)

func sampleSeries(t *testing.T) ([]history.Series, history.Range) {
	t.Helper()

	rng, err := history.NewRange("2025-09-18", "2025-09-19", 30)
	if err != nil {
		t.Fatalf("NewRange failed: %v", err)
	}

	closePx := 118.5
	vol := int64(23415)

	return []history.Series{
		{
			Code:   "2330",
			Venue:  market.VenueListed,
			Symbol: "2330.TW",
			Bars: []history.Bar{
				{
					Date:   time.Date(2025, 9, 18, 0, 0, 0, 0, time.UTC),
					Close:  &closePx,
					Volume: &vol,
				},
				{
					Date: time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC),
					// halted session: all fields null
				},
			},
		},
	}, rng
}

func TestBarsWrite(t *testing.T) {
	dir := t.TempDir()
	series, rng := sampleSeries(t)

	path, err := NewBarsCSVWriter(dir).Write(series, rng)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Base(path) != "history_20250918_20250919.csv" {
		t.Errorf("file name = %s", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (header + 2 bars)", len(records))
	}

	if records[0][0] != "date" || records[0][1] != "symbol" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "2330.TW" {
		t.Errorf("symbol cell = %q, want 2330.TW", records[1][1])
	}
	if records[1][5] != "118.5" {
		t.Errorf("close cell = %q, want 118.5", records[1][5])
	}
	if records[2][5] != "" {
		t.Errorf("null close rendered as %q, want empty", records[2][5])
	}
}

func TestBarsWriteSkipsEmptyExport(t *testing.T) {
	dir := t.TempDir()
	_, rng := sampleSeries(t)

	path, err := NewBarsCSVWriter(dir).Write([]history.Series{{Code: "2330"}}, rng)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if path != "" {
		t.Errorf("empty export produced %s", path)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.csv"))
	if len(matches) != 0 {
		t.Errorf("empty export left files: %v", matches)
	}
}
