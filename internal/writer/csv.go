package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jchliao/twse-data/internal/decode"
	"github.com/jchliao/twse-data/internal/model"
)

// CSVWriter appends snapshot tables to a date-partitioned CSV file
// (snapshots_YYYYMMDD.csv). The header is written once per file; nil values
// render as empty cells so the column set stays fixed.
type CSVWriter struct {
	dir string
	now func() time.Time
}

// NewCSVWriter creates a writer rooted at dir.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir, now: time.Now}
}

// Append writes all rows of the table. Empty tables are skipped entirely so
// zero-row runs leave no output files behind.
func (w *CSVWriter) Append(tbl *model.Table) error {
	if tbl.Empty() {
		return nil
	}

	date := w.now().In(decode.Taipei()).Format("20060102")
	path := filepath.Join(w.dir, fmt.Sprintf("snapshots_%s.csv", date))

	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeHeader {
		if err := cw.Write(tbl.Columns()); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}

	for i := range tbl.Rows {
		record := renderRecord(tbl.Rows[i].Values())
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// renderRecord stringifies schema-ordered values, mapping nil to the empty
// cell.
func renderRecord(vals []any) []string {
	record := make([]string, len(vals))
	for i, v := range vals {
		record[i] = renderCell(v)
	}
	return record
}

func renderCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}
