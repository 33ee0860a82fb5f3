package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jchliao/twse-data/internal/decode"
	"github.com/jchliao/twse-data/internal/model"
)

// ExcelWriter appends snapshot tables to a date-partitioned workbook
// (twse_snapshots_YYYYMMDD.xlsx) on a single fixed-name sheet.
type ExcelWriter struct {
	dir   string
	sheet string
	now   func() time.Time
}

// NewExcelWriter creates a writer rooted at dir with the given sheet name.
func NewExcelWriter(dir, sheet string) *ExcelWriter {
	return &ExcelWriter{dir: dir, sheet: sheet, now: time.Now}
}

// Append writes all rows of the table below any existing content. Empty
// tables are skipped entirely.
func (w *ExcelWriter) Append(tbl *model.Table) error {
	if tbl.Empty() {
		return nil
	}

	date := w.now().In(decode.Taipei()).Format("20060102")
	path := filepath.Join(w.dir, fmt.Sprintf("twse_snapshots_%s.xlsx", date))

	f, nextRow, err := w.open(path, tbl.Columns())
	if err != nil {
		return err
	}
	defer f.Close()

	for i := range tbl.Rows {
		cell, err := excelize.CoordinatesToCellName(1, nextRow)
		if err != nil {
			return fmt.Errorf("cell coordinates: %w", err)
		}
		vals := tbl.Rows[i].Values()
		if err := f.SetSheetRow(w.sheet, cell, &vals); err != nil {
			return fmt.Errorf("write sheet row: %w", err)
		}
		nextRow++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// open returns the workbook and the first free row, creating the file and
// the header row when needed.
func (w *ExcelWriter) open(path string, columns []string) (*excelize.File, int, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f := excelize.NewFile()
		f.SetSheetName("Sheet1", w.sheet)
		if err := w.writeHeader(f, columns); err != nil {
			f.Close()
			return nil, 0, err
		}
		return f, 2, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook %s: %w", path, err)
	}

	idx, err := f.GetSheetIndex(w.sheet)
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("lookup sheet %s: %w", w.sheet, err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(w.sheet); err != nil {
			f.Close()
			return nil, 0, fmt.Errorf("create sheet %s: %w", w.sheet, err)
		}
		if err := w.writeHeader(f, columns); err != nil {
			f.Close()
			return nil, 0, err
		}
		return f, 2, nil
	}

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("read sheet %s: %w", w.sheet, err)
	}
	return f, len(rows) + 1, nil
}

func (w *ExcelWriter) writeHeader(f *excelize.File, columns []string) error {
	if err := f.SetSheetRow(w.sheet, "A1", &columns); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}
