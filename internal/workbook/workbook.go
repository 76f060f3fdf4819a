// Package workbook reads the source XLSX files into the row maps the
// ledger package consumes, and writes report exports.
package workbook

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kmeatops/inventory-recon/backend-go/internal/ledger"
)

const sheetDateLayout = "20060102"

// Workbook wraps an open XLSX file.
type Workbook struct {
	f *excelize.File
}

func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	return &Workbook{f: f}, nil
}

func OpenBytes(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx content: %w", err)
	}
	return &Workbook{f: f}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetDates lists the dates of YYYYMMDD-named sheets, newest first.
// Other sheet names are ignored.
func (w *Workbook) SheetDates() []time.Time {
	var dates []time.Time
	for _, name := range w.f.GetSheetList() {
		if len(name) != 8 {
			continue
		}
		d, err := time.Parse(sheetDateLayout, name)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

// LatestSheetDate returns the newest snapshot date in the workbook.
func (w *Workbook) LatestSheetDate() (time.Time, error) {
	dates := w.SheetDates()
	if len(dates) == 0 {
		return time.Time{}, fmt.Errorf("workbook has no YYYYMMDD sheets")
	}
	return dates[0], nil
}

// HasSheet reports whether the workbook contains the named sheet.
func (w *Workbook) HasSheet(name string) bool {
	for _, s := range w.f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// Rows reads a sheet into row maps keyed by the header row. Cells beyond
// the header width are dropped, short rows read as empty cells, and rows
// that are entirely empty are skipped.
func (w *Workbook) Rows(sheet string) ([]ledger.Row, error) {
	iter, err := w.f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	defer iter.Close()

	var header []string
	var out []ledger.Row
	for iter.Next() {
		cells, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row in sheet %s: %w", sheet, err)
		}
		if header == nil {
			header = make([]string, len(cells))
			for i, c := range cells {
				header[i] = strings.TrimSpace(c)
			}
			continue
		}

		row := make(ledger.Row, len(header))
		empty := true
		for i, name := range header {
			if name == "" {
				continue
			}
			var v string
			if i < len(cells) {
				v = cells[i]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			row[name] = v
		}
		if empty {
			continue
		}
		out = append(out, row)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("error iterating sheet %s: %w", sheet, err)
	}
	return out, nil
}

// DatedRows reads the sheet named after the given snapshot date.
func (w *Workbook) DatedRows(date time.Time) ([]ledger.Row, error) {
	return w.Rows(date.Format(sheetDateLayout))
}

// SheetName formats a snapshot date the way the workbooks name sheets.
func SheetName(date time.Time) string {
	return date.Format(sheetDateLayout)
}
