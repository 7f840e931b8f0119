// Package report writes and reads the quick-close report workbooks.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"quickclose-report/internal/models"

	"github.com/xuri/excelize/v2"
)

// Sheet is one named table of a workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// TradesSheet lays out enriched trades with TradeColumns.
func TradesSheet(name string, rows []models.EnrichedTrade) Sheet {
	header := make([]string, len(TradeColumns))
	for i, c := range TradeColumns {
		header[i] = c.Name
	}

	out := make([][]interface{}, len(rows))
	for i := range rows {
		cells := make([]interface{}, len(TradeColumns))
		for j, c := range TradeColumns {
			cells[j] = c.Value(&rows[i])
		}
		out[i] = cells
	}
	return Sheet{Name: name, Header: header, Rows: out}
}

// SummarySheet lays out login summaries with SummaryHeader.
func SummarySheet(name string, rows []models.LoginSummary) Sheet {
	out := make([][]interface{}, len(rows))
	for i, s := range rows {
		out[i] = summaryRow(s)
	}
	return Sheet{Name: name, Header: SummaryHeader, Rows: out}
}

// WriteWorkbook writes sheets, in order, to an xlsx file at path. The
// workbook is built in a temporary file next to path and renamed into
// place, so path either holds every sheet or is left untouched.
func WriteWorkbook(path string, sheets ...Sheet) (err error) {
	if len(sheets) == 0 {
		return errors.New("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", s.Name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".quickclose-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s Sheet) error {
	header := make([]interface{}, len(s.Header))
	for i, h := range s.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", s.Name, err)
	}

	for i := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.Name, cell, &s.Rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i+1, s.Name, err)
		}
	}
	return nil
}

// ReadTrades parses a sheet written from TradesSheet back into enriched
// trades. Columns are matched by header name; unknown columns are ignored
// and every name in required must be present.
func ReadTrades(path, sheet string, required ...string) ([]models.EnrichedTrade, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found in %s", sheet, path)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	positions := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		positions[name] = i
	}
	for _, name := range required {
		if _, ok := positions[name]; !ok {
			return nil, fmt.Errorf("sheet %q has no %q column", sheet, name)
		}
	}

	type bound struct {
		col Column
		pos int
	}
	var cols []bound
	for _, c := range TradeColumns {
		if pos, ok := positions[c.Name]; ok {
			cols = append(cols, bound{col: c, pos: pos})
		}
	}

	trades := make([]models.EnrichedTrade, 0, len(rows)-1)
	for i, row := range rows[1:] {
		var t models.EnrichedTrade
		for _, b := range cols {
			raw := ""
			if b.pos < len(row) {
				raw = row[b.pos]
			}
			if err := b.col.Parse(&t, raw); err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+2, b.col.Name, err)
			}
		}
		trades = append(trades, t)
	}
	return trades, nil
}
