// Package export renders datasets and chart aggregates as downloadable files.
package export

import (
	"bytes"
	"fmt"
	"math"

	"uk-demand-dashboard/internal/data"
	"uk-demand-dashboard/internal/model"
	"uk-demand-dashboard/internal/table"

	"github.com/xuri/excelize/v2"
)

const (
	cleanedSheet = "cleaned"
	pageSheet    = "page"
)

// BuildCleanedXLSX renders the consolidated dataset as a single-sheet workbook.
func BuildCleanedXLSX(records []model.CleanedRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", cleanedSheet); err != nil {
		return nil, err
	}

	if err := setRow(f, cleanedSheet, 1, stringsToCells(model.CleanedColumns)); err != nil {
		return nil, err
	}
	for i, r := range records {
		row := []any{
			r.SettlementDate,
			r.ObservedAt.UTC().Format(data.TimestampLayout),
			cellFloat(r.TempC),
			cellFloat(r.TSD),
		}
		if err := setRow(f, cleanedSheet, i+2, row); err != nil {
			return nil, err
		}
	}
	return write(f)
}

// BuildPageXLSX renders one table page, numeric columns as numbers.
func BuildPageXLSX(p table.Page) ([]byte, error) {
	t := p.Table()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", pageSheet); err != nil {
		return nil, err
	}

	cols := t.Columns()
	if err := setRow(f, pageSheet, 1, stringsToCells(cols)); err != nil {
		return nil, err
	}
	for r := p.Start; r < p.End; r++ {
		row := make([]any, len(cols))
		for c := range cols {
			if t.IsNumeric(c) {
				row[c] = cellFloat(t.Float(r, c))
			} else {
				row[c] = t.Cell(r, c)
			}
		}
		if err := setRow(f, pageSheet, r-p.Start+2, row); err != nil {
			return nil, err
		}
	}
	return write(f)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("sheet %s row %d: %w", sheet, row, err)
	}
	return nil
}

func write(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cellFloat leaves NaN cells blank.
func cellFloat(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func stringsToCells(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
