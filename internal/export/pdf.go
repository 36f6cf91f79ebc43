package export

import (
	"bytes"
	"fmt"

	"uk-demand-dashboard/internal/chart"

	"github.com/jung-kurt/gofpdf"
)

// BuildAggregatePDF renders the grouped sums behind a chart as a table.
func BuildAggregatePDF(a chart.Aggregation, rows int) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, chart.Title(a))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Page: %d (%d rows)", a.Page, rows))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Groups: %d", len(a.Groups)))
	pdf.Ln(8)

	// Landscape A4 leaves 277mm between the default margins.
	colW := 277.0 / float64(len(a.Series)+1)
	if colW > 60 {
		colW = 60
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(colW, 6, a.GroupColumn, "1", 0, "C", false, 0, "")
	for _, s := range a.Series {
		pdf.CellFormat(colW, 6, s, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, g := range a.Groups {
		pdf.CellFormat(colW, 6, g.Label, "1", 0, "L", false, 0, "")
		for _, v := range g.Sums {
			pdf.CellFormat(colW, 6, fmt.Sprintf("%.2f", v), "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
