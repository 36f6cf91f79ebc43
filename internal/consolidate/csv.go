package consolidate

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"time"

	"uk-demand-dashboard/internal/data"
	"uk-demand-dashboard/internal/model"
)

func WriteDemandSeriesCSV(path string, s model.DemandSeries) error {
	header := make([]string, 0, len(s.Columns)+2)
	header = append(header, "timestamp")
	header = append(header, s.Columns...)
	header = append(header, model.ColSettlementDate)

	rows := make([][]string, 0, len(s.Buckets))
	for _, b := range s.Buckets {
		row := make([]string, 0, len(header))
		row = append(row, fmtTime(b.Start))
		for _, c := range s.Columns {
			row = append(row, fmtFloat(b.Value(c)))
		}
		row = append(row, b.SettlementDate)
		rows = append(rows, row)
	}
	return writeCSV(path, header, rows)
}

// WriteTemperatureCSV writes f back with its source header. The time and
// temperature cells are re-rendered; every other cell is copied verbatim.
func WriteTemperatureCSV(path string, f model.TemperatureFile) error {
	rows := make([][]string, 0, len(f.Records))
	for _, r := range f.Records {
		row := make([]string, len(r.Raw))
		copy(row, r.Raw)
		row[f.TimeColumn] = fmtTime(r.ObservedAt)
		row[f.TempColumn] = fmtFloat(r.TempC)
		rows = append(rows, row)
	}
	return writeCSV(path, f.Columns, rows)
}

func WriteCleanedCSV(path string, records []model.CleanedRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.SettlementDate,
			fmtTime(r.ObservedAt),
			fmtFloat(r.TempC),
			fmtFloat(r.TSD),
		})
	}
	return writeCSV(path, model.CleanedColumns, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(data.TimestampLayout)
}

// fmtFloat renders two decimals; NaN is an empty cell.
func fmtFloat(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', 2, 64)
}
