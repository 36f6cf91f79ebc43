package consolidate

import (
	"strings"
	"time"

	"uk-demand-dashboard/internal/model"
)

// NormalizeDates rewrites every SETTLEMENT_DATE of f from layout into the
// canonical upper-case "01-JAN-2017" form. Dates that do not parse become
// empty (null) rather than failing the file; they surface later as rows
// without a timestamp. Files already in the canonical layout are returned
// as they are.
func NormalizeDates(f model.DemandFile, layout string) model.DemandFile {
	if layout == "" || layout == model.SettlementDateLayout {
		return f
	}
	out := f
	out.Records = make([]model.DemandRecord, len(f.Records))
	for i, r := range f.Records {
		d, err := time.Parse(layout, r.SettlementDate)
		if err != nil {
			r.SettlementDate = ""
		} else {
			r.SettlementDate = strings.ToUpper(d.Format(model.SettlementDateLayout))
		}
		out.Records[i] = r
	}
	return out
}

// Concat joins the records of files in file order then row order. Columns is
// the union of the files' numeric columns in first-seen order.
func Concat(files ...model.DemandFile) (records []model.DemandRecord, columns []string) {
	total := 0
	for _, f := range files {
		total += len(f.Records)
	}
	records = make([]model.DemandRecord, 0, total)
	seen := map[string]bool{}
	for _, f := range files {
		for _, c := range f.NumericColumns() {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
		records = append(records, f.Records...)
	}
	return records, columns
}
