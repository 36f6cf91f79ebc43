package data

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"uk-demand-dashboard/internal/model"
)

// LoadDemandCSV reads one yearly demand file.
//
// SETTLEMENT_DATE is kept as raw text: date layouts differ between years and
// are normalised later. Every other column must be numeric; a bad numeric cell
// fails the whole file.
func LoadDemandCSV(path string) (model.DemandFile, error) {
	header, rows, err := ReadCSV(path)
	if err != nil {
		return model.DemandFile{}, err
	}
	dateIdx := columnIndex(header, model.ColSettlementDate)
	periodIdx := columnIndex(header, model.ColSettlementPeriod)
	if dateIdx < 0 || periodIdx < 0 {
		return model.DemandFile{}, fmt.Errorf("%s: missing %s or %s column",
			path, model.ColSettlementDate, model.ColSettlementPeriod)
	}

	out := model.DemandFile{
		Name:    filepath.Base(path),
		Columns: header,
		Records: make([]model.DemandRecord, 0, len(rows)),
	}
	for n, row := range rows {
		line := n + 2
		rec := model.DemandRecord{
			SettlementDate: strings.TrimSpace(row[dateIdx]),
			Values:         make(map[string]float64, len(header)-1),
		}
		for i, col := range header {
			if i == dateIdx {
				continue
			}
			v, err := ParseFloat(row[i])
			if err != nil {
				return model.DemandFile{}, fmt.Errorf("%s:%d: column %s: %w", path, line, col, err)
			}
			rec.Values[col] = v
		}
		period := rec.Values[model.ColSettlementPeriod]
		if math.IsNaN(period) || period != math.Trunc(period) {
			return model.DemandFile{}, fmt.Errorf("%s:%d: invalid %s %q",
				path, line, model.ColSettlementPeriod, row[periodIdx])
		}
		rec.SettlementPeriod = int(period)
		out.Records = append(out.Records, rec)
	}
	return out, nil
}
