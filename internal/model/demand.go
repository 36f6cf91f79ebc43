package model

import (
	"math"
	"time"
)

// Column names used by the National Grid ESO demand files.
const (
	ColSettlementDate   = "SETTLEMENT_DATE"
	ColSettlementPeriod = "SETTLEMENT_PERIOD"
	ColTSD              = "TSD"
)

// SettlementDateLayout is the canonical settlement date layout ("01-JAN-2017").
// Parsing is case-insensitive for the month name.
const SettlementDateLayout = "02-Jan-2006"

// PeriodLength is the width of one settlement period.
const PeriodLength = 30 * time.Minute

// DemandRecord is one settlement period row from a yearly demand file.
//
// Values holds every numeric column of the row, SETTLEMENT_PERIOD included.
// Empty cells are NaN; columns missing from the source file are absent.
type DemandRecord struct {
	SettlementDate   string
	SettlementPeriod int
	Values           map[string]float64
}

// Date parses SettlementDate. An empty or malformed date reports false.
func (r DemandRecord) Date() (time.Time, bool) {
	if r.SettlementDate == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(SettlementDateLayout, r.SettlementDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Timestamp is the start of the settlement period: date + (period-1) * 30m.
func (r DemandRecord) Timestamp() (time.Time, bool) {
	d, ok := r.Date()
	if !ok {
		return time.Time{}, false
	}
	return d.Add(time.Duration(r.SettlementPeriod-1) * PeriodLength), true
}

// Value returns the named column, NaN when absent.
func (r DemandRecord) Value(col string) float64 {
	v, ok := r.Values[col]
	if !ok {
		return math.NaN()
	}
	return v
}

// DemandFile is the parsed content of one yearly demand CSV.
type DemandFile struct {
	Name    string
	Columns []string
	Records []DemandRecord
}

// NumericColumns returns the header minus SETTLEMENT_DATE, in file order.
func (f DemandFile) NumericColumns() []string {
	out := make([]string, 0, len(f.Columns))
	for _, c := range f.Columns {
		if c != ColSettlementDate {
			out = append(out, c)
		}
	}
	return out
}
