package model

import "time"

// CleanedRecord is one row of the final dataset consumed by the dashboard.
type CleanedRecord struct {
	SettlementDate string
	ObservedAt     time.Time
	TempC          float64
	TSD            float64
}

// CleanedColumns is the header of the cleaned CSV.
var CleanedColumns = []string{ColSettlementDate, ColObservedAt, ColTempC, ColTSD}
