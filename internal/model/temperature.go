package model

import "time"

// Default column names of the UK temperature file.
const (
	ColObservedAt = "observation_dtg_utc"
	ColTempC      = "temp_c"
)

// TemperatureRecord is one observation from the temperature file.
// Raw keeps the source cells, in header order, so the file can be
// written back out without losing columns.
type TemperatureRecord struct {
	ObservedAt time.Time
	TempC      float64
	Raw        []string
}

// TemperatureFile is the parsed temperature CSV.
type TemperatureFile struct {
	Name       string
	Columns    []string
	TimeColumn int
	TempColumn int
	Records    []TemperatureRecord
}
