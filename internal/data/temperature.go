package data

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"uk-demand-dashboard/internal/model"
)

// TimestampLayout is how timestamps are written to every output CSV.
const TimestampLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp accepts the timestamp layouts seen in the temperature feed.
// Zone-less values are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// LoadTemperatureCSV reads the temperature file. Unlike settlement dates, an
// unparseable observation timestamp is an error.
func LoadTemperatureCSV(path, timeColumn, valueColumn string) (model.TemperatureFile, error) {
	header, rows, err := ReadCSV(path)
	if err != nil {
		return model.TemperatureFile{}, err
	}
	timeIdx := columnIndex(header, timeColumn)
	tempIdx := columnIndex(header, valueColumn)
	if timeIdx < 0 || tempIdx < 0 {
		return model.TemperatureFile{}, fmt.Errorf("%s: missing %s or %s column", path, timeColumn, valueColumn)
	}

	out := model.TemperatureFile{
		Name:       filepath.Base(path),
		Columns:    header,
		TimeColumn: timeIdx,
		TempColumn: tempIdx,
		Records:    make([]model.TemperatureRecord, 0, len(rows)),
	}
	for n, row := range rows {
		line := n + 2
		ts, err := ParseTimestamp(row[timeIdx])
		if err != nil {
			return model.TemperatureFile{}, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		v, err := ParseFloat(row[tempIdx])
		if err != nil {
			return model.TemperatureFile{}, fmt.Errorf("%s:%d: column %s: %w", path, line, valueColumn, err)
		}
		out.Records = append(out.Records, model.TemperatureRecord{ObservedAt: ts, TempC: v, Raw: row})
	}
	return out, nil
}
