package consolidate

import (
	"time"

	"uk-demand-dashboard/internal/model"
)

// FilterTemperatures keeps the observations strictly before cutoff.
func FilterTemperatures(f model.TemperatureFile, cutoff time.Time) model.TemperatureFile {
	out := f
	out.Records = make([]model.TemperatureRecord, 0, len(f.Records))
	for _, r := range f.Records {
		if r.ObservedAt.Before(cutoff) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}
