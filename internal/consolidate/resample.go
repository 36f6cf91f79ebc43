package consolidate

import (
	"fmt"
	"math"
	"time"

	"uk-demand-dashboard/internal/model"

	"gonum.org/v1/gonum/stat"
)

// bucketPeriod maps timestamps onto fixed windows counted from origin.
type bucketPeriod struct {
	origin time.Time
	width  time.Duration
}

func newBucketPeriod(first time.Time, width time.Duration) bucketPeriod {
	y, m, d := first.UTC().Date()
	return bucketPeriod{origin: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), width: width}
}

func (p bucketPeriod) index(t time.Time) int {
	return int(t.Sub(p.origin) / p.width)
}

func (p bucketPeriod) start(i int) time.Time {
	return p.origin.Add(time.Duration(i) * p.width)
}

// Resample groups records into windows of the given width, aligned to
// midnight UTC of the earliest record's day, and averages every column per
// window. All windows between the first and last populated one are emitted;
// a column with no reading in a window is NaN.
//
// Records without a timestamp (null settlement date) are skipped and counted.
func Resample(records []model.DemandRecord, columns []string, width time.Duration) (model.DemandSeries, int, error) {
	if width <= 0 || (24*time.Hour)%width != 0 {
		return model.DemandSeries{}, 0, fmt.Errorf("resample width %s must divide a day", width)
	}

	type stamped struct {
		ts  time.Time
		rec *model.DemandRecord
	}
	valid := make([]stamped, 0, len(records))
	skipped := 0
	var first, last time.Time
	for i := range records {
		ts, ok := records[i].Timestamp()
		if !ok {
			skipped++
			continue
		}
		if len(valid) == 0 || ts.Before(first) {
			first = ts
		}
		if len(valid) == 0 || ts.After(last) {
			last = ts
		}
		valid = append(valid, stamped{ts: ts, rec: &records[i]})
	}

	series := model.DemandSeries{Columns: columns, Width: width}
	if len(valid) == 0 {
		return series, skipped, nil
	}

	period := newBucketPeriod(first, width)
	offset := period.index(first)
	n := period.index(last) - offset + 1

	// readings[bucket][column] collects non-NaN values.
	readings := make([][][]float64, n)
	for _, s := range valid {
		b := period.index(s.ts) - offset
		if readings[b] == nil {
			readings[b] = make([][]float64, len(columns))
		}
		for c, col := range columns {
			v := s.rec.Value(col)
			if !math.IsNaN(v) {
				readings[b][c] = append(readings[b][c], v)
			}
		}
	}

	series.Buckets = make([]model.DemandBucket, n)
	for b := 0; b < n; b++ {
		start := period.start(b + offset)
		values := make(map[string]float64, len(columns))
		for c, col := range columns {
			var xs []float64
			if readings[b] != nil {
				xs = readings[b][c]
			}
			if len(xs) == 0 {
				values[col] = math.NaN()
				continue
			}
			values[col] = stat.Mean(xs, nil)
		}
		series.Buckets[b] = model.DemandBucket{
			Start:          start,
			SettlementDate: start.Format(model.SettlementDateLayout),
			Values:         values,
		}
	}
	return series, skipped, nil
}
