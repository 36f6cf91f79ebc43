package model

import (
	"math"
	"time"
)

// DemandBucket is the mean of all demand readings inside one resampling window.
type DemandBucket struct {
	Start          time.Time
	SettlementDate string
	Values         map[string]float64
}

// Value returns the bucket mean for col, NaN when the window had no reading.
func (b DemandBucket) Value(col string) float64 {
	v, ok := b.Values[col]
	if !ok {
		return math.NaN()
	}
	return v
}

// DemandSeries is a contiguous run of equally sized demand buckets.
type DemandSeries struct {
	Columns []string
	Width   time.Duration
	Buckets []DemandBucket
}

// Len reports the number of buckets.
func (s DemandSeries) Len() int { return len(s.Buckets) }
