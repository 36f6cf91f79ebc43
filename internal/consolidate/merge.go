package consolidate

import (
	"math"

	"uk-demand-dashboard/internal/model"
)

// Merge left-joins the demand buckets to the temperature observations on
// exact timestamp equality. A bucket with several matching observations is
// repeated once per match; a bucket with none gets a NaN temperature.
func Merge(series model.DemandSeries, temps []model.TemperatureRecord) []model.CleanedRecord {
	byTime := make(map[int64][]float64, len(temps))
	for _, t := range temps {
		k := t.ObservedAt.UnixNano()
		byTime[k] = append(byTime[k], t.TempC)
	}

	out := make([]model.CleanedRecord, 0, len(series.Buckets))
	for _, b := range series.Buckets {
		rec := model.CleanedRecord{
			SettlementDate: b.SettlementDate,
			ObservedAt:     b.Start,
			TempC:          math.NaN(),
			TSD:            b.Value(model.ColTSD),
		}
		matches := byTime[b.Start.UnixNano()]
		if len(matches) == 0 {
			out = append(out, rec)
			continue
		}
		for _, v := range matches {
			rec.TempC = v
			out = append(out, rec)
		}
	}
	return out
}

// InterpolateNearest fills NaN temperatures with the value of the nearest
// valid record by timestamp. Records must be in timestamp order. Ties go to
// the earlier record; gaps at either end take their only neighbour. If no
// record has a temperature nothing is filled.
func InterpolateNearest(records []model.CleanedRecord) ([]model.CleanedRecord, int) {
	out := make([]model.CleanedRecord, len(records))
	copy(out, records)

	prev := make([]int, len(out)) // index of nearest valid record at or before i, -1 if none
	last := -1
	for i, r := range out {
		if !math.IsNaN(r.TempC) {
			last = i
		}
		prev[i] = last
	}
	if last < 0 {
		return out, 0
	}

	filled := 0
	next := -1
	for i := len(out) - 1; i >= 0; i-- {
		if !math.IsNaN(records[i].TempC) {
			next = i
			continue
		}
		p := prev[i]
		src := p
		switch {
		case p < 0:
			src = next
		case next >= 0:
			before := out[i].ObservedAt.Sub(out[p].ObservedAt)
			after := out[next].ObservedAt.Sub(out[i].ObservedAt)
			if after < before {
				src = next
			}
		}
		out[i].TempC = records[src].TempC
		filled++
	}
	return out, filled
}
