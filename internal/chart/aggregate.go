// Package chart turns a table page into grouped series and render payloads.
package chart

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"uk-demand-dashboard/internal/table"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrNonNumericSeries = errors.New("series column is not numeric")
	ErrGroupAsSeries    = errors.New("group column cannot also be a series")
)

// Group is one distinct value of the group column and the per-series sums of
// the rows holding it.
type Group struct {
	Label string
	Value float64 // numeric group key; NaN for text groups
	Sums  []float64
}

// Aggregation is the result of grouping one page by a column.
type Aggregation struct {
	GroupColumn  string
	NumericGroup bool
	Series       []string
	Groups       []Group
	Page         int
}

// Aggregate groups the rows of p by groupCol and sums every series column
// per group. Rows with an empty or NaN group value are dropped; empty series cells
// count as zero. Numeric group columns sort numerically, text ones
// lexicographically.
func Aggregate(p table.Page, groupCol string, series []string) (Aggregation, error) {
	t := p.Table()
	g, err := t.Column(groupCol)
	if err != nil {
		return Aggregation{}, err
	}
	series = dedupe(series)
	cols := make([]int, len(series))
	for i, s := range series {
		c, err := t.Column(s)
		if err != nil {
			return Aggregation{}, err
		}
		if c == g {
			return Aggregation{}, fmt.Errorf("%w: %q", ErrGroupAsSeries, s)
		}
		if !t.IsNumeric(c) {
			return Aggregation{}, fmt.Errorf("%w: %q", ErrNonNumericSeries, s)
		}
		cols[i] = c
	}

	agg := Aggregation{
		GroupColumn:  groupCol,
		NumericGroup: t.IsNumeric(g),
		Series:       series,
		Page:         p.Number,
	}

	type bucket struct {
		group  Group
		values [][]float64
	}
	byKey := map[string]*bucket{}
	var order []*bucket
	for r := p.Start; r < p.End; r++ {
		label := t.Cell(r, g)
		if label == "" {
			continue
		}
		key, value := label, math.NaN()
		if agg.NumericGroup {
			value = t.Float(r, g)
			if math.IsNaN(value) {
				continue
			}
			key = strconv.FormatFloat(value, 'f', -1, 64)
		}
		b, ok := byKey[key]
		if !ok {
			b = &bucket{group: Group{Label: key, Value: value}, values: make([][]float64, len(cols))}
			if !agg.NumericGroup {
				b.group.Label = label
			}
			byKey[key] = b
			order = append(order, b)
		}
		for i, c := range cols {
			if v := t.Float(r, c); !math.IsNaN(v) {
				b.values[i] = append(b.values[i], v)
			}
		}
	}

	if agg.NumericGroup {
		sort.Slice(order, func(i, j int) bool { return order[i].group.Value < order[j].group.Value })
	} else {
		sort.Slice(order, func(i, j int) bool { return order[i].group.Label < order[j].group.Label })
	}

	agg.Groups = make([]Group, 0, len(order))
	for _, b := range order {
		grp := b.group
		grp.Sums = make([]float64, len(cols))
		for i, vs := range b.values {
			grp.Sums[i] = floats.Sum(vs)
		}
		agg.Groups = append(agg.Groups, grp)
	}
	return agg, nil
}

// Column returns the sums of series i across groups.
func (a Aggregation) Column(i int) []float64 {
	out := make([]float64, len(a.Groups))
	for g, grp := range a.Groups {
		out[g] = grp.Sums[i]
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
