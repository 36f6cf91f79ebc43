package chart

import (
	"fmt"
	"strings"
)

// Kind selects how series are drawn.
type Kind string

const (
	KindLine Kind = "line"
	KindBar  Kind = "bar"
)

var ErrInvalidKind = fmt.Errorf("chart type must be %q or %q", KindLine, KindBar)

// ParseKind accepts "line" (the default when empty) or "bar".
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindLine:
		return KindLine, nil
	case KindBar:
		return KindBar, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidKind, s)
}

// Figure is the render payload for a browser charting library: one trace per
// series plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Name   string    `json:"name"`
	Type   string    `json:"type"`
	Mode   string    `json:"mode,omitempty"`
	X      []any     `json:"x"`
	Y      []float64 `json:"y"`
	Line   *Line     `json:"line,omitempty"`
	Marker *Marker   `json:"marker,omitempty"`
}

type Line struct {
	Width int `json:"width"`
}

type Marker struct {
	Size int `json:"size"`
}

type Axis struct {
	Title    string `json:"title"`
	TickMode string `json:"tickmode,omitempty"`
}

type Legend struct {
	Orientation string  `json:"orientation"`
	YAnchor     string  `json:"yanchor"`
	Y           float64 `json:"y"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Layout struct {
	Title        string `json:"title"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
	Legend       Legend `json:"legend"`
	Margin       Margin `json:"margin"`
	PlotBGColor  string `json:"plot_bgcolor"`
	PaperBGColor string `json:"paper_bgcolor"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// Title is "<series joined by comma> by <group>".
func Title(a Aggregation) string {
	return fmt.Sprintf("%s by %s", SeriesLabel(a), a.GroupColumn)
}

// SeriesLabel is the y-axis title.
func SeriesLabel(a Aggregation) string {
	return strings.Join(a.Series, ", ")
}

// BuildFigure converts an aggregation into a figure. It is a pure function of
// its arguments.
func BuildFigure(a Aggregation, kind Kind, width, height int) Figure {
	x := make([]any, len(a.Groups))
	for i, g := range a.Groups {
		if a.NumericGroup {
			x[i] = g.Value
		} else {
			x[i] = g.Label
		}
	}

	traces := make([]Trace, 0, len(a.Series))
	for i, name := range a.Series {
		tr := Trace{Name: name, X: x, Y: a.Column(i)}
		if kind == KindLine {
			tr.Type = "scatter"
			tr.Mode = "lines+markers"
			tr.Line = &Line{Width: 2}
			tr.Marker = &Marker{Size: 8}
		} else {
			tr.Type = "bar"
		}
		traces = append(traces, tr)
	}

	return Figure{
		Data: traces,
		Layout: Layout{
			Title:        Title(a),
			XAxis:        Axis{Title: a.GroupColumn, TickMode: "linear"},
			YAxis:        Axis{Title: SeriesLabel(a)},
			Legend:       Legend{Orientation: "h", YAnchor: "bottom", Y: -0.2},
			Margin:       Margin{L: 40, R: 40, T: 60, B: 40},
			PlotBGColor:  "#f2f2f2",
			PaperBGColor: "#ffffff",
			Width:        width,
			Height:       height,
		},
	}
}
