package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an image encoding supported by Render.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

var (
	ErrInvalidFormat   = errors.New(`image format must be "svg" or "png"`)
	ErrNothingToRender = errors.New("select at least one series with data on this page")
)

// maxTickLabels caps category labels on the x axis; the rest are thinned out.
const maxTickLabels = 25

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidFormat, s)
}

// ContentType is the MIME type of the encoded image.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() gochart.RendererProvider {
	if f == FormatPNG {
		return gochart.PNG
	}
	return gochart.SVG
}

// Render draws the aggregation server-side. Line charts plot one series per
// selected column; bar charts draw one bar per group and series, coloured by
// series.
func Render(w io.Writer, a Aggregation, kind Kind, format Format, width, height int) error {
	if len(a.Series) == 0 || len(a.Groups) == 0 {
		return ErrNothingToRender
	}
	if kind == KindBar {
		return renderBars(w, a, format, width, height)
	}
	return renderLines(w, a, format, width, height)
}

func seriesColor(i int) drawing.Color {
	return gochart.GetDefaultColor(i)
}

func renderLines(w io.Writer, a Aggregation, format Format, width, height int) error {
	xs := make([]float64, len(a.Groups))
	for i, g := range a.Groups {
		if a.NumericGroup {
			xs[i] = g.Value
		} else {
			xs[i] = float64(i)
		}
	}

	// go-chart needs at least two x values; a lone group is drawn as a flat
	// segment centred on its tick.
	single := len(xs) == 1
	if single {
		xs = []float64{xs[0] - 0.5, xs[0] + 0.5}
	}

	series := make([]gochart.Series, 0, len(a.Series))
	for i, name := range a.Series {
		col := seriesColor(i)
		ys := a.Column(i)
		if single {
			ys = []float64{ys[0], ys[0]}
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeWidth: 2,
				StrokeColor: col,
				DotWidth:    4,
				DotColor:    col,
			},
		})
	}

	xAxis := gochart.XAxis{
		Name:  a.GroupColumn,
		Range: xRange(a, xs),
	}
	if !a.NumericGroup {
		xAxis.Ticks = categoryTicks(a)
		xAxis.Style = gochart.Style{TextRotationDegrees: 45}
	}

	ch := gochart.Chart{
		Title:      Title(a),
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 40}},
		XAxis:      xAxis,
		YAxis:      gochart.YAxis{Name: SeriesLabel(a), Range: yRange(a)},
		Series:     series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch.Render(format.provider(), w)
}

func renderBars(w io.Writer, a Aggregation, format Format, width, height int) error {
	multi := len(a.Series) > 1
	bars := make([]gochart.Value, 0, len(a.Groups)*len(a.Series))
	for _, g := range a.Groups {
		for i, name := range a.Series {
			label := g.Label
			if multi {
				label = g.Label + " " + name
			}
			col := seriesColor(i)
			bars = append(bars, gochart.Value{
				Label: label,
				Value: g.Sums[i],
				Style: gochart.Style{FillColor: col, StrokeColor: col},
			})
		}
	}

	// Size bars so that all of them fit in the canvas.
	per := (width - 160) / len(bars)
	if per < 2 {
		per = 2
	}
	barWidth := per * 2 / 3
	if barWidth < 1 {
		barWidth = 1
	}

	bc := gochart.BarChart{
		Title:      Title(a),
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 40}},
		BarWidth:   barWidth,
		BarSpacing: per - barWidth,
		XAxis:      gochart.Style{TextRotationDegrees: 45, Hidden: len(bars) > maxTickLabels*2},
		YAxis:      gochart.YAxis{Name: SeriesLabel(a), Range: yRange(a)},
		Bars:       bars,
	}
	return bc.Render(format.provider(), w)
}

// categoryTicks labels the group positions. go-chart takes the x range from
// the outermost ticks, so blank ticks half a step beyond each end keep the
// range non-empty and leave room around the first and last points.
func categoryTicks(a Aggregation) []gochart.Tick {
	step := 1
	if len(a.Groups) > maxTickLabels {
		step = (len(a.Groups) + maxTickLabels - 1) / maxTickLabels
	}
	ticks := make([]gochart.Tick, 0, len(a.Groups)/step+3)
	ticks = append(ticks, gochart.Tick{Value: -0.5})
	for i := 0; i < len(a.Groups); i += step {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: a.Groups[i].Label})
	}
	ticks = append(ticks, gochart.Tick{Value: float64(len(a.Groups)) - 0.5})
	return ticks
}

func xRange(a Aggregation, xs []float64) *gochart.ContinuousRange {
	lo, hi := xs[0], xs[len(xs)-1]
	if !a.NumericGroup {
		return &gochart.ContinuousRange{Min: lo - 0.5, Max: hi + 0.5}
	}
	if lo == hi {
		return &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

// yRange always includes zero and is never empty, so flat or single-point
// data still renders.
func yRange(a Aggregation) *gochart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, g := range a.Groups {
		for _, v := range g.Sums {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo == hi {
		return &gochart.ContinuousRange{Min: -1, Max: 1}
	}
	pad := (hi - lo) * 0.05
	if lo < 0 {
		lo -= pad
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi + pad}
}
