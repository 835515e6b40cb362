package charts

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// AreaChart draws a monotone line over labelled points with a gradient fill
// beneath it and a tooltip per point.
type AreaChart struct {
	Width      int
	Height     int
	SeriesName string
	Stroke     string
	GridColor  string
	AxisColor  string
	GradientID string
	// Samples is the number of interpolation steps between two points.
	Samples int
	Format  Formatter
}

// NewSalesChart returns the configuration of the monthly sales chart.
func NewSalesChart(format Formatter) AreaChart {
	return AreaChart{
		Width:      560,
		Height:     300,
		SeriesName: "Sales",
		Stroke:     "#3B82F6",
		GridColor:  "#374151",
		AxisColor:  "#9CA3AF",
		GradientID: "salesColor",
		Samples:    12,
		Format:     format,
	}
}

// transparent is see-through white. go-chart treats the all-zero color as
// unset and paints its white default instead.
var transparent = drawing.Color{R: 255, G: 255, B: 255, A: 0}

// chartFrame is the number of elements go-chart emits before the axes: the
// background box and the canvas box.
const chartFrame = 2

// canvasFrame records the plot box go-chart settled on after laying out its
// axes, and draws the grid lines of the outermost ticks, which go-chart
// leaves out.
type canvasFrame struct {
	grid chart.Style
	box  chart.Box
	ok   bool
}

func (c *canvasFrame) render(r chart.Renderer, canvasBox chart.Box, _ chart.Style) {
	c.box = canvasBox
	c.ok = true

	edges := [][4]int{
		{canvasBox.Left, canvasBox.Top, canvasBox.Right, canvasBox.Top},
		{canvasBox.Left, canvasBox.Bottom, canvasBox.Right, canvasBox.Bottom},
		{canvasBox.Left, canvasBox.Top, canvasBox.Left, canvasBox.Bottom},
		{canvasBox.Right, canvasBox.Top, canvasBox.Right, canvasBox.Bottom},
	}
	for _, e := range edges {
		r.SetStrokeColor(c.grid.StrokeColor)
		r.SetStrokeWidth(c.grid.StrokeWidth)
		r.SetStrokeDashArray(c.grid.StrokeDashArray)
		r.MoveTo(e[0], e[1])
		r.LineTo(e[2], e[3])
		r.Stroke()
	}
	r.ResetStyle()
}

// Render writes the chart as SVG. Points are plotted in the given order.
func (a AreaChart) Render(w io.Writer, points []Datum) error {
	if len(points) == 0 {
		return ErrNoData
	}
	format := fallbackFormat(a.Format)

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	maxY := 0.0
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Value
		if p.Value > maxY {
			maxY = p.Value
		}
	}

	xMax := float64(len(points) - 1)
	if xMax == 0 {
		xMax = 1
	}
	yTicks := niceTicks(0, maxY, 5, format)
	if len(yTicks) == 0 {
		return errors.Errorf("charts: cannot scale values up to %v", maxY)
	}
	yMax := yTicks[len(yTicks)-1].Value

	xTicks := make([]chart.Tick, len(points))
	for i, p := range points {
		xTicks[i] = chart.Tick{Value: float64(i), Label: p.Label}
	}
	if len(points) == 1 {
		xTicks = append(xTicks, chart.Tick{Value: 1})
	}

	smoothX, smoothY := MonotoneX(xs, ys, a.Samples)
	if len(points) == 1 {
		smoothX, smoothY = []float64{0, 1}, []float64{ys[0], ys[0]}
	}

	axisStyle := chart.Style{
		StrokeColor: hexColor(a.AxisColor),
		StrokeWidth: 1,
		FontColor:   hexColor(a.AxisColor),
		FontSize:    9,
	}
	gridStyle := chart.Style{
		StrokeColor:     hexColor(a.GridColor),
		StrokeWidth:     1,
		StrokeDashArray: []float64{3, 3},
	}

	capture := &canvasFrame{grid: gridStyle}
	graph := chart.Chart{
		Width:  a.Width,
		Height: a.Height,
		Background: chart.Style{
			Padding:     chart.Box{Top: 16, Left: 16, Right: 8, Bottom: 8},
			FillColor:   transparent,
			StrokeColor: transparent,
		},
		Canvas: chart.Style{
			FillColor:   transparent,
			StrokeColor: transparent,
		},
		XAxis: chart.XAxis{
			Style:          axisStyle,
			TickPosition:   chart.TickPositionUnderTick,
			Range:          &chart.ContinuousRange{Min: 0, Max: xMax},
			Ticks:          xTicks,
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks:          yTicks,
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return format(f)
				}
				return fmt.Sprintf("%v", v)
			},
		},
		YAxisSecondary: chart.YAxis{Style: chart.Hidden()},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    a.SeriesName,
				XValues: smoothX,
				YValues: smoothY,
				Style: chart.Style{
					StrokeColor: hexColor(a.Stroke),
					StrokeWidth: 2,
				},
			},
		},
		Elements: []chart.Renderable{capture.render},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return errors.Wrap(err, "rendering area chart")
	}
	if !capture.ok {
		return errors.New("charts: area chart canvas was never laid out")
	}

	xr := chart.ContinuousRange{Min: 0, Max: xMax, Domain: capture.box.Width()}
	yr := chart.ContinuousRange{Min: 0, Max: yMax, Domain: capture.box.Height()}
	project := func(x, y float64) [2]float64 {
		return [2]float64{
			float64(capture.box.Left + xr.Translate(x)),
			float64(capture.box.Bottom - yr.Translate(y)),
		}
	}

	bottom := float64(capture.box.Bottom)
	area := make([][2]float64, 0, len(smoothX)+2)
	first := project(smoothX[0], smoothY[0])
	area = append(area, [2]float64{first[0], bottom})
	for i := range smoothX {
		area = append(area, project(smoothX[i], smoothY[i]))
	}
	last := project(smoothX[len(smoothX)-1], smoothY[len(smoothY)-1])
	area = append(area, [2]float64{last[0], bottom})

	ov := overlay{
		width:      a.Width,
		height:     a.Height,
		underAfter: chartFrame,
		defs: []string{
			fmt.Sprintf(`<linearGradient id="%s" x1="0" y1="0" x2="0" y2="1">`+
				`<stop offset="5%%" stop-color="%s" stop-opacity="0.8"/>`+
				`<stop offset="95%%" stop-color="%s" stop-opacity="0"/>`+
				`</linearGradient>`, a.GradientID, a.Stroke, a.Stroke),
		},
		under: []string{
			fmt.Sprintf(`<path class="area" d="%s" fill="url(#%s)" stroke="none"/>`, pathData(area, true), a.GradientID),
		},
	}

	for i, p := range points {
		at := project(xs[i], ys[i])
		tip := Tooltip{Label: p.Label, Name: a.SeriesName, Value: format(p.Value)}
		ov.over = append(ov.over, fmt.Sprintf(
			`<g class="point">`+
				`<circle class="hit" cx="%.1f" cy="%.1f" r="12" fill="%s" fill-opacity="0"/>`+
				`<circle class="dot" cx="%.1f" cy="%.1f" r="4" fill="%s"/>`+
				`%s</g>`,
			at[0], at[1], a.Stroke, at[0], at[1], a.Stroke, tip.svg()))
	}

	out, err := ov.apply(buf.Bytes())
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return errors.Wrap(err, "writing area chart")
}
