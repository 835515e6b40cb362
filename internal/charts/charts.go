// Package charts renders the portfolio's SVG charts on top of go-chart.
package charts

import (
	"fmt"
	"html"
	"strings"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a chart has nothing to plot.
var ErrNoData = errors.New("charts: no data to plot")

// Datum is one labelled value of a chart series.
type Datum struct {
	Label string
	Value float64
}

// Formatter renders a value for axis ticks and tooltips.
type Formatter func(float64) string

// Tooltip is the hover text attached to a point or a wedge.
type Tooltip struct {
	Label string
	Name  string
	Value string
}

// Text is the tooltip as written into the SVG <title> element.
func (t Tooltip) Text() string {
	if t.Name == "" {
		return fmt.Sprintf("%s: %s", t.Label, t.Value)
	}
	return fmt.Sprintf("%s\n%s: %s", t.Label, t.Name, t.Value)
}

func (t Tooltip) svg() string {
	return "<title>" + html.EscapeString(t.Text()) + "</title>"
}

// PaletteColor picks the color for position i, cycling through palette.
func PaletteColor(palette []string, i int) string {
	if len(palette) == 0 || i < 0 {
		return ""
	}
	return palette[i%len(palette)]
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func fallbackFormat(f Formatter) Formatter {
	if f != nil {
		return f
	}
	return func(v float64) string { return fmt.Sprintf("%g", v) }
}
