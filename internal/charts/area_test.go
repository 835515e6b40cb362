package charts

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcabrera/portfolio/internal/content"
	"github.com/dcabrera/portfolio/internal/currency"
)

func salesPoints() []Datum {
	var points []Datum
	for _, s := range content.Sales() {
		points = append(points, Datum{Label: s.Month, Value: s.Sales})
	}
	return points
}

var (
	dotPattern    = regexp.MustCompile(`class="dot" cx="([0-9.]+)" cy="([0-9.]+)"`)
	opaqueFill    = regexp.MustCompile(`<path [^>]*fill:rgba\(\d+,\d+,\d+,1\.0\)`)
	dashedGridRun = `stroke-dasharray="3.0, 3.0"`
)

func TestAreaChartRender(t *testing.T) {
	var buf bytes.Buffer
	err := NewSalesChart(currency.Format).Render(&buf, salesPoints())
	require.NoError(t, err)

	svg := buf.String()

	t.Run("is a scalable svg document", func(t *testing.T) {
		assert.Contains(t, svg, "<svg")
		assert.True(t, strings.HasSuffix(strings.TrimSpace(svg), "</svg>"))
		assert.Contains(t, svg, `viewBox="0 0 560 300"`)
	})

	t.Run("fills the area with the sales gradient", func(t *testing.T) {
		assert.Contains(t, svg, `<linearGradient id="salesColor" x1="0" y1="0" x2="0" y2="1">`)
		assert.Contains(t, svg, `stop-opacity="0.8"`)
		assert.Contains(t, svg, `fill="url(#salesColor)"`)
		assert.Less(t, strings.Index(svg, `class="area"`), strings.Index(svg, `class="point"`))
	})

	t.Run("keeps the area visible between the frame and the axes", func(t *testing.T) {
		assert.NotContains(t, svg, "fill:rgba(255,255,255,1.0)")
		assert.Empty(t, opaqueFill.FindAllString(svg, -1))

		area := strings.Index(svg, `class="area"`)
		frame := regexp.MustCompile(`<path `).FindAllStringIndex(svg, chartFrame)
		require.Len(t, frame, chartFrame)
		assert.Greater(t, area, frame[chartFrame-1][0])
		assert.Less(t, area, strings.Index(svg, dashedGridRun))
	})

	t.Run("draws a dashed grid line at every tick", func(t *testing.T) {
		yTicks := niceTicks(0, 36800, 5, currency.Format)
		assert.Equal(t, len(yTicks)+6, strings.Count(svg, dashedGridRun))
	})

	t.Run("has no secondary axis", func(t *testing.T) {
		assert.NotContains(t, svg, "-9223372036854775")
		assert.NotContains(t, svg, "NaN")
	})

	t.Run("attaches one tooltip per month", func(t *testing.T) {
		assert.Equal(t, 6, strings.Count(svg, `<g class="point">`))
		assert.Contains(t, svg, "<title>Jan\nSales: AED 15,000</title>")
		assert.Contains(t, svg, "<title>Jun\nSales: AED 36,800</title>")
	})

	t.Run("places points left to right with height following sales", func(t *testing.T) {
		matches := dotPattern.FindAllStringSubmatch(svg, -1)
		require.Len(t, matches, 6)

		var xs, ys []float64
		for _, m := range matches {
			x, err := strconv.ParseFloat(m[1], 64)
			require.NoError(t, err)
			y, err := strconv.ParseFloat(m[2], 64)
			require.NoError(t, err)
			xs = append(xs, x)
			ys = append(ys, y)
		}

		for i := 1; i < len(xs); i++ {
			assert.Greater(t, xs[i], xs[i-1])
		}
		// Apr dips below Mar, June is the highest point
		assert.Greater(t, ys[3], ys[2])
		for i := 0; i < 5; i++ {
			assert.Less(t, ys[5], ys[i])
		}
	})
}

func TestAreaChartEdgeCases(t *testing.T) {
	t.Run("rejects empty input", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewSalesChart(currency.Format).Render(&buf, nil)
		assert.ErrorIs(t, err, ErrNoData)
		assert.Zero(t, buf.Len())
	})

	t.Run("renders a single point", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewSalesChart(currency.Format).Render(&buf, []Datum{{Label: "Jan", Value: 1200}})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "<title>Jan\nSales: AED 1,200</title>")
	})

	t.Run("works without a formatter", func(t *testing.T) {
		var buf bytes.Buffer
		chart := NewSalesChart(nil)
		require.NoError(t, chart.Render(&buf, salesPoints()))
		assert.Contains(t, buf.String(), "<title>Jun\nSales: 36800</title>")
	})
}

func TestTooltipText(t *testing.T) {
	assert.Equal(t, "Jun\nSales: AED 36,800", Tooltip{Label: "Jun", Name: "Sales", Value: "AED 36,800"}.Text())
	assert.Equal(t, "Amazon: 45%", Tooltip{Label: "Amazon", Value: "45%"}.Text())
	assert.Equal(t, "<title>A &amp; B: 1</title>", Tooltip{Label: "A & B", Value: "1"}.svg())
}
