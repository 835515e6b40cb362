package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
)

// DonutChart draws one ring wedge per value, sized by its share of the total.
// Angles are in degrees, counter-clockwise from 3 o'clock.
type DonutChart struct {
	Width        int
	Height       int
	InnerRadius  float64
	OuterRadius  float64
	PaddingAngle float64
	StartAngle   float64
	Palette      []string
	Format       Formatter
}

// NewPlatformChart returns the configuration of the platform distribution chart.
func NewPlatformChart(palette []string, format Formatter) DonutChart {
	return DonutChart{
		Width:        300,
		Height:       240,
		InnerRadius:  60,
		OuterRadius:  100,
		PaddingAngle: 5,
		StartAngle:   0,
		Palette:      palette,
		Format:       format,
	}
}

// Wedge is the laid out slice of one datum.
type Wedge struct {
	Datum
	Color      string
	Share      float64
	StartAngle float64
	EndAngle   float64
}

// Sweep is the wedge's angular size in degrees.
func (w Wedge) Sweep() float64 {
	return w.EndAngle - w.StartAngle
}

// Layout computes the wedges for slices, in input order. Totals other than
// 100 are fine; only the proportions matter.
func (d DonutChart) Layout(slices []Datum) ([]Wedge, error) {
	var total float64
	var nonZero int
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
			nonZero++
		}
	}
	if total <= 0 || math.IsInf(total, 0) {
		return nil, ErrNoData
	}

	available := 360 - float64(nonZero)*d.PaddingAngle
	if available < 0 {
		available = 0
	}

	wedges := make([]Wedge, len(slices))
	angle := d.StartAngle
	for i, s := range slices {
		value := math.Max(s.Value, 0)
		if i > 0 && value > 0 {
			angle += d.PaddingAngle
		}
		share := value / total
		wedges[i] = Wedge{
			Datum:      s,
			Color:      PaletteColor(d.Palette, i),
			Share:      share,
			StartAngle: angle,
			EndAngle:   angle + share*available,
		}
		angle = wedges[i].EndAngle
	}
	return wedges, nil
}

// Render writes the donut as SVG.
func (d DonutChart) Render(w io.Writer, slices []Datum) error {
	wedges, err := d.Layout(slices)
	if err != nil {
		return err
	}
	format := fallbackFormat(d.Format)

	r, err := chart.SVG(d.Width, d.Height)
	if err != nil {
		return errors.Wrap(err, "creating svg renderer")
	}

	cx, cy := float64(d.Width)/2, float64(d.Height)/2
	ov := overlay{width: d.Width, height: d.Height}

	for _, wedge := range wedges {
		if wedge.Sweep() <= 0 {
			continue
		}
		outline := d.outline(cx, cy, wedge)

		r.SetFillColor(hexColor(wedge.Color))
		r.SetStrokeWidth(0)
		for i, p := range outline {
			x, y := int(math.Round(p[0])), int(math.Round(p[1]))
			if i == 0 {
				r.MoveTo(x, y)
				continue
			}
			r.LineTo(x, y)
		}
		r.Close()
		r.Fill()

		tip := Tooltip{Label: wedge.Label, Value: format(wedge.Value)}
		ov.over = append(ov.over, fmt.Sprintf(
			`<path class="wedge" d="%s" fill="%s" fill-opacity="0">%s</path>`,
			pathData(outline, true), wedge.Color, tip.svg()))
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return errors.Wrap(err, "rendering donut chart")
	}

	out, err := ov.apply(buf.Bytes())
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return errors.Wrap(err, "writing donut chart")
}

// outline traces the outer arc forwards and the inner arc back, at most two
// degrees per segment.
func (d DonutChart) outline(cx, cy float64, w Wedge) [][2]float64 {
	steps := int(math.Ceil(w.Sweep() / 2))
	if steps < 1 {
		steps = 1
	}

	points := make([][2]float64, 0, 2*(steps+1))
	for i := 0; i <= steps; i++ {
		a := w.StartAngle + w.Sweep()*float64(i)/float64(steps)
		points = append(points, polar(cx, cy, d.OuterRadius, a))
	}
	if d.InnerRadius <= 0 {
		return append(points, [2]float64{cx, cy})
	}
	for i := steps; i >= 0; i-- {
		a := w.StartAngle + w.Sweep()*float64(i)/float64(steps)
		points = append(points, polar(cx, cy, d.InnerRadius, a))
	}
	return points
}

func polar(cx, cy, radius, degrees float64) [2]float64 {
	rad := degrees * math.Pi / 180
	return [2]float64{cx + radius*math.Cos(rad), cy - radius*math.Sin(rad)}
}
