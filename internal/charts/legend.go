package charts

import "fmt"

// LegendEntry is one row of the legend printed next to the donut.
type LegendEntry struct {
	Name  string
	Value float64
	Color string
	Text  string
}

// Legend lists slices in order, each with the palette color of its wedge,
// e.g. "Amazon (45%)".
func Legend(slices []Datum, palette []string, percent Formatter) []LegendEntry {
	percent = fallbackFormat(percent)

	entries := make([]LegendEntry, 0, len(slices))
	for i, s := range slices {
		entries = append(entries, LegendEntry{
			Name:  s.Label,
			Value: s.Value,
			Color: PaletteColor(palette, i),
			Text:  fmt.Sprintf("%s (%s)", s.Label, percent(s.Value)),
		})
	}
	return entries
}
