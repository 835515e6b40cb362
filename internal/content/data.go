// Package content holds the hardcoded portfolio data rendered by the site.
package content

// SalesRecord is one month's revenue figure plotted on the sales chart.
type SalesRecord struct {
	Month string  `json:"month"`
	Sales float64 `json:"sales"`
}

// PlatformShare is one sales channel's percentage share plotted on the donut chart.
type PlatformShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

var salesData = []SalesRecord{
	{Month: "Jan", Sales: 15000},
	{Month: "Feb", Sales: 18500},
	{Month: "Mar", Sales: 25700},
	{Month: "Apr", Sales: 22000},
	{Month: "May", Sales: 29400},
	{Month: "Jun", Sales: 36800},
}

// Shares are not required to add up to 100.
var platformData = []PlatformShare{
	{Name: "Amazon", Value: 45},
	{Name: "Noon", Value: 30},
	{Name: "Carrefour", Value: 15},
	{Name: "Shopify", Value: 10},
}

var palette = []string{"#3B82F6", "#60A5FA", "#93C5FD", "#BFDBFE"}

// Sales returns the monthly sales in chronological order.
func Sales() []SalesRecord {
	out := make([]SalesRecord, len(salesData))
	copy(out, salesData)
	return out
}

// Platforms returns the platform shares in display order.
func Platforms() []PlatformShare {
	out := make([]PlatformShare, len(platformData))
	copy(out, platformData)
	return out
}

// Palette returns the wedge colors, assigned to platforms by position.
func Palette() []string {
	out := make([]string, len(palette))
	copy(out, palette)
	return out
}

// PlatformTotal sums the platform shares.
func PlatformTotal() float64 {
	var total float64
	for _, p := range platformData {
		total += p.Value
	}
	return total
}
