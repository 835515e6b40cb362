// Package currency formats sales amounts for display.
package currency

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter maps an amount to its display string.
type Formatter func(float64) string

// Unit is the single currency every amount on the page is expressed in.
var Unit = currency.MustParseISO("AED")

// amounts above this cannot go through decimal.IntPart without overflowing
const maxExact = 1e18

var printer = message.NewPrinter(language.English)

// Format renders an amount as "AED 15,000": the currency code, a space and the
// amount rounded to a whole number with English digit grouping.
func Format(amount float64) string {
	return Unit.String() + " " + group(amount)
}

func group(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return printer.Sprintf("%v", amount)
	}

	rounded := decimal.NewFromFloat(amount).Round(0)
	if rounded.Abs().GreaterThanOrEqual(decimal.NewFromFloat(maxExact)) {
		return printer.Sprintf("%.0f", rounded.InexactFloat64())
	}
	return printer.Sprintf("%d", rounded.IntPart())
}

// Percent renders a share the way the legend shows it, e.g. 45 -> "45%".
func Percent(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return printer.Sprintf("%v%%", value)
	}
	return decimal.NewFromFloat(value).String() + "%"
}
