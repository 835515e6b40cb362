package charts

import (
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// niceTicks returns roughly n evenly spaced ticks from min to a rounded
// ceiling at or above max, stepping by 1, 2, 2.5 or 5 times a power of ten.
func niceTicks(min, max float64, n int, format Formatter) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min

	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		if score := math.Abs(count - float64(n-1)); score < bestScore {
			bestScore = score
			bestStep = step
		}
	}

	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep

	ticks := []chart.Tick{}
	for i := 0; ; i++ {
		v := start + float64(i)*bestStep
		if v > end+bestStep/2 {
			break
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: format(v)})
	}
	return ticks
}
