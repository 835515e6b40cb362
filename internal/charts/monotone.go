package charts

import "math"

// MonotoneX densifies a series with monotone cubic Hermite interpolation,
// using the Steffen slopes d3's curveMonotoneX uses. xs must be strictly
// increasing. Each interval is split into samples steps; the output always
// passes through the input points and never overshoots between two of them.
func MonotoneX(xs, ys []float64, samples int) ([]float64, []float64) {
	n := len(xs)
	if n != len(ys) {
		return nil, nil
	}
	if n < 3 || samples < 2 {
		return append([]float64(nil), xs...), append([]float64(nil), ys...)
	}

	tangents := make([]float64, n)
	for i := 1; i < n-1; i++ {
		tangents[i] = slope3(xs[i-1], ys[i-1], xs[i], ys[i], xs[i+1], ys[i+1])
	}
	tangents[0] = slope2(xs[0], ys[0], xs[1], ys[1], tangents[1])
	tangents[n-1] = slope2(xs[n-2], ys[n-2], xs[n-1], ys[n-1], tangents[n-2])

	outX := make([]float64, 0, 1+(n-1)*samples)
	outY := make([]float64, 0, 1+(n-1)*samples)
	outX = append(outX, xs[0])
	outY = append(outY, ys[0])

	for i := 0; i < n-1; i++ {
		h := xs[i+1] - xs[i]
		for k := 1; k <= samples; k++ {
			u := float64(k) / float64(samples)
			u2, u3 := u*u, u*u*u

			h00 := 2*u3 - 3*u2 + 1
			h10 := u3 - 2*u2 + u
			h01 := -2*u3 + 3*u2
			h11 := u3 - u2

			outX = append(outX, xs[i]+u*h)
			outY = append(outY, h00*ys[i]+h10*h*tangents[i]+h01*ys[i+1]+h11*h*tangents[i+1])
		}
		// land exactly on the data point
		outY[len(outY)-1] = ys[i+1]
	}

	return outX, outY
}

func slope3(x0, y0, x1, y1, x2, y2 float64) float64 {
	h0, h1 := x1-x0, x2-x1
	if h0 == 0 || h1 == 0 {
		return 0
	}
	s0 := (y1 - y0) / h0
	s1 := (y2 - y1) / h1
	p := (s0*h1 + s1*h0) / (h0 + h1)

	t := (sign(s0) + sign(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(p))
	if math.IsNaN(t) {
		return 0
	}
	return t
}

// slope2 is the one-sided tangent at the open end of a segment whose other
// end has tangent t.
func slope2(x0, y0, x1, y1, t float64) float64 {
	h := x1 - x0
	if h == 0 {
		return t
	}
	return (3*(y1-y0)/h - t) / 2
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
