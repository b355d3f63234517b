package service

import (
	"math"
	"time"
)

// Numerical primitives shared by the analysis services. All helpers operate
// on parallel float64 slices and allocate fresh output; none validates
// monotonicity of x, since irregular spacing is exactly what field data has.

// TrapezoidalIntegrate returns the cumulative trapezoidal integral of y with
// respect to x. out[0] is 0.
func TrapezoidalIntegrate(x, y []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	for i := 1; i < n; i++ {
		out[i] = out[i-1] + (y[i]+y[i-1])/2*(x[i]-x[i-1])
	}
	return out
}

// LogDerivative approximates dy/d(ln x) with a forward difference at the
// first point, central differences inside, and a backward difference at the
// last point. x must be positive everywhere. Equal adjacent x values produce
// non-finite output (ln of 1 in the denominator); that is filtered
// downstream, not guarded here.
func LogDerivative(x, y []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n < 2 {
		return out
	}

	out[0] = (y[1] - y[0]) / math.Log(x[1]/x[0])
	for i := 1; i < n-1; i++ {
		out[i] = (y[i+1] - y[i-1]) / math.Log(x[i+1]/x[i-1])
	}
	out[n-1] = (y[n-1] - y[n-2]) / math.Log(x[n-1]/x[n-2])

	return out
}

// MovingAverage smooths data with a centered window of half-width
// windowSize/2, clipped at both boundaries.
func MovingAverage(data []float64, windowSize int) []float64 {
	n := len(data)
	out := make([]float64, n)
	half := windowSize / 2

	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}

		var sum float64
		for j := lo; j <= hi; j++ {
			sum += data[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}

	return out
}

// FilterPositive keeps only the indices at which every given series is
// finite and strictly positive. The returned slices are fresh copies, one
// per input series, all of the same surviving length. All inputs must have
// equal length.
func FilterPositive(series ...[]float64) [][]float64 {
	if len(series) == 0 {
		return nil
	}
	n := len(series[0])

	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		ok := true
		for _, s := range series {
			v := s[i]
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}

	out := make([][]float64, len(series))
	for si, s := range series {
		filtered := make([]float64, len(keep))
		for ki, i := range keep {
			filtered[ki] = s[i]
		}
		out[si] = filtered
	}
	return out
}

// DatesToDays converts calendar timestamps to fractional elapsed days since
// the first timestamp. The first element is exactly 0.
func DatesToDays(dates []time.Time) []float64 {
	out := make([]float64, len(dates))
	if len(dates) == 0 {
		return out
	}
	t0 := dates[0]
	for i, d := range dates {
		out[i] = d.Sub(t0).Hours() / 24
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
