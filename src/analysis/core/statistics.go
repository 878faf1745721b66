package core

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// -----------------------------------------------------------------------------

// CalculateMeanStd computes mean and sample standard deviation (n-1 denominator).
// Fewer than two samples give std = 0.
func CalculateMeanStd(data []float64) (float64, float64) {
	switch len(data) {
	case 0:
		return 0, 0
	case 1:
		return data[0], 0
	}
	mean, std := stat.MeanStdDev(data, nil)
	return mean, std
}

// -----------------------------------------------------------------------------

// CalculateMean is the arithmetic mean, 0 for an empty slice.
func CalculateMean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// -----------------------------------------------------------------------------

// QuantileSorted returns the p-quantile of ascending data using linear interpolation
// between closest ranks: h = (n-1)p, x[floor(h)] + (h-floor(h))(x[floor(h)+1]-x[floor(h)]).
// gonum's stat.Quantile only offers the empirical and LinInterp (Hyndman-Fan 4) estimators.
func QuantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Quantiles sorts a copy of data and evaluates every p against it.
func Quantiles(data []float64, ps ...float64) []float64 {
	sorted := slices.Clone(data)
	slices.Sort(sorted)

	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = QuantileSorted(sorted, p)
	}
	return out
}

// -----------------------------------------------------------------------------

// MinMax returns the extremes of data, (0, 0) when empty.
func MinMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	return floats.Min(data), floats.Max(data)
}

// -----------------------------------------------------------------------------

// MeanSquaredError averages (actual-predicted)^2. Lengths must match.
func MeanSquaredError(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return math.NaN()
	}
	sum := 0.0
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return sum / float64(len(actual))
}

// -----------------------------------------------------------------------------

// IsFinite is false for NaN and ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
