package core

import "math"

// -----------------------------------------------------------------------------

// CalculateChangePercent calculates fractional change from previous to current.
// A zero previous value has no defined return and yields NaN.
func CalculateChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return math.NaN()
	}
	return (current - previous) / previous
}

// -----------------------------------------------------------------------------

// PctChange maps a price series to period-over-period returns. The first element is NaN.
func PctChange(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = CalculateChangePercent(values[i], values[i-1])
	}
	return out
}
