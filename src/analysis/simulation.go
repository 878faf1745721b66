package analysis

import (
	"math/rand/v2"
	"slices"

	"stock-trend/src/analysis/core"
	"stock-trend/src/models"
)

// Sample count and seed of the illustrative forecast batches.
const (
	SimulationSamples = 2710
	SimulationSeed    = 42
)

// -----------------------------------------------------------------------------

// DefaultSummaryStats is the fixed per-model table the simulation draws from.
// It has no relation to the live ticker.
func DefaultSummaryStats() models.MSummaryStats {
	col := func(mean, std, lo, q1, q2, q3, hi float64) map[string]float64 {
		return map[string]float64{
			models.StatMean: mean,
			models.StatStd:  std,
			models.StatMin:  lo,
			models.StatQ1:   q1,
			models.StatQ2:   q2,
			models.StatQ3:   q3,
			models.StatMax:  hi,
		}
	}

	return models.MSummaryStats{
		Models: []string{"Model_1", "Model_2", "Model_3"},
		Values: map[string]map[string]float64{
			"Model_1": col(130.7, 99.6, 21.5, 64.5, 91.9, 185.0, 504.6),
			"Model_2": col(132.9, 101.1, 22.4, 65.7, 93.2, 188.6, 509.4),
			"Model_3": col(128.6, 98.2, 20.4, 63.6, 90.2, 182.0, 498.8),
		},
	}
}

// -----------------------------------------------------------------------------

// SimulateForecasts draws size normal samples per model, in stats.Models order, from one
// PCG stream seeded with seed.
func SimulateForecasts(stats models.MSummaryStats, size int, seed uint64) *models.MSimulation {
	rng := rand.New(rand.NewPCG(seed, 0))

	samples := make(map[string][]float64, len(stats.Models))
	boxes := make([]models.MBoxStats, 0, len(stats.Models))
	for _, m := range stats.Models {
		mean := stats.Values[m][models.StatMean]
		std := stats.Values[m][models.StatStd]

		batch := make([]float64, size)
		for i := range batch {
			batch[i] = mean + std*rng.NormFloat64()
		}
		samples[m] = batch
		boxes = append(boxes, BoxStats(m, batch))
	}

	return &models.MSimulation{
		Summary:    stats,
		Samples:    samples,
		Boxes:      boxes,
		BestModel:  MostConsistentModel(stats),
		SampleSize: size,
	}
}

// -----------------------------------------------------------------------------

// BoxStats computes quartiles, Tukey whiskers (furthest samples within 1.5 IQR of the box)
// and the number of samples outside them.
func BoxStats(model string, samples []float64) models.MBoxStats {
	box := models.MBoxStats{Model: model}
	if len(samples) == 0 {
		return box
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	box.Q1 = core.QuantileSorted(sorted, 0.25)
	box.Median = core.QuantileSorted(sorted, 0.5)
	box.Q3 = core.QuantileSorted(sorted, 0.75)

	iqr := box.Q3 - box.Q1
	lowFence := box.Q1 - 1.5*iqr
	highFence := box.Q3 + 1.5*iqr

	box.WhiskerLow = box.Q1
	box.WhiskerHigh = box.Q3
	for _, v := range sorted {
		if v >= lowFence {
			box.WhiskerLow = min(v, box.Q1)
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= highFence {
			box.WhiskerHigh = max(sorted[i], box.Q3)
			break
		}
	}

	for _, v := range sorted {
		if v < box.WhiskerLow || v > box.WhiskerHigh {
			box.OutlierCount++
		}
	}
	return box
}

// -----------------------------------------------------------------------------

// MostConsistentModel is the model with the lowest Std; ties go to the earlier column.
func MostConsistentModel(stats models.MSummaryStats) string {
	best := ""
	bestStd := 0.0
	for _, m := range stats.Models {
		std, ok := stats.Values[m][models.StatStd]
		if !ok {
			continue
		}
		if best == "" || std < bestStd {
			best, bestStd = m, std
		}
	}
	return best
}
