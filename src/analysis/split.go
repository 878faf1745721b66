package analysis

import (
	"math"

	"stock-trend/src/models"
)

// SplitChronological puts the first floor(fraction*N) rows in Train and the rest in Test.
// No shuffling. Both halves are capped views of rows, so appending to one never writes into the other.
func SplitChronological(rows []models.MFeatureRow, fraction float64) models.MSplit {
	n := len(rows)
	k := int(math.Floor(float64(n) * fraction))
	k = max(0, min(k, n))

	return models.MSplit{
		Train: rows[:k:k],
		Test:  rows[k:n:n],
	}
}
