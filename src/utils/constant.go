package utils

import "time"

// -----------------------------------------------------------------------------

// Fixed inputs of the dashboard. The date range is not exposed to users.
const (
	DefaultTicker = "VEDL.NS"
	StartDateStr  = "2014-01-01"
	EndDateStr    = "2024-12-31"
)

// Feature window sizes.
const (
	ShortMAWindow    = 50
	LongMAWindow     = 200
	VolatilityWindow = 30
)

// Train/holdout boundary as a fraction of the cleaned row count.
const TrainFraction = 0.8

// -----------------------------------------------------------------------------

// StartDate returns the first calendar day of the fixed range (UTC).
func StartDate() time.Time {
	t, _ := time.Parse(time.DateOnly, StartDateStr)
	return t
}

// EndDate returns the exclusive end of the fixed range (UTC).
func EndDate() time.Time {
	t, _ := time.Parse(time.DateOnly, EndDateStr)
	return t
}
