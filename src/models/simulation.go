package models

// Row labels of the illustrative summary table.
const (
	StatMean = "Mean"
	StatStd  = "Std"
	StatMin  = "Min"
	StatQ1   = "25%"
	StatQ2   = "50%"
	StatQ3   = "75%"
	StatMax  = "Max"
)

// MSummaryStats is a column-ordered table of per-model descriptive statistics.
type MSummaryStats struct {
	Models []string                      `json:"models"`
	Values map[string]map[string]float64 `json:"values"` // model -> stat -> value
}

// MBoxStats is what a box plot needs for one batch.
type MBoxStats struct {
	Model        string  `json:"model"`
	Q1           float64 `json:"q1"`
	Median       float64 `json:"median"`
	Q3           float64 `json:"q3"`
	WhiskerLow   float64 `json:"whisker_low"`
	WhiskerHigh  float64 `json:"whisker_high"`
	OutlierCount int     `json:"outlier_count"`
}

type MSimulation struct {
	Summary    MSummaryStats        `json:"summary"`
	Samples    map[string][]float64 `json:"samples"`
	Boxes      []MBoxStats          `json:"boxes"`
	BestModel  string               `json:"best_model"`
	SampleSize int                  `json:"sample_size"`
}
