package models

import "time"

// Feature column names, in model input order.
const (
	FeatureMA50        = "MA_50"
	FeatureMA200       = "MA_200"
	FeatureDailyReturn = "Daily_Return"
	FeatureVolatility  = "Volatility"
)

var FeatureNames = []string{FeatureMA50, FeatureMA200, FeatureDailyReturn, FeatureVolatility}

// MFeatureRow holds the derived indicators for one date plus the close it is trained to predict.
type MFeatureRow struct {
	Date        time.Time `json:"date"`
	MA50        float64   `json:"ma_50"`
	MA200       float64   `json:"ma_200"`
	DailyReturn float64   `json:"daily_return"`
	Volatility  float64   `json:"volatility"`
	Close       float64   `json:"close"`
}

// Vector returns the features in FeatureNames order.
func (r MFeatureRow) Vector() []float64 {
	return []float64{r.MA50, r.MA200, r.DailyReturn, r.Volatility}
}

// MSplit is a positional train/holdout partition.
type MSplit struct {
	Train []MFeatureRow
	Test  []MFeatureRow
}
