package models

import "time"

type MPredictionPoint struct {
	Date      time.Time `json:"date"`
	Actual    float64   `json:"actual"`
	Predicted float64   `json:"predicted"`
}

type MFeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// MPrediction is the outcome of fitting the forest and scoring the holdout partition.
type MPrediction struct {
	TrainRows   int                  `json:"train_rows"`
	TestRows    int                  `json:"test_rows"`
	Points      []MPredictionPoint   `json:"points"`
	MSE         float64              `json:"mse"`
	Importances []MFeatureImportance `json:"importances"`
}
