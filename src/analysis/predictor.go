package analysis

import (
	"context"
	"fmt"

	"stock-trend/src/analysis/core"
	"stock-trend/src/analysis/forest"
	"stock-trend/src/helpers"
	"stock-trend/src/models"
)

// -----------------------------------------------------------------------------

// TrainAndPredict fits a forest on split.Train and scores split.Test.
func TrainAndPredict(ctx context.Context, cfg forest.Config, split models.MSplit) (*models.MPrediction, error) {
	if len(split.Train) == 0 {
		return nil, helpers.ErrEmptyTrainingSet
	}
	if len(split.Test) == 0 {
		return nil, helpers.ErrEmptyHoldout
	}

	xTrain, yTrain := FeatureMatrix(split.Train)
	xTest, yTest := FeatureMatrix(split.Test)

	rf := forest.NewRandomForest(cfg)
	if err := rf.Fit(ctx, xTrain, yTrain); err != nil {
		return nil, fmt.Errorf("fit forest: %w", err)
	}

	predicted, err := rf.Predict(xTest)
	if err != nil {
		return nil, fmt.Errorf("predict holdout: %w", err)
	}

	points := make([]models.MPredictionPoint, len(split.Test))
	for i, row := range split.Test {
		points[i] = models.MPredictionPoint{
			Date:      row.Date,
			Actual:    yTest[i],
			Predicted: predicted[i],
		}
	}

	weights := rf.FeatureImportances()
	importances := make([]models.MFeatureImportance, len(models.FeatureNames))
	for i, name := range models.FeatureNames {
		importances[i] = models.MFeatureImportance{Feature: name, Importance: weights[i]}
	}

	return &models.MPrediction{
		TrainRows:   len(split.Train),
		TestRows:    len(split.Test),
		Points:      points,
		MSE:         core.MeanSquaredError(yTest, predicted),
		Importances: importances,
	}, nil
}
