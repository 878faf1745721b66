package analysis

import (
	"context"
	"sync"
	"time"

	"stock-trend/src/analysis/forest"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/utils"
)

// AnalysisFacade groups the feature, model and simulation stages behind one configured object.
type AnalysisFacade struct {
	Config *models.MConfig
	Logger *logger.Logger

	simOnce    sync.Once
	simulation *models.MSimulation
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(cfg *models.MConfig, log *logger.Logger) *AnalysisFacade {
	return &AnalysisFacade{
		Config: cfg,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (a *AnalysisFacade) ForestConfig() forest.Config {
	return forest.Config{
		Trees:   a.Config.Forest.Trees,
		Seed:    a.Config.Forest.Seed,
		Workers: a.Config.Forest.Workers,
	}
}

// -----------------------------------------------------------------------------

// Summarize computes the describe table, the close history and exchange coverage.
func (a *AnalysisFacade) Summarize(series *models.MPriceSeries, start, end time.Time) ([]models.MDescribeColumn, []models.MClosePoint, models.MCoverage) {
	cov := Coverage(series, start, end)
	if cov.ExpectedSessions > 0 && cov.Ratio < 0.9 {
		a.Logger.Warning("%s: received %d bars for %d %s sessions", series.Symbol, cov.ReceivedBars, cov.ExpectedSessions, cov.Exchange)
	}
	return Describe(series), CloseHistory(series), cov
}

// -----------------------------------------------------------------------------

func (a *AnalysisFacade) Features(series *models.MPriceSeries) []models.MFeatureRow {
	rows := BuildFeatures(series)
	a.Logger.Debug("%s: %d bars -> %d feature rows", series.Symbol, series.Len(), len(rows))
	return rows
}

// -----------------------------------------------------------------------------

// Predict splits rows chronologically, fits the forest and scores the holdout.
func (a *AnalysisFacade) Predict(ctx context.Context, rows []models.MFeatureRow) (*models.MPrediction, error) {
	split := SplitChronological(rows, utils.TrainFraction)
	pred, err := TrainAndPredict(ctx, a.ForestConfig(), split)
	if err != nil {
		return nil, err
	}
	a.Logger.Info("Forest fitted on %d rows, holdout %d rows, MSE %.4f", pred.TrainRows, pred.TestRows, pred.MSE)
	return pred, nil
}

// -----------------------------------------------------------------------------

// Simulation returns the illustrative forecast batches. They never change, so they are
// computed once per facade.
func (a *AnalysisFacade) Simulation() *models.MSimulation {
	a.simOnce.Do(func() {
		a.simulation = SimulateForecasts(DefaultSummaryStats(), SimulationSamples, SimulationSeed)
	})
	return a.simulation
}
