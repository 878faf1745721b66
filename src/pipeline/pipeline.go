// Package pipeline runs fetch -> describe -> features -> split -> fit -> predict -> simulate
// for one ticker and assembles the dashboard report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"stock-trend/src/analysis"
	datasource "stock-trend/src/data_source"
	"stock-trend/src/helpers"
	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/metrics"
	"stock-trend/src/models"
	"stock-trend/src/utils"
)

// Upper-case symbols with exchange suffixes, index carets and currency pairs (VEDL.NS, ^NSEI, EURUSD=X).
var tickerPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^&]{0,31}$`)

// Static text shown under the box plot.
var boxPlotGuide = []string{
	"Each box shows where most predictions fall. The middle line is the median prediction.",
	"Shorter boxes mean the model is more confident.",
	"Longer whiskers or extreme dots suggest the model sometimes predicts very different values, which could be worth investigating.",
}

// Service implements interfaces.IReportRunner.
type Service struct {
	Loader       interfaces.IPriceLoader
	Analysis     *analysis.AnalysisFacade
	Logger       *logger.Logger
	ErrorHandler *helpers.ErrorHandler
	Start        time.Time
	End          time.Time

	now func() time.Time
}

var _ interfaces.IReportRunner = (*Service)(nil)

// -----------------------------------------------------------------------------

func NewService(loader interfaces.IPriceLoader, facade *analysis.AnalysisFacade, log *logger.Logger) *Service {
	return &Service{
		Loader:       loader,
		Analysis:     facade,
		Logger:       log,
		ErrorHandler: helpers.NewErrorHandler(log),
		Start:        utils.StartDate(),
		End:          utils.EndDate(),
		now:          time.Now,
	}
}

// -----------------------------------------------------------------------------

// Run executes every stage synchronously. The first failing stage aborts the run and its
// error is returned wrapped with the stage name.
func (s *Service) Run(ctx context.Context, ticker string) (*models.MDashboardReport, error) {
	report, err := s.run(ctx, ticker)
	switch {
	case err == nil:
		metrics.PipelineRuns.WithLabelValues("ok").Inc()
	case helpers.IsClientError(err):
		metrics.PipelineRuns.WithLabelValues("client_error").Inc()
	default:
		metrics.PipelineRuns.WithLabelValues("error").Inc()
	}
	if err != nil {
		s.ErrorHandler.Handle(err, "pipeline "+ticker)
		return nil, err
	}
	return report, nil
}

func (s *Service) run(ctx context.Context, ticker string) (*models.MDashboardReport, error) {
	symbol := datasource.NormalizeSymbol(ticker)
	if symbol == "" {
		symbol = utils.DefaultTicker
	}
	if !tickerPattern.MatchString(symbol) {
		return nil, helpers.NewValidationError(fmt.Sprintf("ticker %q", ticker), helpers.ErrInvalidTicker)
	}

	report := &models.MDashboardReport{
		Ticker: symbol,
		Start:  s.Start.Format(time.DateOnly),
		End:    s.End.Format(time.DateOnly),
	}

	// 1. Fetch
	t0 := s.now()
	series := s.Loader.Load(ctx, symbol, s.Start, s.End)
	if series == nil {
		series = &models.MPriceSeries{Symbol: symbol}
	}
	if err := ctx.Err(); err != nil {
		return nil, helpers.NewDataSourceError("fetch", err)
	}
	report.Timings.FetchSeconds = s.observe("fetch", t0)
	if series.Len() == 0 {
		s.Logger.Warning("%s: no price history for %s..%s", symbol, report.Start, report.End)
	}

	// 2. Describe + features
	t0 = s.now()
	report.Describe, report.CloseHistory, report.Coverage = s.Analysis.Summarize(series, s.Start, s.End)
	rows := s.Analysis.Features(series)
	report.FeatureRows = len(rows)
	report.Timings.FeatureSeconds = s.observe("features", t0)

	// 3. Split, fit, predict
	t0 = s.now()
	prediction, err := s.Analysis.Predict(ctx, rows)
	if err != nil {
		if errors.Is(err, helpers.ErrEmptyTrainingSet) && series.Len() < utils.LongMAWindow {
			err = fmt.Errorf("%w (%d bars, %d needed): %w", helpers.ErrInsufficientData, series.Len(), utils.LongMAWindow+1, err)
		}
		return nil, helpers.NewModelError("fit", err)
	}
	report.Prediction = *prediction
	report.Timings.FitSeconds = s.observe("fit", t0)

	// 4. Illustrative simulation
	t0 = s.now()
	report.Simulation = s.Analysis.Simulation()
	report.Timings.SimulateSeconds = s.observe("simulate", t0)

	report.Narrative = Narrative(report.Prediction.MSE, report.Simulation.BestModel)
	report.GeneratedAt = s.now().Unix()

	s.Logger.Info("%s: report ready (%d bars, %d feature rows, MSE %.2f)", symbol, series.Len(), len(rows), prediction.MSE)
	return report, nil
}

// -----------------------------------------------------------------------------

func (s *Service) observe(stage string, start time.Time) float64 {
	d := s.now().Sub(start).Seconds()
	metrics.StageDuration.WithLabelValues(stage).Observe(d)
	return d
}

// -----------------------------------------------------------------------------

// Narrative renders the text blocks of the dashboard.
func Narrative(mse float64, bestModel string) []string {
	out := []string{fmt.Sprintf("Model Mean Squared Error: %.2f", mse)}
	out = append(out, boxPlotGuide...)
	if bestModel != "" {
		out = append(out, fmt.Sprintf("Based on the lowest standard deviation, %s appears to offer the most consistent predictions.", bestModel))
	}
	return out
}

// -----------------------------------------------------------------------------

func (s *Service) Simulation() *models.MSimulation {
	return s.Analysis.Simulation()
}

func (s *Service) CacheStats() models.MCacheStats {
	return s.Loader.Stats()
}
