package pipeline

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-trend/src/analysis"
	"stock-trend/src/helpers"
	"stock-trend/src/logger"
	"stock-trend/src/models"
)

type fakeLoader struct {
	mu     sync.Mutex
	series map[string]*models.MPriceSeries
	calls  []string
}

func (f *fakeLoader) Load(_ context.Context, symbol string, _, _ time.Time) *models.MPriceSeries {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbol)
	if s, ok := f.series[symbol]; ok {
		return s
	}
	return &models.MPriceSeries{Symbol: symbol, Bars: []models.MPriceBar{}}
}

func (f *fakeLoader) Stats() models.MCacheStats {
	return models.MCacheStats{Backend: "fake", Entries: len(f.series)}
}

func trendSeries(symbol string, n int) *models.MPriceSeries {
	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.MPriceBar, n)
	for i := range bars {
		c := 100 + 0.01*float64(i)
		bars[i] = models.MPriceBar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1}
	}
	return &models.MPriceSeries{Symbol: symbol, Bars: bars}
}

func newTestService(loader *fakeLoader) (*Service, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logger.NewLoggerWithWriter(&buf, "DEBUG", "pipeline")
	cfg := &models.MConfig{Forest: models.MForestConfig{Trees: 20, Seed: 42}}
	svc := NewService(loader, analysis.NewAnalysisFacade(cfg, log), log)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return svc, &buf
}

// -----------------------------------------------------------------------------

func TestRunBuildsFullReport(t *testing.T) {
	loader := &fakeLoader{series: map[string]*models.MPriceSeries{"VEDL.NS": trendSeries("VEDL.NS", 300)}}
	svc, _ := newTestService(loader)

	report, err := svc.Run(context.Background(), " vedl.ns ")
	require.NoError(t, err)

	assert.Equal(t, []string{"VEDL.NS"}, loader.calls)
	assert.Equal(t, "VEDL.NS", report.Ticker)
	assert.Equal(t, "2014-01-01", report.Start)
	assert.Equal(t, "2024-12-31", report.End)
	assert.Len(t, report.Describe, 5)
	assert.Len(t, report.CloseHistory, 300)
	assert.Equal(t, "xnse", report.Coverage.Exchange)
	assert.Equal(t, 101, report.FeatureRows)
	assert.Equal(t, 80, report.Prediction.TrainRows)
	assert.Equal(t, 21, report.Prediction.TestRows)
	assert.Less(t, report.Prediction.MSE, 0.5)
	require.NotNil(t, report.Simulation)
	assert.Equal(t, "Model_3", report.Simulation.BestModel)
	assert.Equal(t, int64(1700000000), report.GeneratedAt)

	require.NotEmpty(t, report.Narrative)
	assert.Regexp(t, `^Model Mean Squared Error: 0\.\d\d$`, report.Narrative[0])
	assert.Contains(t, report.Narrative[len(report.Narrative)-1], "Model_3")
}

func TestRunFailsOnEmptyHistory(t *testing.T) {
	svc, buf := newTestService(&fakeLoader{})

	_, err := svc.Run(context.Background(), "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, helpers.ErrEmptyTrainingSet)
	assert.ErrorIs(t, err, helpers.ErrInsufficientData)

	var me *helpers.ModelError
	assert.True(t, errors.As(err, &me))
	assert.True(t, helpers.IsClientError(err))
	assert.Contains(t, buf.String(), "no price history")
}

func TestRunRejectsMalformedTicker(t *testing.T) {
	loader := &fakeLoader{}
	svc, _ := newTestService(loader)

	for _, ticker := range []string{"VEDL NS", "<script>", "AAPL;DROP"} {
		_, err := svc.Run(context.Background(), ticker)
		assert.ErrorIs(t, err, helpers.ErrInvalidTicker, "ticker %q", ticker)
	}
	assert.Empty(t, loader.calls)
}

func TestRunEmptyTickerUsesDefault(t *testing.T) {
	loader := &fakeLoader{series: map[string]*models.MPriceSeries{"VEDL.NS": trendSeries("VEDL.NS", 300)}}
	svc, _ := newTestService(loader)

	for _, ticker := range []string{"", "   "} {
		report, err := svc.Run(context.Background(), ticker)
		require.NoError(t, err, "ticker %q", ticker)
		assert.Equal(t, "VEDL.NS", report.Ticker)
	}
	assert.Equal(t, []string{"VEDL.NS", "VEDL.NS"}, loader.calls)
}

func TestRunHonoursCancellation(t *testing.T) {
	loader := &fakeLoader{series: map[string]*models.MPriceSeries{"X": trendSeries("X", 300)}}
	svc, _ := newTestService(loader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Run(ctx, "X")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulationAndStatsDelegate(t *testing.T) {
	svc, _ := newTestService(&fakeLoader{})
	assert.Same(t, svc.Simulation(), svc.Simulation())
	assert.Equal(t, "fake", svc.CacheStats().Backend)
}

func TestNarrative(t *testing.T) {
	lines := Narrative(12.346, "Model_2")
	assert.Equal(t, "Model Mean Squared Error: 12.35", lines[0])
	assert.Len(t, lines, 5)

	assert.Len(t, Narrative(1, ""), 4)
}

func TestNewFromConfigWiresCache(t *testing.T) {
	cfg := &models.MConfig{
		Storage: models.MStorageConfig{DBType: "memory"},
		Forest:  models.MForestConfig{Trees: 10, Seed: 42},
	}
	svc, closeFn, err := NewFromConfig(cfg, logger.NewLoggerWithWriter(&bytes.Buffer{}, "INFO", "test"))
	require.NoError(t, err)
	defer closeFn()

	stats := svc.CacheStats()
	assert.Equal(t, "memory", stats.Backend)
	assert.Zero(t, stats.Entries)
	assert.Equal(t, "2014-01-01", svc.Start.Format(time.DateOnly))
}
