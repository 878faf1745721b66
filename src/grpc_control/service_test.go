package grpc_control

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"stock-trend/src/helpers"
	"stock-trend/src/logger"
	"stock-trend/src/models"
)

type stubRunner struct{}

func (stubRunner) Run(_ context.Context, ticker string) (*models.MDashboardReport, error) {
	switch ticker {
	case "BAD":
		return nil, helpers.NewValidationError("ticker", helpers.ErrInvalidTicker)
	case "EMPTY":
		return nil, helpers.NewModelError("fit", helpers.ErrEmptyTrainingSet)
	case "PANIC":
		panic("runner exploded")
	}
	return &models.MDashboardReport{
		Ticker:       ticker,
		CloseHistory: make([]models.MClosePoint, 300),
		FeatureRows:  101,
		Prediction: models.MPrediction{
			TrainRows:   80,
			TestRows:    21,
			MSE:         0.25,
			Importances: []models.MFeatureImportance{{Feature: models.FeatureMA50, Importance: 1}},
		},
		Simulation: &models.MSimulation{BestModel: "Model_3"},
		Narrative:  []string{"Model Mean Squared Error: 0.25"},
	}, nil
}

func (stubRunner) Simulation() *models.MSimulation { return &models.MSimulation{} }

func (stubRunner) CacheStats() models.MCacheStats {
	return models.MCacheStats{Backend: "sqlite", Entries: 3, Hits: 4, Misses: 3}
}

func newTestClient(t *testing.T) *DashboardControlClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	log := logger.NewLoggerWithWriter(&bytes.Buffer{}, "INFO", "ControlService")
	srv := NewServer(NewControlService(&models.MConfig{Name: "stock-trend"}, stubRunner{}, log))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewDashboardControlClient(conn)
}

func TestRunPipelineOverGRPC(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.RunPipeline(context.Background(), &RunPipelineRequest{Ticker: "VEDL.NS"})
	require.NoError(t, err)
	assert.Equal(t, "VEDL.NS", resp.Ticker)
	assert.Equal(t, 300, resp.Bars)
	assert.Equal(t, 101, resp.FeatureRows)
	assert.Equal(t, 80, resp.TrainRows)
	assert.Equal(t, 0.25, resp.MSE)
	assert.Equal(t, "Model_3", resp.BestModel)
	require.Len(t, resp.Importances, 1)
	assert.Equal(t, "MA_50", resp.Importances[0].Feature)
}

func TestRunPipelineErrorCodes(t *testing.T) {
	client := newTestClient(t)

	cases := map[string]codes.Code{
		"":      codes.InvalidArgument,
		"BAD":   codes.InvalidArgument,
		"EMPTY": codes.FailedPrecondition,
	}
	for ticker, code := range cases {
		_, err := client.RunPipeline(context.Background(), &RunPipelineRequest{Ticker: ticker})
		require.Error(t, err, ticker)
		assert.Equal(t, code, status.Code(err), ticker)
	}
}

func TestRunPipelinePanicBecomesInternal(t *testing.T) {
	client := newTestClient(t)

	_, err := client.RunPipeline(context.Background(), &RunPipelineRequest{Ticker: "PANIC"})
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "runner exploded")

	// Server is still up
	resp, err := client.RunPipeline(context.Background(), &RunPipelineRequest{Ticker: "VEDL.NS"})
	require.NoError(t, err)
	assert.Equal(t, "VEDL.NS", resp.Ticker)
}

func TestCacheStatsAndHealth(t *testing.T) {
	client := newTestClient(t)

	stats, err := client.CacheStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.MCacheStats{Backend: "sqlite", Entries: 3, Hits: 4, Misses: 3}, *stats)

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "stock-trend", health.Name)
}
