package grpc_control

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"stock-trend/src/helpers"
	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/models"
)

// ControlService implements DashboardControlServer on top of the report pipeline.
type ControlService struct {
	Config  *models.MConfig
	Runner  interfaces.IReportRunner
	Logger  *logger.Logger
	started time.Time
}

var _ DashboardControlServer = (*ControlService)(nil)

// NewControlService creates a new instance of ControlService
func NewControlService(cfg *models.MConfig, runner interfaces.IReportRunner, log *logger.Logger) *ControlService {
	return &ControlService{
		Config:  cfg,
		Runner:  runner,
		Logger:  log,
		started: time.Now(),
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) RunPipeline(ctx context.Context, req *RunPipelineRequest) (*RunPipelineResponse, error) {
	if req.Ticker == "" {
		return nil, status.Error(codes.InvalidArgument, "ticker is required")
	}

	report, err := s.Runner.Run(ctx, req.Ticker)
	if err != nil {
		s.Logger.Warning("gRPC: RunPipeline %s failed: %v", req.Ticker, err)
		return nil, toStatus(err)
	}

	resp := &RunPipelineResponse{
		Ticker:      report.Ticker,
		Bars:        len(report.CloseHistory),
		FeatureRows: report.FeatureRows,
		TrainRows:   report.Prediction.TrainRows,
		TestRows:    report.Prediction.TestRows,
		MSE:         report.Prediction.MSE,
		Importances: report.Prediction.Importances,
		Narrative:   report.Narrative,
		Timings:     report.Timings,
	}
	if report.Simulation != nil {
		resp.BestModel = report.Simulation.BestModel
	}

	s.Logger.Info("gRPC: RunPipeline success for %s. MSE: %.4f", resp.Ticker, resp.MSE)
	return resp, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) CacheStats(ctx context.Context, _ *Empty) (*models.MCacheStats, error) {
	stats := s.Runner.CacheStats()
	return &stats, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) Health(ctx context.Context, _ *Empty) (*HealthResponse, error) {
	return &HealthResponse{
		Status:        "ok",
		Name:          s.Config.Name,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}, nil
}

// -----------------------------------------------------------------------------

func toStatus(err error) error {
	var ve *helpers.ValidationError
	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, err.Error())
	case helpers.IsClientError(err):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// -----------------------------------------------------------------------------

// NewServer returns a gRPC server with the control service registered.
func NewServer(svc DashboardControlServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(recoveryInterceptor)}, opts...)
	srv := grpc.NewServer(opts...)
	RegisterDashboardControlServer(srv, svc)
	return srv
}

// recoveryInterceptor turns a handler panic into codes.Internal.
func recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, status.Errorf(codes.Internal, "panic in %s: %v", info.FullMethod, r)
		}
	}()
	return handler(ctx, req)
}

// Serve listens on host:port and blocks until the server stops.
func Serve(srv *grpc.Server, host string, port int, log *logger.Logger) error {
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return fmt.Errorf("listen for gRPC: %w", err)
	}
	log.Info("Starting gRPC Control Server on %s", lis.Addr())
	return srv.Serve(lis)
}
