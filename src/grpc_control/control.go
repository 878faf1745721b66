package grpc_control

import (
	"context"

	"google.golang.org/grpc"

	"stock-trend/src/models"
)

// -----------------------------------------------------------------------------
// Messages
// -----------------------------------------------------------------------------

type Empty struct{}

type RunPipelineRequest struct {
	Ticker string `json:"ticker"`
}

type RunPipelineResponse struct {
	Ticker      string                      `json:"ticker"`
	Bars        int                         `json:"bars"`
	FeatureRows int                         `json:"feature_rows"`
	TrainRows   int                         `json:"train_rows"`
	TestRows    int                         `json:"test_rows"`
	MSE         float64                     `json:"mse"`
	Importances []models.MFeatureImportance `json:"importances"`
	BestModel   string                      `json:"best_model"`
	Narrative   []string                    `json:"narrative"`
	Timings     models.MStageTimings        `json:"timings"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	Name          string `json:"name"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// -----------------------------------------------------------------------------
// Server side
// -----------------------------------------------------------------------------

const serviceName = "stocktrend.DashboardControl"

// DashboardControlServer is the operator-facing control API.
type DashboardControlServer interface {
	RunPipeline(context.Context, *RunPipelineRequest) (*RunPipelineResponse, error)
	CacheStats(context.Context, *Empty) (*models.MCacheStats, error)
	Health(context.Context, *Empty) (*HealthResponse, error)
}

func RegisterDashboardControlServer(s grpc.ServiceRegistrar, srv DashboardControlServer) {
	s.RegisterService(&dashboardControlDesc, srv)
}

func unaryHandler[Req any, Resp any](method string, call func(DashboardControlServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DashboardControlServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + method}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(DashboardControlServer), ctx, req.(*Req))
			})
		},
	}
}

var dashboardControlDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*DashboardControlServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("RunPipeline", DashboardControlServer.RunPipeline),
		unaryHandler("CacheStats", DashboardControlServer.CacheStats),
		unaryHandler("Health", DashboardControlServer.Health),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stocktrend/control",
}

// -----------------------------------------------------------------------------
// Client side
// -----------------------------------------------------------------------------

type DashboardControlClient struct {
	cc grpc.ClientConnInterface
}

func NewDashboardControlClient(cc grpc.ClientConnInterface) *DashboardControlClient {
	return &DashboardControlClient{cc: cc}
}

func (c *DashboardControlClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}

func (c *DashboardControlClient) RunPipeline(ctx context.Context, in *RunPipelineRequest, opts ...grpc.CallOption) (*RunPipelineResponse, error) {
	out := new(RunPipelineResponse)
	if err := c.invoke(ctx, "RunPipeline", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardControlClient) CacheStats(ctx context.Context, opts ...grpc.CallOption) (*models.MCacheStats, error) {
	out := new(models.MCacheStats)
	if err := c.invoke(ctx, "CacheStats", &Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardControlClient) Health(ctx context.Context, opts ...grpc.CallOption) (*HealthResponse, error) {
	out := new(HealthResponse)
	if err := c.invoke(ctx, "Health", &Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
