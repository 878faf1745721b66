package interfaces

import (
	"context"

	"stock-trend/src/models"
)

// -----------------------------------------------------------------------------
// IReportRunner produces the dashboard report for one ticker. Implemented by the
// pipeline and consumed by the HTTP/websocket server and the gRPC control plane.
// -----------------------------------------------------------------------------

type IReportRunner interface {
	Run(ctx context.Context, ticker string) (*models.MDashboardReport, error)

	// Simulation returns the illustrative box-plot data, which does not depend on any ticker.
	Simulation() *models.MSimulation

	CacheStats() models.MCacheStats
}
