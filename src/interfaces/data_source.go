package interfaces

import (
	"context"
	"time"

	"stock-trend/src/models"
)

// -----------------------------------------------------------------------------
// IDataSource fetches daily price history from an external market-data provider.
// -----------------------------------------------------------------------------

type IDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchDailyBars retrieves daily bars for symbol in [start, end), ascending by date.
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.MPriceBar, error)
}

// -----------------------------------------------------------------------------
// IPriceLoader is the memoized Data Fetcher the pipeline talks to.
// -----------------------------------------------------------------------------

type IPriceLoader interface {
	// Load never fails: provider errors and unknown symbols come back as an empty series.
	Load(ctx context.Context, symbol string, start, end time.Time) *models.MPriceSeries

	Stats() models.MCacheStats
}
