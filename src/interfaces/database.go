package interfaces

import "stock-trend/src/models"

// -----------------------------------------------------------------------------
// IPriceCache stores fetched series for the lifetime of the process.
// -----------------------------------------------------------------------------

type IPriceCache interface {

	// Initialize sets up the backing store. Anything left from a previous run is discarded.
	Initialize() error

	// -----------------------------------------------------------------------------

	// Get returns the cached series for key, if any.
	Get(key models.MFetchKey) (*models.MPriceSeries, bool, error)

	// -----------------------------------------------------------------------------

	// Put stores series under key, replacing an existing entry.
	Put(key models.MFetchKey, series *models.MPriceSeries) error

	// -----------------------------------------------------------------------------

	// Len reports the number of cached keys.
	Len() (int, error)

	// Backend names the implementation ("sqlite", "memory").
	Backend() string

	// -----------------------------------------------------------------------------

	// Close releases the backing store
	Close() error
}
