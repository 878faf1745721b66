package storage

import (
	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/models"
)

// NewPriceCache picks the backend named by storage.db_type and initializes it.
func NewPriceCache(cfg *models.MConfig, log *logger.Logger) (interfaces.IPriceCache, error) {
	var cache interfaces.IPriceCache

	switch cfg.Storage.DBType {
	case "memory":
		cache = NewMemoryPriceCache()
	default:
		// Default to SQLite
		cache = NewSQLitePriceCache(cfg, log)
	}

	if err := cache.Initialize(); err != nil {
		return nil, err
	}
	return cache, nil
}
