package pipeline

import (
	"fmt"

	"stock-trend/src/analysis"
	datasource "stock-trend/src/data_source"
	"stock-trend/src/data_source/yahoo"
	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/network"
	"stock-trend/src/storage"
)

// -----------------------------------------------------------------------------

// NewFromConfig wires cache, network, Yahoo source, loader and analysis into a Service.
// The returned close function releases the cache.
func NewFromConfig(cfg *models.MConfig, log *logger.Logger) (*Service, func() error, error) {
	cache, err := storage.NewPriceCache(cfg, log.Named(cacheLoggerName(cfg)))
	if err != nil {
		return nil, nil, fmt.Errorf("init price cache: %w", err)
	}

	var netMgr interfaces.INetworkManager = network.NewAsyncNetworkManager(cfg, log.Named("NetworkManager"))
	var source interfaces.IDataSource = yahoo.NewYahooFinanceSource(netMgr, log.Named("YahooFinance"))

	loader := datasource.NewPriceLoader(source, cache, log.Named("PriceLoader"))
	facade := analysis.NewAnalysisFacade(cfg, log.Named("Analysis"))

	return NewService(loader, facade, log.Named("Pipeline")), cache.Close, nil
}

func cacheLoggerName(cfg *models.MConfig) string {
	if cfg.Storage.DBType == "memory" {
		return "MemoryCache"
	}
	return "SQLiteCache"
}
