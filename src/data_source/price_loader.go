package datasource

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/metrics"
	"stock-trend/src/models"

	"golang.org/x/sync/singleflight"
)

// PriceLoader is the memoized Data Fetcher. A (symbol, start, end) tuple is fetched from the
// source at most once per process; whatever came back, including an empty series after a
// failure, is what every later caller sees.
type PriceLoader struct {
	Source interfaces.IDataSource
	Cache  interfaces.IPriceCache
	Logger *logger.Logger

	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// -----------------------------------------------------------------------------

func NewPriceLoader(source interfaces.IDataSource, cache interfaces.IPriceCache, log *logger.Logger) *PriceLoader {
	return &PriceLoader{
		Source: source,
		Cache:  cache,
		Logger: log.Named("PriceLoader"),
	}
}

// -----------------------------------------------------------------------------

// NormalizeSymbol trims and upper-cases a user supplied ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// -----------------------------------------------------------------------------

// Load returns the series for the tuple. It does not report errors; see the type comment.
func (l *PriceLoader) Load(ctx context.Context, symbol string, start, end time.Time) *models.MPriceSeries {
	key := models.MFetchKey{Symbol: NormalizeSymbol(symbol), Start: start.UTC(), End: end.UTC()}

	for {
		// 1. Cache lookup
		if series, ok := l.lookup(key); ok {
			l.countHit()
			return series
		}

		// 2. Collapse concurrent misses for the same key into one upstream call
		v, _, shared := l.group.Do(key.String(), func() (interface{}, error) {
			if series, ok := l.lookup(key); ok {
				l.countHit()
				return fetchResult{series: series, settled: true}, nil
			}
			l.misses.Add(1)
			metrics.FetchCache.WithLabelValues("miss").Inc()
			return l.fetchAndStore(ctx, key), nil
		})
		res := v.(fetchResult)
		if res.settled || ctx.Err() != nil {
			return res.series
		}

		// The fetch we joined was cancelled by its caller; ours is still live, so try again.
		if shared {
			l.Logger.Debug("Shared fetch for %s was cancelled, retrying", key)
		}
	}
}

// fetchResult is unsettled only when the fetching caller's context ended before an answer arrived.
type fetchResult struct {
	series  *models.MPriceSeries
	settled bool
}

func (l *PriceLoader) countHit() {
	l.hits.Add(1)
	metrics.FetchCache.WithLabelValues("hit").Inc()
}

// -----------------------------------------------------------------------------

func (l *PriceLoader) lookup(key models.MFetchKey) (*models.MPriceSeries, bool) {
	series, ok, err := l.Cache.Get(key)
	if err != nil {
		l.Logger.Warning("Cache read failed for %s: %v", key, err)
		return nil, false
	}
	return series, ok
}

// -----------------------------------------------------------------------------

func (l *PriceLoader) fetchAndStore(ctx context.Context, key models.MFetchKey) fetchResult {
	series := &models.MPriceSeries{Symbol: key.Symbol, Bars: []models.MPriceBar{}}

	if key.Symbol == "" {
		l.Logger.Warning("Empty symbol, returning empty series")
		return fetchResult{series: series, settled: true}
	}

	startFetch := time.Now()
	bars, err := l.Source.FetchDailyBars(ctx, key.Symbol, key.Start, key.End)
	metrics.StageDuration.WithLabelValues("fetch_upstream").Observe(time.Since(startFetch).Seconds())

	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(l.Source.Name()).Inc()
		l.Logger.Warning("Fetch failed for %s, continuing with empty series: %v", key, err)

		// A cancelled request says nothing about the symbol; leave it uncached
		if ctx.Err() != nil {
			return fetchResult{series: series}
		}
	} else {
		series.Bars = bars
	}

	if err := l.Cache.Put(key, series); err != nil {
		l.Logger.Warning("Cache write failed for %s: %v", key, err)
	}
	return fetchResult{series: series, settled: true}
}

// -----------------------------------------------------------------------------

func (l *PriceLoader) Stats() models.MCacheStats {
	entries, err := l.Cache.Len()
	if err != nil {
		l.Logger.Warning("Cache size unavailable: %v", err)
	}
	return models.MCacheStats{
		Backend: l.Cache.Backend(),
		Entries: entries,
		Hits:    l.hits.Load(),
		Misses:  l.misses.Load(),
	}
}
