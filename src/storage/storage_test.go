package storage

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.NewLoggerWithWriter(&bytes.Buffer{}, "INFO", "test")
}

func sampleKey(symbol string) models.MFetchKey {
	return models.MFetchKey{
		Symbol: symbol,
		Start:  time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func sampleSeries(symbol string, n int) *models.MPriceSeries {
	s := &models.MPriceSeries{Symbol: symbol}
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, models.MPriceBar{
			Date:   day.AddDate(0, 0, i),
			Open:   float64(100 + i),
			High:   float64(101 + i),
			Low:    float64(99 + i),
			Close:  100.5 + float64(i),
			Volume: float64(1000 * (i + 1)),
		})
	}
	return s
}

func backends(t *testing.T) map[string]interfaces.IPriceCache {
	t.Helper()

	mem := &models.MConfig{}
	mem.Storage.DBType = "memory"

	sqliteMem := &models.MConfig{}
	sqliteMem.Storage.DBType = "sqlite"
	sqliteMem.Storage.DBPath = ":memory:"

	out := map[string]interfaces.IPriceCache{}
	for name, cfg := range map[string]*models.MConfig{"memory": mem, "sqlite": sqliteMem} {
		c, err := NewPriceCache(cfg, testLogger())
		require.NoError(t, err)
		t.Cleanup(func() { c.Close() })
		out[name] = c
	}
	return out
}

func TestPriceCacheRoundTrip(t *testing.T) {
	for name, cache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, cache.Backend())

			_, ok, err := cache.Get(sampleKey("AAPL"))
			require.NoError(t, err)
			assert.False(t, ok)

			want := sampleSeries("AAPL", 5)
			require.NoError(t, cache.Put(sampleKey("AAPL"), want))

			got, ok, err := cache.Get(sampleKey("AAPL"))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, want.Symbol, got.Symbol)
			require.Len(t, got.Bars, 5)
			for i := range want.Bars {
				assert.True(t, want.Bars[i].Date.Equal(got.Bars[i].Date))
				assert.Equal(t, want.Bars[i].Close, got.Bars[i].Close)
				assert.Equal(t, want.Bars[i].Volume, got.Bars[i].Volume)
			}

			n, err := cache.Len()
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestPriceCacheStoresEmptySeries(t *testing.T) {
	for name, cache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, cache.Put(sampleKey("NOPE"), &models.MPriceSeries{Symbol: "NOPE"}))

			got, ok, err := cache.Get(sampleKey("NOPE"))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 0, got.Len())
		})
	}
}

func TestPriceCacheKeyIncludesDates(t *testing.T) {
	for name, cache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, cache.Put(sampleKey("AAPL"), sampleSeries("AAPL", 3)))

			other := sampleKey("AAPL")
			other.End = other.End.AddDate(0, 0, -1)
			_, ok, err := cache.Get(other)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestPriceCacheReplaceEntry(t *testing.T) {
	for name, cache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, cache.Put(sampleKey("AAPL"), sampleSeries("AAPL", 5)))
			require.NoError(t, cache.Put(sampleKey("AAPL"), sampleSeries("AAPL", 2)))

			got, _, err := cache.Get(sampleKey("AAPL"))
			require.NoError(t, err)
			assert.Equal(t, 2, got.Len())
		})
	}
}

func TestSQLiteInitializeDiscardsPreviousRun(t *testing.T) {
	cfg := &models.MConfig{}
	cfg.Storage.DBType = "sqlite"
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "cache.db")

	first, err := NewPriceCache(cfg, testLogger())
	require.NoError(t, err)
	require.NoError(t, first.Put(sampleKey("AAPL"), sampleSeries("AAPL", 3)))
	require.NoError(t, first.Close())

	second, err := NewPriceCache(cfg, testLogger())
	require.NoError(t, err)
	defer second.Close()

	n, err := second.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
