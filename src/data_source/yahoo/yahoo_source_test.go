package yahoo

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-02, 2024-01-03, 2024-01-04, 2024-01-05 at 03:45 UTC (09:15 IST), out of order,
// with a null row on the 4th.
const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "VEDL.NS", "gmtoffset": 19800, "exchangeTimezoneName": "Asia/Kolkata"},
      "timestamp": [1704167100, 1704426300, 1704253500, 1704339900],
      "indicators": {"quote": [{
        "open":   [260.0, 270.0, 262.0, null],
        "high":   [265.0, 275.0, 266.0, null],
        "low":    [258.0, 268.0, 260.0, null],
        "close":  [263.5, 272.1, 264.2, null],
        "volume": [1000, 3000, null, null]
      }]}
    }],
    "error": null
  }
}`

func newSource(t *testing.T, handler http.HandlerFunc) *YahooFinanceSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.NewLoggerWithWriter(&bytes.Buffer{}, "INFO", "test")
	src := NewYahooFinanceSource(network.NewAsyncNetworkManager(&models.MConfig{}, log), log)
	src.BaseURL = srv.URL + "/v8/finance/chart/"
	return src
}

func TestFetchDailyBarsParsesAndSorts(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/VEDL.NS"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1704067200", r.URL.Query().Get("period1"))
		assert.Equal(t, "1735603200", r.URL.Query().Get("period2"))
		w.Write([]byte(chartFixture))
	})

	bars, err := src.FetchDailyBars(context.Background(), "VEDL.NS", start, end)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, "2024-01-02", bars[0].Date.Format(time.DateOnly))
	assert.Equal(t, "2024-01-03", bars[1].Date.Format(time.DateOnly))
	assert.Equal(t, "2024-01-05", bars[2].Date.Format(time.DateOnly))
	assert.Equal(t, 263.5, bars[0].Close)
	assert.Equal(t, 272.1, bars[2].Close)
	assert.Equal(t, 0.0, bars[1].Volume, "null volume reads as zero")
}

func TestFetchDailyBarsDropsBarsOnEndDate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartFixture))
	})

	bars, err := src.FetchDailyBars(context.Background(), "VEDL.NS", start, end)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "2024-01-03", bars[1].Date.Format(time.DateOnly))
}

func TestFetchDailyBarsProviderError(t *testing.T) {
	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	_, err := src.FetchDailyBars(context.Background(), "NOPE", time.Now().AddDate(-1, 0, 0), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestFetchDailyBarsMisalignedArrays(t *testing.T) {
	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{},"timestamp":[1,2],"indicators":{"quote":[{"open":[1],"high":[1],"low":[1],"close":[1],"volume":[1]}]}}]}}`))
	})

	_, err := src.FetchDailyBars(context.Background(), "X", time.Unix(0, 0), time.Now())
	assert.ErrorContains(t, err, "alignment")
}

func TestFetchDailyBarsNoTimestampsIsEmpty(t *testing.T) {
	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"X"},"indicators":{"quote":[{}]}}],"error":null}}`))
	})

	bars, err := src.FetchDailyBars(context.Background(), "X", time.Unix(0, 0), time.Now())
	require.NoError(t, err)
	assert.Empty(t, bars)
}
