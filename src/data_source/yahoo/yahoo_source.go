package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/models"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

type YahooFinanceSource struct {
	BaseURL string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(netMgr interfaces.INetworkManager, log *logger.Logger) *YahooFinanceSource {
	return &YahooFinanceSource{
		BaseURL: defaultBaseURL,
		Network: netMgr,
		Logger:  log.Named("YahooFinanceSource"),
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return "yahoo"
}

// -----------------------------------------------------------------------------

// FetchDailyBars fetches daily bars for symbol with start inclusive and end exclusive.
func (s *YahooFinanceSource) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.MPriceBar, error) {
	params := map[string]string{
		"interval":       "1d",
		"period1":        strconv.FormatInt(start.Unix(), 10),
		"period2":        strconv.FormatInt(end.Unix(), 10),
		"includePrePost": "false",
		"events":         "div,splits",
	}

	respBytes, err := s.Network.Get(ctx, s.BaseURL+url.PathEscape(symbol), params)
	if err != nil {
		return nil, fmt.Errorf("network error for %s: %w", symbol, err)
	}

	bars, err := s.parseChartResponse(symbol, respBytes)
	if err != nil {
		return nil, err
	}

	// period2 is exclusive on our side even if the provider includes a bar on it
	for len(bars) > 0 && !bars[len(bars)-1].Date.Before(end) {
		bars = bars[:len(bars)-1]
	}
	return bars, nil
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string `json:"currency"`
				Symbol               string `json:"symbol"`
				ExchangeName         string `json:"exchangeName"`
				InstrumentType       string `json:"instrumentType"`
				Gmtoffset            int64  `json:"gmtoffset"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				DataGranularity      string `json:"dataGranularity"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`   // Use pointers to handle null
					Low    []*float64 `json:"low"`    // Use pointers to handle null
					Open   []*float64 `json:"open"`   // Use pointers to handle null
					Close  []*float64 `json:"close"`  // Use pointers to handle null
					Volume []*float64 `json:"volume"` // Use pointers to handle null
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) ([]models.MPriceBar, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no result in response for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		// Valid symbol, nothing traded in range
		return []models.MPriceBar{}, nil
	}

	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data in response for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	// 1. Alignment check
	n := len(result.Timestamp)
	if len(quote.Close) != n || len(quote.Open) != n || len(quote.High) != n ||
		len(quote.Low) != n || len(quote.Volume) != n {
		return nil, fmt.Errorf("data alignment error for %s", symbol)
	}

	// 2. Build bars keyed by exchange-local calendar date
	byDate := make(map[time.Time]models.MPriceBar, n)
	skipped := 0

	for i, ts := range result.Timestamp {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			skipped++
			continue
		}

		volume := 0.0
		if quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		local := time.Unix(ts+result.Meta.Gmtoffset, 0).UTC()
		date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

		// Later entries for the same date win (Yahoo appends a live bar on the last day)
		byDate[date] = models.MPriceBar{
			Date:   date,
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: volume,
		}
	}

	if skipped > 0 {
		s.Logger.Debug("Skipped %d null bars for %s", skipped, symbol)
	}

	// 3. Sort by date
	bars := make([]models.MPriceBar, 0, len(byDate))
	for _, b := range byDate {
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	if len(bars) > 0 {
		s.Logger.Info("Fetched %s: %d daily bars [%s -> %s]", symbol, len(bars),
			bars[0].Date.Format(time.DateOnly), bars[len(bars)-1].Date.Format(time.DateOnly))
	}

	return bars, nil
}
