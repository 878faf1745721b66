package models

import "time"

// MPriceBar is one daily OHLCV record.
type MPriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// MPriceSeries is the chronologically ordered history of one symbol.
// Dates are unique. A series is never mutated after it has been fetched.
type MPriceSeries struct {
	Symbol string      `json:"symbol"`
	Bars   []MPriceBar `json:"bars"`
}

func (s *MPriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Closes returns a copy of the closing prices in date order.
func (s *MPriceSeries) Closes() []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// MFetchKey identifies a memoized fetch. Start and End are calendar dates.
type MFetchKey struct {
	Symbol string
	Start  time.Time
	End    time.Time
}

// String renders the key as "SYMBOL|2014-01-01|2024-12-31".
func (k MFetchKey) String() string {
	return k.Symbol + "|" + k.Start.Format(time.DateOnly) + "|" + k.End.Format(time.DateOnly)
}
