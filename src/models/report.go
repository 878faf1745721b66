package models

import "time"

// MDescribeColumn mirrors one column of a describe() table.
type MDescribeColumn struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

type MCoverage struct {
	Exchange         string  `json:"exchange"`
	ExpectedSessions int     `json:"expected_sessions"`
	ReceivedBars     int     `json:"received_bars"`
	Ratio            float64 `json:"ratio"`
}

type MClosePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

type MStageTimings struct {
	FetchSeconds    float64 `json:"fetch_seconds"`
	FeatureSeconds  float64 `json:"feature_seconds"`
	FitSeconds      float64 `json:"fit_seconds"`
	SimulateSeconds float64 `json:"simulate_seconds"`
}

// MDashboardReport is everything the presentation layer renders for one ticker.
type MDashboardReport struct {
	Ticker       string            `json:"ticker"`
	Start        string            `json:"start"`
	End          string            `json:"end"`
	Describe     []MDescribeColumn `json:"describe"`
	CloseHistory []MClosePoint     `json:"close_history"`
	Coverage     MCoverage         `json:"coverage"`
	FeatureRows  int               `json:"feature_rows"`
	Prediction   MPrediction       `json:"prediction"`
	Simulation   *MSimulation      `json:"simulation"`
	Narrative    []string          `json:"narrative"`
	Timings      MStageTimings     `json:"timings"`
	GeneratedAt  int64             `json:"generated_at"`
}

// MSessionCommand is what a dashboard sends over the websocket.
type MSessionCommand struct {
	Command string `json:"command"`
	Ticker  string `json:"ticker"`
}

// MSessionMessage is what the server sends back.
type MSessionMessage struct {
	Type   string            `json:"type"` // "REPORT" or "ERROR"
	Ticker string            `json:"ticker"`
	Report *MDashboardReport `json:"report,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type MCacheStats struct {
	Backend string `json:"backend"`
	Entries int    `json:"entries"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
}
