package models

import "time"

// Candle is a single simulated OHLCV sample. Immutable once produced.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// CandleWindowSize is the fixed length of the sliding candle window
// retained for charting and analysis.
const CandleWindowSize = 20
