package models

import "time"

// SignalResult is a trading recommendation produced by an analysis cycle.
type SignalResult struct {
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	RiskLevel  string  `json:"riskLevel"`
}

const (
	SignalActionBuy  = "BUY"
	SignalActionSell = "SELL"
	SignalActionHold = "HOLD"

	RiskLevelLow    = "LOW"
	RiskLevelMedium = "MEDIUM"
	RiskLevelHigh   = "HIGH"
)

// ValidAction reports whether the action is one of BUY, SELL or HOLD.
func ValidAction(action string) bool {
	switch action {
	case SignalActionBuy, SignalActionSell, SignalActionHold:
		return true
	}
	return false
}

// ValidRiskLevel reports whether the risk level is one of LOW, MEDIUM or HIGH.
func ValidRiskLevel(level string) bool {
	switch level {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	}
	return false
}

// AnalysisLog archives one analysis cycle's result.
type AnalysisLog struct {
	Time   time.Time    `json:"time"`
	Result SignalResult `json:"result"`
}

// AnalysisLogCap is the number of most-recent analysis entries retained.
const AnalysisLogCap = 50

// MarketNews is a single headline fed into the analysis prompt.
type MarketNews struct {
	ID        string    `json:"id"`
	Headline  string    `json:"headline"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}
