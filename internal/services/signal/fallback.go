package signal

import "AstroTradeBot/internal/models"

const (
	fallbackBreakoutConfidence = 75
	fallbackHoldConfidence     = 30
)

// FallbackSignal is the deterministic local heuristic used whenever the
// external provider is unavailable or misbehaves: a close above the previous
// candle's high is a breakout BUY, a close below the previous low a
// breakdown SELL, anything else HOLD.
func FallbackSignal(candles []models.Candle) models.SignalResult {
	if len(candles) < 2 {
		return models.SignalResult{
			Action:     models.SignalActionHold,
			Confidence: 0,
			Reasoning:  "Fallback heuristic: not enough price history.",
			RiskLevel:  models.RiskLevelLow,
		}
	}

	latest := candles[len(candles)-1]
	prev := candles[len(candles)-2]

	switch {
	case latest.Close > prev.High:
		return models.SignalResult{
			Action:     models.SignalActionBuy,
			Confidence: fallbackBreakoutConfidence,
			Reasoning:  "Fallback heuristic: close broke above previous high.",
			RiskLevel:  models.RiskLevelMedium,
		}
	case latest.Close < prev.Low:
		return models.SignalResult{
			Action:     models.SignalActionSell,
			Confidence: fallbackBreakoutConfidence,
			Reasoning:  "Fallback heuristic: close broke below previous low.",
			RiskLevel:  models.RiskLevelMedium,
		}
	default:
		return models.SignalResult{
			Action:     models.SignalActionHold,
			Confidence: fallbackHoldConfidence,
			Reasoning:  "Fallback heuristic: price inside previous range.",
			RiskLevel:  models.RiskLevelLow,
		}
	}
}
