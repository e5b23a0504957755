package models

import "errors"

// BotConfig holds the per-bot trading settings. It is mutable only while
// the bot is stopped and travels with every state snapshot.
type BotConfig struct {
	APIKey    string `json:"apiKey"`
	APISecret string `json:"apiSecret"`

	Pair              string  `json:"pair"`
	AmountPerTrade    float64 `json:"amountPerTrade"`
	RiskTolerance     string  `json:"riskTolerance"`
	AIIntervalSeconds int     `json:"aiInterval"`
	StopLossPct       float64 `json:"stopLoss"`
	TakeProfitPct     float64 `json:"takeProfit"`
	TradingMode       string  `json:"tradingMode"`
}

const (
	RiskToleranceConservative = "conservative"
	RiskToleranceAggressive   = "aggressive"

	TradingModePaper = "paper"
	TradingModeLive  = "live"
)

// DefaultBotConfig mirrors the settings a fresh session starts with.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		Pair:              "BTC/USDT",
		AmountPerTrade:    100,
		RiskTolerance:     RiskToleranceAggressive,
		AIIntervalSeconds: 10,
		StopLossPct:       2,
		TakeProfitPct:     5,
		TradingMode:       TradingModePaper,
	}
}

// Validate rejects out-of-range amounts and percentages at the boundary.
// Bounds keep the SL/TP multipliers strictly positive and below doubling.
func (c *BotConfig) Validate() error {
	if c.Pair == "" {
		return errors.New("trading pair is required")
	}
	if c.AmountPerTrade <= 0 {
		return errors.New("amount per trade must be positive")
	}
	if c.StopLossPct <= 0 || c.StopLossPct > 50 {
		return errors.New("stop loss percent must be in (0, 50]")
	}
	if c.TakeProfitPct <= 0 || c.TakeProfitPct > 100 {
		return errors.New("take profit percent must be in (0, 100]")
	}
	if c.AIIntervalSeconds < 1 {
		return errors.New("ai interval must be at least 1 second")
	}
	if c.RiskTolerance != RiskToleranceConservative && c.RiskTolerance != RiskToleranceAggressive {
		return errors.New("risk tolerance must be conservative or aggressive")
	}
	if c.TradingMode != TradingModePaper && c.TradingMode != TradingModeLive {
		return errors.New("trading mode must be paper or live")
	}
	return nil
}
