package signal

import (
	"context"

	"AstroTradeBot/internal/models"
	"AstroTradeBot/pkg/logger"

	"go.uber.org/zap"
)

// Provider is an external signal source. A Provider may fail; the Analyzer
// never does.
type Provider interface {
	Analyze(ctx context.Context, candles []models.Candle, news []models.MarketNews, botCfg models.BotConfig) (models.SignalResult, error)
}

// Analyzer produces a trading recommendation from recent price history.
// Every failure path resolves to a valid SignalResult, so the position
// engine always receives a well-formed value.
type Analyzer struct {
	provider Provider
}

// NewAnalyzer creates an analyzer. A nil provider means only the local
// heuristic is used.
func NewAnalyzer(provider Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Analyze asks the external provider for a recommendation and substitutes
// the deterministic fallback heuristic on any failure.
func (a *Analyzer) Analyze(ctx context.Context, candles []models.Candle, news []models.MarketNews, botCfg models.BotConfig) models.SignalResult {
	if a.provider == nil {
		return FallbackSignal(candles)
	}

	result, err := a.provider.Analyze(ctx, candles, news, botCfg)
	if err != nil {
		logger.Warn("signal provider failed, using fallback", zap.Error(err))
		return FallbackSignal(candles)
	}

	return result
}
