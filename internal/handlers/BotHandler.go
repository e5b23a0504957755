package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"AstroTradeBot/internal/models"
	"AstroTradeBot/internal/operations/position"
	"AstroTradeBot/internal/repositories"
	"AstroTradeBot/internal/services/market"
	"AstroTradeBot/pkg/logger"

	"go.uber.org/zap"
)

// MarketAnalyzer produces a recommendation from recent price history. It
// never fails; upstream errors surface as fallback results.
type MarketAnalyzer interface {
	Analyze(ctx context.Context, candles []models.Candle, news []models.MarketNews, botCfg models.BotConfig) models.SignalResult
}

// BotHandler drives the two periodic loops: the market ticker, which always
// runs and enforces TP/SL, and the analysis loop, which only runs while the
// bot is started. State is persisted write-through after every mutation.
type BotHandler struct {
	simulator *market.Simulator
	analyzer  MarketAnalyzer
	executor  *position.PositionExecutor
	snapshots repositories.SnapshotRepository

	tickInterval time.Duration

	mu         sync.Mutex
	candles    []models.Candle
	running    bool
	stopSignal context.CancelFunc
}

func NewBotHandler(
	simulator *market.Simulator,
	analyzer MarketAnalyzer,
	executor *position.PositionExecutor,
	snapshots repositories.SnapshotRepository,
	tickInterval time.Duration,
) *BotHandler {
	if tickInterval <= 0 {
		tickInterval = 2 * time.Second
	}
	return &BotHandler{
		simulator:    simulator,
		analyzer:     analyzer,
		executor:     executor,
		snapshots:    snapshots,
		tickInterval: tickInterval,
	}
}

// Start seeds the candle window and launches the market loop. The market
// loop keeps running regardless of bot run state, so stop-loss and
// take-profit enforcement never pauses.
func (h *BotHandler) Start(ctx context.Context) error {
	h.mu.Lock()
	if len(h.candles) == 0 {
		h.candles = h.simulator.SeedHistory(models.CandleWindowSize)
	}
	h.mu.Unlock()

	go h.marketLoop(ctx)
	return nil
}

func (h *BotHandler) marketLoop(ctx context.Context) {
	ticker := time.NewTicker(h.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.onTick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (h *BotHandler) onTick(ctx context.Context) {
	h.mu.Lock()
	var last *models.Candle
	if len(h.candles) > 0 {
		last = &h.candles[len(h.candles)-1]
	}
	next := h.simulator.Next(last)
	h.candles = append(h.candles, next)
	if len(h.candles) > models.CandleWindowSize {
		h.candles = h.candles[len(h.candles)-models.CandleWindowSize:]
	}
	h.mu.Unlock()

	if closed := h.executor.OnPriceTick(next.Close); closed != nil {
		logger.Info("position closed on price tick",
			zap.String("trade", closed.ID),
			zap.String("reason", closed.CloseReason),
			zap.Float64("exit", next.Close),
			zap.Float64("pnl", closed.RealizedProfit))
		h.persist(ctx)
	}
}

// StartBot begins the analysis loop: one cycle immediately, then one per
// configured interval.
func (h *BotHandler) StartBot(ctx context.Context) error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return errors.New("bot already running")
	}
	signalCtx, cancel := context.WithCancel(ctx)
	h.running = true
	h.stopSignal = cancel
	h.mu.Unlock()

	logger.Info("bot started",
		zap.String("pair", h.executor.Config().Pair),
		zap.Int("ai_interval_seconds", h.executor.Config().AIIntervalSeconds))

	go h.signalLoop(signalCtx)
	return nil
}

// StopBot cancels the analysis loop only. Open positions are left alone;
// the market loop keeps enforcing their thresholds.
func (h *BotHandler) StopBot() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	h.running = false
	if h.stopSignal != nil {
		h.stopSignal()
		h.stopSignal = nil
	}
	logger.Info("bot stopped, open positions remain under TP/SL enforcement")
}

// Running reports whether the analysis loop is active.
func (h *BotHandler) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

func (h *BotHandler) signalLoop(ctx context.Context) {
	h.runAnalysis(ctx)

	interval := time.Duration(h.executor.Config().AIIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.runAnalysis(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// runAnalysis performs one full cycle: analyze the current window, archive
// the result, let the engine act on it at the current price, persist.
// Candles and price are re-read here, not captured at loop start, so the
// decision never runs against stale data.
func (h *BotHandler) runAnalysis(ctx context.Context) {
	candles := h.Candles()
	news := market.News(3)
	botCfg := h.executor.Config()

	result := h.analyzer.Analyze(ctx, candles, news, botCfg)
	h.executor.AppendLog(models.AnalysisLog{Time: time.Now(), Result: result})

	opened, closed := h.executor.OnSignal(result, h.simulator.LatestPrice())
	if opened != nil {
		logger.Info("position opened",
			zap.String("trade", opened.ID),
			zap.Float64("entry", opened.EntryPrice),
			zap.Float64("sl", opened.SLPrice),
			zap.Float64("tp", opened.TPPrice))
	}
	for _, trade := range closed {
		logger.Info("position closed on signal",
			zap.String("trade", trade.ID),
			zap.Float64("pnl", trade.RealizedProfit))
	}

	h.persist(ctx)
}

// ManualCloseAll closes every open trade at the latest price on explicit
// operator request.
func (h *BotHandler) ManualCloseAll(ctx context.Context) []models.Trade {
	closed := h.executor.ManualClose(h.simulator.LatestPrice())
	if len(closed) > 0 {
		h.persist(ctx)
	}
	return closed
}

// UpdateConfig replaces the bot settings. Settings are mutable only while
// the bot is stopped.
func (h *BotHandler) UpdateConfig(ctx context.Context, botCfg models.BotConfig) error {
	h.mu.Lock()
	running := h.running
	h.mu.Unlock()
	if running {
		return errors.New("cannot change config while bot is running")
	}
	if err := h.executor.SetConfig(botCfg); err != nil {
		return err
	}
	h.persist(ctx)
	return nil
}

// Candles returns a copy of the current candle window, oldest first.
func (h *BotHandler) Candles() []models.Candle {
	h.mu.Lock()
	defer h.mu.Unlock()
	candles := make([]models.Candle, len(h.candles))
	copy(candles, h.candles)
	return candles
}

// persist saves a full snapshot write-through. Failures are logged and
// swallowed; the engine continues in-memory for that cycle.
func (h *BotHandler) persist(ctx context.Context) {
	if err := h.snapshots.Save(ctx, h.executor.Snapshot()); err != nil {
		logger.Error("snapshot save failed, continuing in-memory", zap.Error(err))
	}
}
