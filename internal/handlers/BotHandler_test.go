package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"AstroTradeBot/internal/models"
	"AstroTradeBot/internal/operations/position"
	"AstroTradeBot/internal/services/market"
)

// memorySnapshotRepository keeps the last saved snapshot in memory.
type memorySnapshotRepository struct {
	mu        sync.Mutex
	saved     *models.Snapshot
	saveCount int
	failSave  bool
}

func (m *memorySnapshotRepository) Save(ctx context.Context, snap *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("store unavailable")
	}
	m.saved = snap
	m.saveCount++
	return nil
}

func (m *memorySnapshotRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved, nil
}

func (m *memorySnapshotRepository) Close() error { return nil }

func (m *memorySnapshotRepository) saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCount
}

// fixedAnalyzer always returns the same recommendation.
type fixedAnalyzer struct {
	result models.SignalResult
}

func (f *fixedAnalyzer) Analyze(ctx context.Context, candles []models.Candle, news []models.MarketNews, botCfg models.BotConfig) models.SignalResult {
	return f.result
}

func newTestHandler(analyzer MarketAnalyzer, repo *memorySnapshotRepository) (*BotHandler, *position.PositionExecutor) {
	cfg := models.DefaultBotConfig()
	executor := position.NewPositionExecutor(cfg)
	simulator := market.NewSimulator(market.DefaultSimulatorConfig())
	handler := NewBotHandler(simulator, analyzer, executor, repo, 2*time.Second)
	return handler, executor
}

func buyResult(confidence float64) models.SignalResult {
	return models.SignalResult{
		Action:     models.SignalActionBuy,
		Confidence: confidence,
		Reasoning:  "test",
		RiskLevel:  models.RiskLevelMedium,
	}
}

func TestOnTickSlidesWindow(t *testing.T) {
	repo := &memorySnapshotRepository{}
	h, _ := newTestHandler(&fixedAnalyzer{}, repo)

	ctx := context.Background()
	for i := 0; i < models.CandleWindowSize+5; i++ {
		h.onTick(ctx)
	}

	candles := h.Candles()
	if len(candles) != models.CandleWindowSize {
		t.Fatalf("expected window of %d, got %d", models.CandleWindowSize, len(candles))
	}
	for i := 1; i < len(candles); i++ {
		if candles[i].Open != candles[i-1].Close {
			t.Fatalf("window not continuous at %d", i)
		}
	}
}

func TestRunAnalysisOpensTradeAndPersists(t *testing.T) {
	repo := &memorySnapshotRepository{}
	h, executor := newTestHandler(&fixedAnalyzer{result: buyResult(90)}, repo)

	h.runAnalysis(context.Background())

	trade := executor.OpenTrade()
	if trade == nil {
		t.Fatal("expected an open trade")
	}
	if trade.EntryPrice != h.simulator.LatestPrice() {
		t.Errorf("expected entry at latest price %f, got %f", h.simulator.LatestPrice(), trade.EntryPrice)
	}

	if repo.saves() == 0 {
		t.Error("expected a write-through save")
	}
	if logs := executor.Logs(); len(logs) != 1 {
		t.Errorf("expected the result to be archived, got %d logs", len(logs))
	}
}

func TestRunAnalysisHoldChangesNothing(t *testing.T) {
	repo := &memorySnapshotRepository{}
	hold := models.SignalResult{Action: models.SignalActionHold, Confidence: 95, RiskLevel: models.RiskLevelLow}
	h, executor := newTestHandler(&fixedAnalyzer{result: hold}, repo)

	h.runAnalysis(context.Background())

	if executor.OpenTrade() != nil {
		t.Fatal("HOLD must not open a trade")
	}
	// The cycle is still archived and persisted
	if len(executor.Logs()) != 1 {
		t.Error("expected the HOLD result to be archived")
	}
	if repo.saves() == 0 {
		t.Error("expected a write-through save")
	}
}

func TestStartStopBot(t *testing.T) {
	repo := &memorySnapshotRepository{}
	h, executor := newTestHandler(&fixedAnalyzer{result: buyResult(90)}, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := h.StartBot(ctx); err != nil {
		t.Fatalf("StartBot: %v", err)
	}
	if !h.Running() {
		t.Fatal("expected running state")
	}
	if err := h.StartBot(ctx); err == nil {
		t.Fatal("second StartBot must fail")
	}

	// The immediate analysis cycle opens a position
	deadline := time.After(2 * time.Second)
	for executor.OpenTrade() == nil {
		select {
		case <-deadline:
			t.Fatal("analysis cycle did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}

	h.StopBot()
	if h.Running() {
		t.Fatal("expected stopped state")
	}

	// Stopping the bot does not close positions
	if executor.OpenTrade() == nil {
		t.Fatal("open position must survive bot stop")
	}
}

func TestManualCloseAll(t *testing.T) {
	repo := &memorySnapshotRepository{}
	h, executor := newTestHandler(&fixedAnalyzer{result: buyResult(90)}, repo)

	ctx := context.Background()
	h.runAnalysis(ctx)
	if executor.OpenTrade() == nil {
		t.Fatal("expected an open trade")
	}

	closed := h.ManualCloseAll(ctx)
	if len(closed) != 1 {
		t.Fatalf("expected 1 closed trade, got %d", len(closed))
	}
	if closed[0].CloseReason != models.CloseReasonManual {
		t.Errorf("expected reason MANUAL, got %s", closed[0].CloseReason)
	}
	if executor.OpenTrade() != nil {
		t.Error("expected no open trades")
	}
}

func TestUpdateConfigOnlyWhileStopped(t *testing.T) {
	repo := &memorySnapshotRepository{}
	h, executor := newTestHandler(&fixedAnalyzer{}, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := h.StartBot(ctx); err != nil {
		t.Fatalf("StartBot: %v", err)
	}

	cfg := models.DefaultBotConfig()
	cfg.AmountPerTrade = 500
	if err := h.UpdateConfig(ctx, cfg); err == nil {
		t.Fatal("expected config change to be rejected while running")
	}

	h.StopBot()
	if err := h.UpdateConfig(ctx, cfg); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if executor.Config().AmountPerTrade != 500 {
		t.Error("expected config to update")
	}

	invalid := cfg
	invalid.StopLossPct = -1
	if err := h.UpdateConfig(ctx, invalid); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}
}

func TestStartBotSurvivesCorruptRestoredInterval(t *testing.T) {
	repo := &memorySnapshotRepository{}
	h, executor := newTestHandler(&fixedAnalyzer{result: buyResult(90)}, repo)

	snap := executor.Snapshot()
	snap.Config.AIIntervalSeconds = 0
	executor.Restore(snap)

	// The corrupt interval never reaches the ticker
	if executor.Config().AIIntervalSeconds < 1 {
		t.Fatalf("expected a usable interval, got %d", executor.Config().AIIntervalSeconds)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := h.StartBot(ctx); err != nil {
		t.Fatalf("StartBot: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for executor.OpenTrade() == nil {
		select {
		case <-deadline:
			t.Fatal("signal loop did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}
	h.StopBot()
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	repo := &memorySnapshotRepository{failSave: true}
	h, executor := newTestHandler(&fixedAnalyzer{result: buyResult(90)}, repo)

	// A failing store must not break the cycle; state stays in memory
	h.runAnalysis(context.Background())

	if executor.OpenTrade() == nil {
		t.Fatal("engine must keep operating in-memory when saves fail")
	}
}
