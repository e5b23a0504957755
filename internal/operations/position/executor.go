package position

import (
	"sync"
	"time"

	"AstroTradeBot/internal/models"
	"AstroTradeBot/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// confidenceThreshold gates signal execution: only recommendations strictly
// above it open or close positions.
const confidenceThreshold = 70

// PositionExecutor owns the trade history, the account ledger and the
// analysis log. It performs no I/O and cannot fail internally; timer
// goroutines share it behind the mutex, and every decision reads current
// state at the point of decision.
//
// Positions are long-only: a SELL signal closes, it never opens a short.
// At most one trade is OPEN at any instant.
type PositionExecutor struct {
	mu sync.Mutex

	config  models.BotConfig
	trades  []models.Trade
	logs    []models.AnalysisLog
	balance float64
	profit  float64
}

func NewPositionExecutor(config models.BotConfig) *PositionExecutor {
	return &PositionExecutor{
		config:  config,
		trades:  make([]models.Trade, 0),
		logs:    make([]models.AnalysisLog, 0),
		balance: models.InitialBalance,
	}
}

// OnPriceTick checks the open trade against the new price and closes it on
// a threshold breach. Stop-loss is checked before take-profit; at most one
// of the two fires per tick. Returns the closed trade, or nil.
func (e *PositionExecutor) OnPriceTick(price float64) *models.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.openTradeIndex()
	if idx < 0 {
		return nil
	}

	trade := &e.trades[idx]
	if trade.Side != models.TradeSideBuy {
		return nil
	}

	switch {
	case price <= trade.SLPrice:
		e.closeTradeLocked(idx, price, models.CloseReasonStopLoss)
	case price >= trade.TPPrice:
		e.closeTradeLocked(idx, price, models.CloseReasonTakeProfit)
	default:
		return nil
	}

	closed := e.trades[idx]
	return &closed
}

// OnSignal applies a recommendation at the given price. BUY opens a trade
// unless one is already open (a no-op, not an error); SELL closes all open
// trades with reason SIGNAL; HOLD and low-confidence results change nothing.
func (e *PositionExecutor) OnSignal(result models.SignalResult, price float64) (opened *models.Trade, closed []models.Trade) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if result.Confidence <= confidenceThreshold {
		return nil, nil
	}

	switch result.Action {
	case models.SignalActionBuy:
		opened = e.openTradeLocked(price)
	case models.SignalActionSell:
		closed = e.closeAllLocked(price, models.CloseReasonSignal)
	}
	return opened, closed
}

// ManualClose closes all open trades at the given price with reason MANUAL.
// Stopping the bot does not call this; it exists for explicit operator
// action.
func (e *PositionExecutor) ManualClose(price float64) []models.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closeAllLocked(price, models.CloseReasonManual)
}

// AppendLog archives an analysis result, newest first, keeping the
// most-recent entries up to the cap.
func (e *PositionExecutor) AppendLog(entry models.AnalysisLog) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.logs = append([]models.AnalysisLog{entry}, e.logs...)
	if len(e.logs) > models.AnalysisLogCap {
		e.logs = e.logs[:models.AnalysisLogCap]
	}
}

// SetConfig replaces the trading settings. The handler only calls this
// while the bot is stopped.
func (e *PositionExecutor) SetConfig(config models.BotConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = config
	return nil
}

func (e *PositionExecutor) Config() models.BotConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

func (e *PositionExecutor) Balance() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

func (e *PositionExecutor) Profit() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profit
}

// OpenTrade returns a copy of the currently open trade, or nil.
func (e *PositionExecutor) OpenTrade() *models.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.openTradeIndex()
	if idx < 0 {
		return nil
	}
	trade := e.trades[idx]
	return &trade
}

// Trades returns a copy of the full trade history.
func (e *PositionExecutor) Trades() []models.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	trades := make([]models.Trade, len(e.trades))
	copy(trades, e.trades)
	return trades
}

// Logs returns a copy of the analysis log, newest first.
func (e *PositionExecutor) Logs() []models.AnalysisLog {
	e.mu.Lock()
	defer e.mu.Unlock()

	logs := make([]models.AnalysisLog, len(e.logs))
	copy(logs, e.logs)
	return logs
}

// Snapshot exports the full engine state for persistence.
func (e *PositionExecutor) Snapshot() *models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := &models.Snapshot{
		Config:  e.config,
		Trades:  make([]models.Trade, len(e.trades)),
		Logs:    make([]models.AnalysisLog, len(e.logs)),
		Balance: e.balance,
		Profit:  e.profit,
	}
	copy(snap.Trades, e.trades)
	copy(snap.Logs, e.logs)
	return snap
}

// Restore replaces engine state from a persisted snapshot. A snapshot
// carrying an out-of-range config keeps the current settings so a corrupt
// store row cannot reach the timers.
func (e *PositionExecutor) Restore(snap *models.Snapshot) {
	if snap == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := snap.Config.Validate(); err != nil {
		logger.Warn("restored config invalid, keeping current settings", zap.Error(err))
	} else {
		e.config = snap.Config
	}
	e.trades = make([]models.Trade, len(snap.Trades))
	copy(e.trades, snap.Trades)
	e.logs = make([]models.AnalysisLog, len(snap.Logs))
	copy(e.logs, snap.Logs)
	e.balance = snap.Balance
	e.profit = snap.Profit
}

func (e *PositionExecutor) openTradeIndex() int {
	for i := range e.trades {
		if e.trades[i].IsOpen() {
			return i
		}
	}
	return -1
}

func (e *PositionExecutor) openTradeLocked(price float64) *models.Trade {
	// Single-position policy: an entry while a trade is open is a no-op.
	if e.openTradeIndex() >= 0 {
		return nil
	}

	trade := models.Trade{
		ID:         uuid.NewString(),
		Symbol:     e.config.Pair,
		Side:       models.TradeSideBuy,
		EntryPrice: price,
		Amount:     e.config.AmountPerTrade,
		OpenedAt:   time.Now(),
		Status:     models.TradeStatusOpen,
		SLPrice:    price * (1 - e.config.StopLossPct/100),
		TPPrice:    price * (1 + e.config.TakeProfitPct/100),
	}
	e.trades = append(e.trades, trade)

	opened := trade
	return &opened
}

func (e *PositionExecutor) closeAllLocked(price float64, reason string) []models.Trade {
	var closed []models.Trade
	for i := range e.trades {
		if !e.trades[i].IsOpen() {
			continue
		}
		e.closeTradeLocked(i, price, reason)
		closed = append(closed, e.trades[i])
	}
	return closed
}

// closeTradeLocked transitions the trade to CLOSED and applies the realized
// PnL to both balance and cumulative profit. The quote-denominated amount is
// converted to a base-asset-equivalent return.
func (e *PositionExecutor) closeTradeLocked(idx int, exitPrice float64, reason string) {
	trade := &e.trades[idx]

	pnl := (exitPrice - trade.EntryPrice) * (trade.Amount / trade.EntryPrice)

	trade.Status = models.TradeStatusClosed
	trade.CloseReason = reason
	trade.RealizedProfit = pnl
	trade.ClosedAt = time.Now()

	e.balance += pnl
	e.profit += pnl
}
