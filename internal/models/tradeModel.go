package models

import "time"

// Trade is a simulated position. Status only ever moves OPEN -> CLOSED;
// trades are appended to history and never deleted.
type Trade struct {
	ID         string  `json:"id"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	EntryPrice float64 `json:"entryPrice"`
	// Amount is denominated in quote currency (USDT), sized to the
	// configured amount per trade.
	Amount   float64   `json:"amount"`
	OpenedAt time.Time `json:"openedAt"`
	Status   string    `json:"status"`

	SLPrice float64 `json:"slPrice,omitempty"`
	TPPrice float64 `json:"tpPrice,omitempty"`

	RealizedProfit float64   `json:"realizedProfit,omitempty"`
	CloseReason    string    `json:"closeReason,omitempty"`
	ClosedAt       time.Time `json:"closedAt,omitempty"`
}

const (
	TradeStatusOpen   = "OPEN"
	TradeStatusClosed = "CLOSED"

	TradeSideBuy  = "BUY"
	TradeSideSell = "SELL"

	CloseReasonTakeProfit = "TP"
	CloseReasonStopLoss   = "SL"
	CloseReasonSignal     = "SIGNAL"
	CloseReasonManual     = "MANUAL"
)

// IsOpen reports whether the trade still holds a position.
func (t *Trade) IsOpen() bool {
	return t.Status == TradeStatusOpen
}
