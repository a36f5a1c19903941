package types

import "time"

// Candle is one daily OHLCV bar.
type Candle struct {
	Date                   time.Time
	Open, High, Low, Close float64
	Volume                 float64
}

// TradeStatus marks a trade record as closed or still open at series end.
type TradeStatus string

const (
	StatusCompleted TradeStatus = "Completed"
	StatusHolding   TradeStatus = "Holding"
)

// TradeRecord is an immutable record emitted by the simulation engine: one
// per completed round trip, plus at most one Holding record if a position
// is still open when the series ends.
type TradeRecord struct {
	Symbol      string      `json:"symbol"`
	EntryDate   time.Time   `json:"entry_date"`
	ExitDate    time.Time   `json:"exit_date,omitempty"` // zero while holding
	HoldingDays int         `json:"holding_days"`
	EntryPrice  float64     `json:"entry_price"`
	ExitPrice   float64     `json:"exit_price"` // last close for holding records
	Quantity    float64     `json:"quantity"`
	ProfitLoss  float64     `json:"profit_loss"`
	AnnualGain  *float64    `json:"annual_gain_pct,omitempty"` // nil for holding or zero-duration trades
	Status      TradeStatus `json:"status"`
}

// HoldingMonths converts the holding duration to months using the fixed
// 30-day ratio. Duration in days is the single source of truth; months and
// year fractions are always derived from it.
func (t TradeRecord) HoldingMonths() float64 {
	return float64(t.HoldingDays) / 30.0
}

// SymbolSummary is one consolidated row per backtest run. It is recomputed
// fully from a symbol's trade records, never mutated incrementally.
type SymbolSummary struct {
	Symbol          string
	Period          string
	TotalProfitLoss float64
	UnrealizedPnL   *float64 // nil when no open position remains
	Entries         int      // completed trades, plus one if still holding
}
