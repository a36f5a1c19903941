// Package ledger accumulates the trade records emitted by one symbol's walk.
package ledger

import "dma-backtester/internal/types"

// Ledger holds trade records in emission order (chronological, since the
// engine only evaluates forward). Records are read-only once appended.
type Ledger struct {
	symbol  string
	records []types.TradeRecord
}

func New(symbol string) *Ledger {
	return &Ledger{symbol: symbol}
}

func (l *Ledger) Symbol() string { return l.symbol }

func (l *Ledger) Append(r types.TradeRecord) {
	l.records = append(l.records, r)
}

// Records returns the ordered trade records.
func (l *Ledger) Records() []types.TradeRecord { return l.records }

// CompletedCount is the number of closed round trips.
func (l *Ledger) CompletedCount() int {
	n := 0
	for _, r := range l.records {
		if r.Status == types.StatusCompleted {
			n++
		}
	}
	return n
}

// TotalProfitLoss sums realized profit/loss over completed records only.
func (l *Ledger) TotalProfitLoss() float64 {
	sum := 0.0
	for _, r := range l.records {
		if r.Status == types.StatusCompleted {
			sum += r.ProfitLoss
		}
	}
	return sum
}

// OpenRecord returns the holding record, if the series ended with an open
// position. A ledger with zero records and one with a single open record
// are both valid outcomes.
func (l *Ledger) OpenRecord() (types.TradeRecord, bool) {
	for _, r := range l.records {
		if r.Status == types.StatusHolding {
			return r, true
		}
	}
	return types.TradeRecord{}, false
}

// UnrealizedPnL reports the mark-to-market P/L of the open position.
func (l *Ledger) UnrealizedPnL() (float64, bool) {
	r, ok := l.OpenRecord()
	if !ok {
		return 0, false
	}
	return r.ProfitLoss, true
}
