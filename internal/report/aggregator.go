package report

import (
	"sync"

	"dma-backtester/internal/types"
)

// Aggregator collects summary rows from concurrent symbol runs. Appends are
// serialized; the rows themselves are immutable once added. With a Writer
// attached, each row also lands in the consolidated CSV as it arrives.
type Aggregator struct {
	mu   sync.Mutex
	rows []types.SymbolSummary
	w    *Writer
}

func NewAggregator(w *Writer) *Aggregator {
	return &Aggregator{w: w}
}

func (a *Aggregator) Add(s types.SymbolSummary) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = append(a.rows, s)
	if a.w != nil {
		return a.w.AppendConsolidated(s)
	}
	return nil
}

// Rows returns a copy of the collected rows in arrival order.
func (a *Aggregator) Rows() []types.SymbolSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]types.SymbolSummary(nil), a.rows...)
}

// TotalProfitLoss sums realized P/L across all collected rows.
func (a *Aggregator) TotalProfitLoss() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	sum := 0.0
	for _, r := range a.rows {
		sum += r.TotalProfitLoss
	}
	return sum
}

// TotalUnrealized sums mark-to-market P/L of still-open positions.
func (a *Aggregator) TotalUnrealized() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	sum := 0.0
	for _, r := range a.rows {
		if r.UnrealizedPnL != nil {
			sum += *r.UnrealizedPnL
		}
	}
	return sum
}
