// Package recorder persists backtest runs for later querying.
package recorder

import (
	"dma-backtester/internal/types"
)

// Recorder stores one run's summary and its trade records.
type Recorder interface {
	RecordRun(summary types.SymbolSummary, trades []types.TradeRecord) error
	Close() error
}
