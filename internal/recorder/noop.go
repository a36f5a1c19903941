package recorder

import "dma-backtester/internal/types"

// NoopRecorder is used when SQLite persistence is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ types.SymbolSummary, _ []types.TradeRecord) error { return nil }
func (n *NoopRecorder) Close() error                                                 { return nil }
