package engine

import (
	"fmt"

	"dma-backtester/internal/store"
)

// NewFromConfig builds the engine with the strategy variant the config
// selects.
func NewFromConfig(cfg *store.Config) (*Engine, error) {
	var (
		strat Strategy
		err   error
	)
	switch cfg.Strategy.Variant {
	case "MEAN_REVERSION":
		strat, err = NewMeanReversion(cfg.Strategy.Window, cfg.Strategy.TargetPct)
	case "STACKED_DMA":
		strat, err = NewStackedDMA(cfg.Strategy.Windows...)
	default:
		return nil, fmt.Errorf("unknown strategy variant %s", cfg.Strategy.Variant)
	}
	if err != nil {
		return nil, err
	}
	return New(strat, cfg.Investment)
}
