package engine

import (
	"testing"

	"dma-backtester/internal/store"
)

func TestNewFromConfig(t *testing.T) {
	cfg := &store.Config{Investment: 100000}
	cfg.Strategy.Variant = "STACKED_DMA"
	cfg.Strategy.Windows = []int{20, 50, 100, 200}

	eng, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if got := eng.strat.Name(); got != "STACKED_DMA" {
		t.Errorf("expected STACKED_DMA strategy, got %q", got)
	}
	if eng.strat.Warmup() != 200 {
		t.Errorf("expected warm-up 200, got %d", eng.strat.Warmup())
	}

	cfg.Strategy.Variant = "MEAN_REVERSION"
	cfg.Strategy.Window = 20
	cfg.Strategy.TargetPct = 5
	eng, err = NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if got := eng.strat.Name(); got != "MEAN_REVERSION" {
		t.Errorf("expected MEAN_REVERSION strategy, got %q", got)
	}

	cfg.Strategy.Variant = "MOMENTUM"
	if _, err := NewFromConfig(cfg); err == nil {
		t.Error("expected error for unknown variant")
	}
}
