package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"dma-backtester/internal/ta"
)

// Strategy decides entries and exits from a single indicator frame. Both
// predicates must return false when any required indicator is undefined.
type Strategy interface {
	Name() string
	// Windows lists the moving-average windows the strategy needs, ascending.
	Windows() []int
	// MinWindow is the rolling-minimum window, 0 when the strategy has none.
	MinWindow() int
	// Warmup is the first index at which signals may fire.
	Warmup() int
	Buy(f ta.Frame) bool
	Sell(f ta.Frame, entryPrice float64) bool
}

// StackedDMA is the strict crossover strategy: buy when the close sits below
// a strictly ascending chain of moving averages (shortest to longest), sell
// on the mirrored chain provided the sale is not below the entry price.
type StackedDMA struct {
	windows []int
}

func NewStackedDMA(windows ...int) (*StackedDMA, error) {
	if len(windows) == 0 {
		return nil, errors.New("stacked dma: at least one window required")
	}
	ws := append([]int(nil), windows...)
	sort.Ints(ws)
	for i, w := range ws {
		if w <= 0 {
			return nil, fmt.Errorf("stacked dma: window must be positive, got %d", w)
		}
		if i > 0 && ws[i-1] == w {
			return nil, fmt.Errorf("stacked dma: duplicate window %d", w)
		}
	}
	return &StackedDMA{windows: ws}, nil
}

func (s *StackedDMA) Name() string   { return "STACKED_DMA" }
func (s *StackedDMA) Windows() []int { return s.windows }
func (s *StackedDMA) MinWindow() int { return 0 }

func (s *StackedDMA) Warmup() int { return s.windows[len(s.windows)-1] }

// Buy: close < MA[w1] < MA[w2] < ... < MA[wk], strict at every link.
func (s *StackedDMA) Buy(f ta.Frame) bool {
	prev := f.Close
	if math.IsNaN(prev) {
		return false
	}
	for _, w := range s.windows {
		m := f.SMA[w]
		if math.IsNaN(m) || !(prev < m) {
			return false
		}
		prev = m
	}
	return true
}

// Sell: MA[wk] < ... < MA[w1] < close, and never below the entry price.
func (s *StackedDMA) Sell(f ta.Frame, entryPrice float64) bool {
	if math.IsNaN(f.Close) || f.Close <= entryPrice {
		return false
	}
	prev := f.SMA[s.windows[len(s.windows)-1]]
	if math.IsNaN(prev) {
		return false
	}
	for i := len(s.windows) - 2; i >= 0; i-- {
		m := f.SMA[s.windows[i]]
		if math.IsNaN(m) || !(prev < m) {
			return false
		}
		prev = m
	}
	return prev < f.Close
}

// MeanReversion buys when the close drops below the midpoint of the trailing
// average and trailing minimum, and sells once the close exceeds the average
// scaled by the profit target. target 0 sells on any close above the
// average. The no-loss guard does not apply to this variant.
type MeanReversion struct {
	window    int
	targetPct float64
}

func NewMeanReversion(window int, targetPct float64) (*MeanReversion, error) {
	if window <= 0 {
		return nil, fmt.Errorf("mean reversion: window must be positive, got %d", window)
	}
	if targetPct < 0 {
		return nil, fmt.Errorf("mean reversion: target percent must not be negative, got %.2f", targetPct)
	}
	return &MeanReversion{window: window, targetPct: targetPct}, nil
}

func (s *MeanReversion) Name() string   { return "MEAN_REVERSION" }
func (s *MeanReversion) Windows() []int { return []int{s.window} }
func (s *MeanReversion) MinWindow() int { return s.window }

// Warmup is window-1: this variant trades on the first bar where the
// average and minimum are defined.
func (s *MeanReversion) Warmup() int { return s.window - 1 }

func (s *MeanReversion) Buy(f ta.Frame) bool {
	avg := f.SMA[s.window]
	if math.IsNaN(f.Close) || math.IsNaN(avg) || math.IsNaN(f.Min) {
		return false
	}
	return f.Close < (avg+f.Min)/2
}

func (s *MeanReversion) Sell(f ta.Frame, _ float64) bool {
	avg := f.SMA[s.window]
	if math.IsNaN(f.Close) || math.IsNaN(avg) {
		return false
	}
	return f.Close > avg*(1+s.targetPct/100)
}
