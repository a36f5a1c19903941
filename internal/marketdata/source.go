// Package marketdata fetches daily price history from external providers.
// The simulation core only consumes the ordered candle slice; everything
// here is the data-retrieval collaborator around it.
package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dma-backtester/internal/types"
)

// Source fetches daily bars for one symbol over a date range, ordered by
// strictly increasing date.
type Source interface {
	Name() string
	Daily(ctx context.Context, symbol string, from, to time.Time) ([]types.Candle, error)
}

// sortCandles orders bars ascending by date; providers do not all guarantee
// order.
func sortCandles(cs []types.Candle) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Date.Before(cs[j].Date) })
}

// ErrNoData is returned when a provider has no bars for the requested range.
type ErrNoData struct {
	Symbol string
}

func (e ErrNoData) Error() string {
	return fmt.Sprintf("no price data for %s", e.Symbol)
}
