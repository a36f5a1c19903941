// Package engine walks an indicator-augmented daily price series through a
// two-state machine (FLAT, LONG) and emits a trade ledger.
package engine

import (
	"context"
	"errors"
	"math"

	"dma-backtester/internal/ledger"
	"dma-backtester/internal/logger"
	"dma-backtester/internal/ta"
	"dma-backtester/internal/tradelog"
	"dma-backtester/internal/types"
)

// Engine is the single-position backtest simulator. It is stateless between
// runs; each Run owns its position and ledger for the duration of one walk.
type Engine struct {
	strat      Strategy
	investment float64
}

func New(strat Strategy, investment float64) (*Engine, error) {
	if strat == nil {
		return nil, errors.New("engine: strategy required")
	}
	if investment <= 0 {
		return nil, errors.New("engine: investment must be positive")
	}
	return &Engine{strat: strat, investment: investment}, nil
}

// Run simulates the strategy over the candles and returns the trade ledger.
// A series shorter than the warm-up window yields an empty ledger. Bars with
// NaN closes are skipped for signal evaluation; neither transition fires on
// them.
func (e *Engine) Run(ctx context.Context, symbol string, candles []types.Candle) (*ledger.Ledger, error) {
	led := ledger.New(symbol)
	if len(candles) == 0 {
		logger.Debug(ctx, "Empty price series", "symbol", symbol)
		return led, nil
	}

	frames := ta.Frames(candles, e.strat.Windows(), e.strat.MinWindow())
	logger.Debug(ctx, "Indicators computed",
		"symbol", symbol,
		"bars", len(frames),
		"strategy", e.strat.Name(),
		"warmup", e.strat.Warmup(),
	)

	var open *position
	for i := e.strat.Warmup(); i < len(frames); i++ {
		f := frames[i]
		if math.IsNaN(f.Close) {
			continue
		}

		if open == nil {
			if e.strat.Buy(f) {
				open = &position{
					entryDate:  f.Date,
					entryPrice: f.Close,
					qty:        e.investment / f.Close,
				}
				logger.Trade(ctx, symbol, "BUY", open.qty, f.Close, "date", f.Date.Format("2006-01-02"))
				_ = tradelog.Append(tradelog.Entry{
					Symbol: symbol, Side: "BUY", Strategy: e.strat.Name(),
					TradeDate: f.Date.Format("2006-01-02"), Price: f.Close, Qty: open.qty,
				})
			}
			continue
		}

		// Only indices after the entry index reach this point, so a buy and
		// a sell can never both fire on the same bar.
		if e.strat.Sell(f, open.entryPrice) {
			rec := open.closeOut(symbol, f.Date, f.Close, e.investment)
			led.Append(rec)
			logger.Trade(ctx, symbol, "SELL", rec.Quantity, f.Close,
				"date", f.Date.Format("2006-01-02"),
				"profit_loss", rec.ProfitLoss,
				"holding_days", rec.HoldingDays,
			)
			_ = tradelog.Append(tradelog.Entry{
				Symbol: symbol, Side: "SELL", Strategy: e.strat.Name(),
				TradeDate: f.Date.Format("2006-01-02"), Price: f.Close, Qty: rec.Quantity,
				ProfitLoss: rec.ProfitLoss,
			})
			open = nil
		}
	}

	// Forced valuation at series end: not a sale, reporting only.
	if open != nil {
		if last, ok := lastValid(frames); ok {
			rec := open.markToMarket(symbol, last.Date, last.Close)
			led.Append(rec)
			logger.Info(ctx, "Still holding at series end",
				"symbol", symbol,
				"entry_date", rec.EntryDate.Format("2006-01-02"),
				"last_close", last.Close,
				"unrealized_pnl", rec.ProfitLoss,
			)
			_ = tradelog.Append(tradelog.Entry{
				Symbol: symbol, Side: "HOLD", Strategy: e.strat.Name(),
				TradeDate: last.Date.Format("2006-01-02"), Price: last.Close, Qty: rec.Quantity,
				ProfitLoss: rec.ProfitLoss,
			})
		}
	}

	return led, nil
}

// lastValid returns the most recent frame whose close is defined.
func lastValid(frames []ta.Frame) (ta.Frame, bool) {
	for i := len(frames) - 1; i >= 0; i-- {
		if !math.IsNaN(frames[i].Close) {
			return frames[i], true
		}
	}
	return ta.Frame{}, false
}
