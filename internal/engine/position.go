package engine

import (
	"math"
	"time"

	"dma-backtester/internal/types"
)

// position is the single open position during a walk. The engine owns
// exactly one of these while in the LONG state and none while FLAT.
type position struct {
	entryDate  time.Time
	entryPrice float64
	qty        float64
}

// closeOut builds the completed record for a sale at the given bar.
func (p *position) closeOut(symbol string, exitDate time.Time, exitPrice, investment float64) types.TradeRecord {
	days := calendarDays(p.entryDate, exitDate)
	r := types.TradeRecord{
		Symbol:      symbol,
		EntryDate:   p.entryDate,
		ExitDate:    exitDate,
		HoldingDays: days,
		EntryPrice:  p.entryPrice,
		ExitPrice:   exitPrice,
		Quantity:    p.qty,
		ProfitLoss:  p.qty * (exitPrice - p.entryPrice),
		Status:      types.StatusCompleted,
	}
	if days > 0 {
		g := annualGainPct(p.qty*exitPrice, investment, days)
		r.AnnualGain = &g
	}
	return r
}

// markToMarket builds the holding record for a position still open at the
// end of the series. No exit date and no annualized gain are set.
func (p *position) markToMarket(symbol string, lastDate time.Time, lastClose float64) types.TradeRecord {
	return types.TradeRecord{
		Symbol:      symbol,
		EntryDate:   p.entryDate,
		HoldingDays: calendarDays(p.entryDate, lastDate),
		EntryPrice:  p.entryPrice,
		ExitPrice:   lastClose,
		Quantity:    p.qty,
		ProfitLoss:  p.qty * (lastClose - p.entryPrice),
		Status:      types.StatusHolding,
	}
}

func calendarDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// annualGainPct compounds the realized multiple over the 365-day year
// fraction implied by the holding duration.
func annualGainPct(proceeds, investment float64, days int) float64 {
	return (math.Pow(proceeds/investment, 365.0/float64(days)) - 1) * 100
}
