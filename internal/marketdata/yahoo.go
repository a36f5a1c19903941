package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"go.uber.org/zap"

	"dma-backtester/internal/types"
)

// YahooSource fetches daily history from Yahoo Finance. Suffix is appended
// to bare symbols (".NS" maps NSE tickers onto Yahoo's naming).
type YahooSource struct {
	Suffix string
	log    *zap.Logger
}

func NewYahooSource(suffix string, log *zap.Logger) *YahooSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &YahooSource{Suffix: suffix, log: log}
}

func (s *YahooSource) Name() string { return "yahoo" }

func (s *YahooSource) ticker(symbol string) string {
	if s.Suffix == "" {
		return symbol
	}
	return symbol + s.Suffix
}

func (s *YahooSource) Daily(ctx context.Context, symbol string, from, to time.Time) ([]types.Candle, error) {
	ticker := s.ticker(symbol)
	s.log.Debug("fetching yahoo history",
		zap.String("symbol", symbol),
		zap.String("ticker", ticker),
		zap.Time("from", from),
		zap.Time("to", to),
	)

	params := &chart.Params{
		Symbol:   ticker,
		Interval: datetime.OneDay,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
	}
	iter := chart.Get(params)

	var candles []types.Candle
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := iter.Bar()
		candles = append(candles, types.Candle{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  b.Close.InexactFloat64(),
			Volume: float64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		s.log.Warn("yahoo fetch failed", zap.String("ticker", ticker), zap.Error(err))
		return nil, fmt.Errorf("yahoo %s: %w", ticker, err)
	}
	if len(candles) == 0 {
		return nil, ErrNoData{Symbol: symbol}
	}

	sortCandles(candles)
	s.log.Debug("yahoo history fetched", zap.String("symbol", symbol), zap.Int("bars", len(candles)))
	return candles, nil
}
