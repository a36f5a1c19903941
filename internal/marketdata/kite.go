package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
	"go.uber.org/zap"

	"dma-backtester/internal/types"
)

// KiteCredentials come from the environment (loaded via .env in the mains).
type KiteCredentials struct {
	APIKey      string `envconfig:"KITE_API_KEY" required:"true"`
	AccessToken string `envconfig:"KITE_ACCESS_TOKEN" required:"true"`
}

// LoadKiteCredentials reads Kite credentials from the environment.
func LoadKiteCredentials() (KiteCredentials, error) {
	var c KiteCredentials
	if err := envconfig.Process("", &c); err != nil {
		return KiteCredentials{}, fmt.Errorf("kite credentials: %w", err)
	}
	return c, nil
}

// KiteSource fetches daily history through the Zerodha Kite Connect API.
// Kite addresses instruments by numeric token, so the source carries a
// symbol-to-token map from configuration.
type KiteSource struct {
	kc     *kiteconnect.Client
	tokens map[string]int
	log    *zap.Logger
}

func NewKiteSource(creds KiteCredentials, tokens map[string]int, log *zap.Logger) *KiteSource {
	if log == nil {
		log = zap.NewNop()
	}
	kc := kiteconnect.New(creds.APIKey)
	kc.SetAccessToken(creds.AccessToken)
	return &KiteSource{kc: kc, tokens: tokens, log: log}
}

func (s *KiteSource) Name() string { return "kite" }

func (s *KiteSource) Daily(ctx context.Context, symbol string, from, to time.Time) ([]types.Candle, error) {
	token, ok := s.tokens[symbol]
	if !ok {
		return nil, fmt.Errorf("kite: no instrument token configured for %s", symbol)
	}
	s.log.Debug("fetching kite history",
		zap.String("symbol", symbol),
		zap.Int("token", token),
		zap.Time("from", from),
		zap.Time("to", to),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.kc.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		s.log.Warn("kite fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, fmt.Errorf("kite %s: %w", symbol, err)
	}
	if len(data) == 0 {
		return nil, ErrNoData{Symbol: symbol}
	}

	candles := make([]types.Candle, 0, len(data))
	for _, d := range data {
		candles = append(candles, types.Candle{
			Date:   d.Date.Time,
			Open:   d.Open,
			High:   d.High,
			Low:    d.Low,
			Close:  d.Close,
			Volume: float64(d.Volume),
		})
	}
	sortCandles(candles)
	return candles, nil
}
