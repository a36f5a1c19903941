package marketdata

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"dma-backtester/internal/types"
)

// CSVSource reads daily bars from per-symbol CSV files in a directory, in
// the column layout of BSE archive exports (<SYMBOL>.csv with "Close Price"
// etc.). Rows with unparseable closes become NaN bars the engine skips.
type CSVSource struct {
	Dir string
	log *zap.Logger
}

func NewCSVSource(dir string, log *zap.Logger) *CSVSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &CSVSource{Dir: dir, log: log}
}

func (s *CSVSource) Name() string { return "csv" }

type csvBar struct {
	Date   string `csv:"Date"`
	Open   string `csv:"Open Price"`
	High   string `csv:"High Price"`
	Low    string `csv:"Low Price"`
	Close  string `csv:"Close Price"`
	Shares string `csv:"No.of Shares"`
}

var dateLayouts = []string{"2006-01-02", "02-01-2006", "2-January-2006", "02-Jan-2006"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parsePrice(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (s *CSVSource) Daily(ctx context.Context, symbol string, from, to time.Time) ([]types.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.Dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv source: %w", err)
	}
	defer f.Close()

	var rows []csvBar
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("csv source %s: %w", path, err)
	}

	var candles []types.Candle
	for _, r := range rows {
		d, err := parseDate(r.Date)
		if err != nil {
			s.log.Warn("skipping row with bad date", zap.String("file", path), zap.String("date", r.Date))
			continue
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		candles = append(candles, types.Candle{
			Date:   d,
			Open:   parsePrice(r.Open),
			High:   parsePrice(r.High),
			Low:    parsePrice(r.Low),
			Close:  parsePrice(r.Close),
			Volume: parsePrice(r.Shares),
		})
	}
	if len(candles) == 0 {
		return nil, ErrNoData{Symbol: symbol}
	}

	sortCandles(candles)
	s.log.Debug("csv history loaded", zap.String("symbol", symbol), zap.Int("bars", len(candles)))
	return candles, nil
}
