package marketdata

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const bhavHeader = "Date,Open Price,High Price,Low Price,Close Price,No.of Shares\n"

func writeSymbolCSV(t *testing.T, dir, symbol, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(body), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}

func TestCSVSourceDaily(t *testing.T) {
	dir := t.TempDir()
	writeSymbolCSV(t, dir, "INFY", bhavHeader+
		"2024-01-03,101,103,100,\"1,102.50\",2500\n"+
		"2024-01-02,100,102,99,101.25,3000\n")

	src := NewCSVSource(dir, nil)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	candles, err := src.Daily(context.Background(), "INFY", from, to)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if !candles[0].Date.Before(candles[1].Date) {
		t.Error("candles must be sorted ascending by date")
	}
	if candles[0].Close != 101.25 {
		t.Errorf("expected first close 101.25, got %f", candles[0].Close)
	}
	if candles[1].Close != 1102.50 {
		t.Errorf("expected thousands separator stripped, got %f", candles[1].Close)
	}
	if candles[0].Volume != 3000 {
		t.Errorf("expected volume 3000, got %f", candles[0].Volume)
	}
}

func TestCSVSourceDateLayouts(t *testing.T) {
	dir := t.TempDir()
	writeSymbolCSV(t, dir, "TCS", bhavHeader+
		"02-January-2024,1,1,1,10,1\n"+
		"03-01-2024,1,1,1,11,1\n"+
		"04-Jan-2024,1,1,1,12,1\n")

	src := NewCSVSource(dir, nil)
	candles, err := src.Daily(context.Background(), "TCS",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(candles) != 3 {
		t.Fatalf("expected all 3 date layouts parsed, got %d candles", len(candles))
	}
	for i, want := range []float64{10, 11, 12} {
		if candles[i].Close != want {
			t.Errorf("candle %d: expected close %f, got %f", i, want, candles[i].Close)
		}
	}
}

func TestCSVSourceBadRows(t *testing.T) {
	dir := t.TempDir()
	writeSymbolCSV(t, dir, "WIPRO", bhavHeader+
		"not-a-date,1,1,1,10,1\n"+
		"2024-01-02,1,1,1,n/a,1\n")

	src := NewCSVSource(dir, nil)
	candles, err := src.Daily(context.Background(), "WIPRO",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(candles) != 1 {
		t.Fatalf("expected bad-date row skipped, got %d candles", len(candles))
	}
	if !math.IsNaN(candles[0].Close) {
		t.Errorf("expected unparseable close to become NaN, got %f", candles[0].Close)
	}
}

func TestCSVSourceRangeFilter(t *testing.T) {
	dir := t.TempDir()
	writeSymbolCSV(t, dir, "INFY", bhavHeader+
		"2023-12-29,1,1,1,9,1\n"+
		"2024-01-02,1,1,1,10,1\n"+
		"2024-02-02,1,1,1,11,1\n")

	src := NewCSVSource(dir, nil)
	candles, err := src.Daily(context.Background(), "INFY",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(candles) != 1 || candles[0].Close != 10 {
		t.Errorf("expected only the in-range bar, got %+v", candles)
	}
}

func TestCSVSourceNoData(t *testing.T) {
	dir := t.TempDir()
	writeSymbolCSV(t, dir, "INFY", bhavHeader)

	src := NewCSVSource(dir, nil)
	_, err := src.Daily(context.Background(), "INFY",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	var noData ErrNoData
	if !errors.As(err, &noData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if noData.Symbol != "INFY" {
		t.Errorf("expected symbol INFY in error, got %q", noData.Symbol)
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(t.TempDir(), nil)
	if _, err := src.Daily(context.Background(), "GHOST", time.Time{}, time.Now()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCSVSourceCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := NewCSVSource(t.TempDir(), nil)
	if _, err := src.Daily(ctx, "INFY", time.Time{}, time.Now()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
