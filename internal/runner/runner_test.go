package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dma-backtester/internal/store"
)

// writeRecentCSV writes a per-symbol CSV whose bars end yesterday, so they
// fall inside any analysis window anchored at now.
func writeRecentCSV(t *testing.T, dir, symbol string, closes []float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("Date,Open Price,High Price,Low Price,Close Price,No.of Shares\n")
	start := time.Now().AddDate(0, 0, -len(closes))
	for i, c := range closes {
		d := start.AddDate(0, 0, i)
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f,%.2f,1000\n", d.Format("2006-01-02"), c, c, c, c)
	}
	if err := os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}

func testConfig(t *testing.T, csvDir, outDir string) *store.Config {
	t.Helper()
	cfg := &store.Config{Investment: 100000, AnalysisYears: 15}
	cfg.Strategy.Variant = "STACKED_DMA"
	cfg.Strategy.Windows = []int{2, 3}
	cfg.Data.Source = "CSV"
	cfg.Data.CSVDir = csvDir
	cfg.Output.Dir = outDir
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

func TestRunSymbolEndToEnd(t *testing.T) {
	t.Setenv("BACKTEST_LOG_DIR", t.TempDir())
	csvDir, outDir := t.TempDir(), t.TempDir()
	writeRecentCSV(t, csvDir, "INFY", []float64{10, 9, 8, 7, 12})

	cfg := testConfig(t, csvDir, outDir)
	cfg.Output.SQLitePath = filepath.Join(t.TempDir(), "runs.db")

	r, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	sum, led, err := r.RunSymbol(context.Background(), "INFY")
	if err != nil {
		t.Fatalf("RunSymbol: %v", err)
	}
	if sum.Symbol != "INFY" || sum.Entries != 1 {
		t.Errorf("unexpected summary %+v", sum)
	}
	if sum.TotalProfitLoss <= 0 {
		t.Errorf("expected a realized profit, got %f", sum.TotalProfitLoss)
	}
	if led.CompletedCount() != 1 {
		t.Errorf("expected 1 completed trade, got %d", led.CompletedCount())
	}

	if _, err := os.Stat(filepath.Join(outDir, "INFY_trade_summary.csv")); err != nil {
		t.Errorf("expected trade summary file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "trade_logs.csv")); err != nil {
		t.Errorf("expected trade logs file: %v", err)
	}
	if _, err := os.Stat(cfg.Output.SQLitePath); err != nil {
		t.Errorf("expected sqlite database: %v", err)
	}
}

func TestRunSymbolNoTrades(t *testing.T) {
	t.Setenv("BACKTEST_LOG_DIR", t.TempDir())
	csvDir, outDir := t.TempDir(), t.TempDir()
	writeRecentCSV(t, csvDir, "TCS", []float64{100, 100, 100, 100, 100})

	r, err := New(testConfig(t, csvDir, outDir), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	sum, led, err := r.RunSymbol(context.Background(), "TCS")
	if err != nil {
		t.Fatalf("RunSymbol: %v", err)
	}
	if sum.Entries != 0 || sum.TotalProfitLoss != 0 || sum.UnrealizedPnL != nil {
		t.Errorf("expected empty summary, got %+v", sum)
	}
	if len(led.Records()) != 0 {
		t.Errorf("expected empty ledger, got %d records", len(led.Records()))
	}

	// Headers-only summary file, and no shared trade log at all.
	data, err := os.ReadFile(filepath.Join(outDir, "TCS_trade_summary.csv"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if got := strings.Count(strings.TrimSpace(string(data)), "\n"); got != 0 {
		t.Errorf("expected headers only, got extra lines:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(outDir, "trade_logs.csv")); !os.IsNotExist(err) {
		t.Error("no-trade run must not create the shared trade log")
	}
}

func TestRunSymbolMissingData(t *testing.T) {
	t.Setenv("BACKTEST_LOG_DIR", t.TempDir())
	r, err := New(testConfig(t, t.TempDir(), t.TempDir()), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	if _, _, err := r.RunSymbol(context.Background(), "GHOST"); err == nil {
		t.Error("expected error for a symbol without data")
	}
}

func TestPeriodFormat(t *testing.T) {
	r, err := New(testConfig(t, t.TempDir(), t.TempDir()), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	p := r.Period()
	if !strings.Contains(p, " to ") {
		t.Errorf("unexpected period %q", p)
	}
	if !strings.Contains(p, time.Now().Format("2006-01-02")) {
		t.Errorf("period should end today, got %q", p)
	}
}
