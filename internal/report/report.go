// Package report derives per-symbol summaries from trade ledgers and keeps
// the CSV bookkeeping: a per-symbol trade table, an append-only cross-symbol
// trade log, and an append-only consolidated summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"dma-backtester/internal/ledger"
	"dma-backtester/internal/types"
)

const (
	tradeLogsFile    = "trade_logs.csv"
	consolidatedFile = "consolidated_trade_summary.csv"
)

// Summarize folds one symbol's ledger into a consolidated summary row. Pure
// function of the ledger and the query period; a holding position counts as
// an entry.
func Summarize(led *ledger.Ledger, period string) types.SymbolSummary {
	s := types.SymbolSummary{
		Symbol:          led.Symbol(),
		Period:          period,
		TotalProfitLoss: led.TotalProfitLoss(),
		Entries:         led.CompletedCount(),
	}
	if pnl, ok := led.UnrealizedPnL(); ok {
		s.UnrealizedPnL = &pnl
		s.Entries++
	}
	return s
}

// TradeRow must stay exported: it is embedded in stockTradeRow, and gocsv
// cannot reflect over an unexported embedded field.
type TradeRow struct {
	EntryDate     string `csv:"Entry Date"`
	ExitDate      string `csv:"Exit Date"`
	HoldingMonths string `csv:"Holding Period (Months)"`
	BuyPrice      string `csv:"Buy Price"`
	SellPrice     string `csv:"Sell Price"`
	ProfitLoss    string `csv:"Profit/Loss"`
	AnnualGain    string `csv:"Effective Annual Gain (%)"`
	Status        string `csv:"Status"`
}

type stockTradeRow struct {
	Stock string `csv:"Stock"`
	TradeRow
}

type consolidatedRow struct {
	Stock           string `csv:"Stock"`
	Period          string `csv:"Analysis Period"`
	TotalProfitLoss string `csv:"Total Profit/Loss"`
	UnrealizedPnL   string `csv:"Unrealized P/L"`
	Entries         int    `csv:"Number of Times Entered Market"`
}

func toRow(r types.TradeRecord) TradeRow {
	row := TradeRow{
		EntryDate:     r.EntryDate.Format("2006-01-02"),
		ExitDate:      "Still Holding",
		HoldingMonths: fmt.Sprintf("%.2f", r.HoldingMonths()),
		BuyPrice:      fmt.Sprintf("%.2f", r.EntryPrice),
		SellPrice:     fmt.Sprintf("%.2f", r.ExitPrice),
		ProfitLoss:    fmt.Sprintf("%.2f", r.ProfitLoss),
		Status:        string(r.Status),
	}
	if r.Status == types.StatusCompleted {
		row.ExitDate = r.ExitDate.Format("2006-01-02")
	}
	if r.AnnualGain != nil {
		row.AnnualGain = fmt.Sprintf("%.2f", *r.AnnualGain)
	}
	return row
}

// Writer persists the CSV tables under one output directory. Appends to the
// shared tables are serialized; concurrent symbol runs share one Writer.
type Writer struct {
	Dir string
	mu  sync.Mutex
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Writer{Dir: dir}, nil
}

// WriteTradeSummary writes <SYMBOL>_trade_summary.csv, headers only when the
// ledger is empty.
func (w *Writer) WriteTradeSummary(led *ledger.Ledger) (string, error) {
	rows := make([]TradeRow, 0, len(led.Records()))
	for _, r := range led.Records() {
		rows = append(rows, toRow(r))
	}
	path := filepath.Join(w.Dir, led.Symbol()+"_trade_summary.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return "", fmt.Errorf("write trade summary: %w", err)
	}
	return path, nil
}

// AppendTradeLogs appends the ledger's records, prefixed with the stock
// column, to the shared trade_logs.csv. Empty ledgers append nothing.
func (w *Writer) AppendTradeLogs(led *ledger.Ledger) error {
	if len(led.Records()) == 0 {
		return nil
	}
	rows := make([]stockTradeRow, 0, len(led.Records()))
	for _, r := range led.Records() {
		rows = append(rows, stockTradeRow{Stock: led.Symbol(), TradeRow: toRow(r)})
	}
	return w.appendCSV(filepath.Join(w.Dir, tradeLogsFile), &rows)
}

// AppendConsolidated appends one summary row to the consolidated table. The
// table is a log, not a keyed collection: re-running a symbol appends a new
// row.
func (w *Writer) AppendConsolidated(s types.SymbolSummary) error {
	row := consolidatedRow{
		Stock:           s.Symbol,
		Period:          s.Period,
		TotalProfitLoss: fmt.Sprintf("%.2f", s.TotalProfitLoss),
		Entries:         s.Entries,
	}
	if s.UnrealizedPnL != nil {
		row.UnrealizedPnL = fmt.Sprintf("%.2f", *s.UnrealizedPnL)
	}
	rows := []consolidatedRow{row}
	return w.appendCSV(filepath.Join(w.Dir, consolidatedFile), &rows)
}

// appendCSV writes headers on first creation, then appends rows only. The
// lock keeps concurrent appends from interleaving inside a record and covers
// the exists-check-then-create window.
func (w *Writer) appendCSV(path string, rows any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return gocsv.MarshalFile(rows, f)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalWithoutHeaders(rows, f)
}
