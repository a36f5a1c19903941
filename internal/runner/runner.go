// Package runner wires the data source, engine, reporter, and recorder into
// the per-symbol backtest pipeline shared by the CLIs.
package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dma-backtester/internal/engine"
	"dma-backtester/internal/ledger"
	"dma-backtester/internal/logger"
	"dma-backtester/internal/marketdata"
	"dma-backtester/internal/recorder"
	"dma-backtester/internal/report"
	"dma-backtester/internal/store"
	"dma-backtester/internal/types"
)

type Runner struct {
	cfg    *store.Config
	source marketdata.Source
	eng    *engine.Engine
	writer *report.Writer
	rec    recorder.Recorder
	from   time.Time
	to     time.Time
}

// New builds the pipeline from configuration. The analysis window ends now
// and reaches back analysis_years of 365-day years, matching the fixed-ratio
// duration convention used everywhere else.
func New(cfg *store.Config, zlog *zap.Logger) (*Runner, error) {
	source, err := newSource(cfg, zlog)
	if err != nil {
		return nil, err
	}
	eng, err := engine.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	writer, err := report.NewWriter(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Output.SQLitePath != "" {
		rec, err = recorder.NewSQLiteRecorder(cfg.Output.SQLitePath)
		if err != nil {
			return nil, err
		}
	}

	to := time.Now()
	from := to.AddDate(0, 0, -cfg.AnalysisYears*365)
	return &Runner{cfg: cfg, source: source, eng: eng, writer: writer, rec: rec, from: from, to: to}, nil
}

func newSource(cfg *store.Config, zlog *zap.Logger) (marketdata.Source, error) {
	switch cfg.Data.Source {
	case "YAHOO":
		return marketdata.NewYahooSource(cfg.Data.YahooSuffix, zlog), nil
	case "KITE":
		creds, err := marketdata.LoadKiteCredentials()
		if err != nil {
			return nil, err
		}
		return marketdata.NewKiteSource(creds, cfg.Data.KiteTokens, zlog), nil
	case "CSV":
		return marketdata.NewCSVSource(cfg.Data.CSVDir, zlog), nil
	default:
		return nil, fmt.Errorf("unknown data source %s", cfg.Data.Source)
	}
}

// Period is the analysis window label used in the consolidated rows.
func (r *Runner) Period() string {
	return r.from.Format("2006-01-02") + " to " + r.to.Format("2006-01-02")
}

func (r *Runner) Writer() *report.Writer { return r.writer }

// RunSymbol fetches one symbol's history, simulates it, writes the CSV
// bookkeeping, and records the run.
func (r *Runner) RunSymbol(ctx context.Context, symbol string) (types.SymbolSummary, *ledger.Ledger, error) {
	op := logger.StartOperation(ctx, "backtest.run_symbol", "symbol", symbol, "source", r.source.Name())
	ctx = op.GetContext()

	candles, err := r.source.Daily(ctx, symbol, r.from, r.to)
	if err != nil {
		op.EndWithError(err)
		return types.SymbolSummary{}, nil, err
	}

	led, err := r.eng.Run(ctx, symbol, candles)
	if err != nil {
		op.EndWithError(err)
		return types.SymbolSummary{}, nil, err
	}

	if _, err := r.writer.WriteTradeSummary(led); err != nil {
		op.EndWithError(err)
		return types.SymbolSummary{}, nil, err
	}
	if err := r.writer.AppendTradeLogs(led); err != nil {
		op.EndWithError(err)
		return types.SymbolSummary{}, nil, err
	}

	sum := report.Summarize(led, r.Period())
	if err := r.rec.RecordRun(sum, led.Records()); err != nil {
		logger.Warn(ctx, "Failed to record run", "symbol", symbol, "error", err)
	}

	op.End("trades", len(led.Records()))
	return sum, led, nil
}

func (r *Runner) Close() error {
	return r.rec.Close()
}
