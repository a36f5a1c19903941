package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"dma-backtester/internal/logger"
	"dma-backtester/internal/report"
	"dma-backtester/internal/runner"
	"dma-backtester/internal/store"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	cronSpec := flag.String("cron", "", "cron schedule for repeated scans (overrides config)")
	flag.Parse()

	must(logger.Init())
	ctx := context.Background()
	defer logger.Shutdown(ctx)

	cfg, err := store.LoadConfig(*configPath)
	must(err)
	if len(cfg.Universe) == 0 {
		log.Fatal("universe cannot be empty for a batch run")
	}

	zlog, err := zap.NewProduction()
	must(err)
	defer zlog.Sync()

	schedule := cfg.Batch.Cron
	if *cronSpec != "" {
		schedule = *cronSpec
	}

	runAll(ctx, cfg, zlog)

	if schedule == "" {
		return
	}

	// Scheduled mode: re-run the whole scan on the given cron expression
	// until interrupted.
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { runAll(ctx, cfg, zlog) }); err != nil {
		log.Fatalf("invalid cron schedule %q: %v", schedule, err)
	}
	c.Start()
	log.Printf("scheduled batch scan with %q", schedule)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Println("Shutting down...")
	stopCtx := c.Stop()
	<-stopCtx.Done()
}

// runAll backtests the universe with a bounded worker pool. Symbol walks are
// independent; only the aggregator's appends are serialized.
func runAll(ctx context.Context, cfg *store.Config, zlog *zap.Logger) {
	start := time.Now()

	r, err := runner.New(cfg, zlog)
	if err != nil {
		log.Printf("batch setup failed: %v", err)
		return
	}
	defer r.Close()

	agg := report.NewAggregator(r.Writer())

	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.Batch.Workers)
	for _, symbol := range cfg.Universe {
		wg.Add(1)
		sem <- struct{}{}
		go func(sym string) {
			defer wg.Done()
			defer func() { <-sem }()

			sum, _, err := r.RunSymbol(ctx, sym)
			if err != nil {
				log.Printf("[%s] backtest failed: %v", sym, err)
				return
			}
			if err := agg.Add(sum); err != nil {
				log.Printf("[%s] consolidated append failed: %v", sym, err)
			}
		}(symbol)
	}
	wg.Wait()

	printConsolidated(agg)
	fmt.Printf("\nProcessed %d symbols in %.2f seconds\n", len(cfg.Universe), time.Since(start).Seconds())
}

func printConsolidated(agg *report.Aggregator) {
	rows := agg.Rows()
	if len(rows) == 0 {
		fmt.Println("\nNo symbols produced results.")
		return
	}
	fmt.Println("\nConsolidated Trade Summary:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Stock\tTotal Profit/Loss\tUnrealized P/L\tEntries")
	for _, s := range rows {
		unrealized := ""
		if s.UnrealizedPnL != nil {
			unrealized = fmt.Sprintf("%.2f", *s.UnrealizedPnL)
		}
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%d\n", s.Symbol, s.TotalProfitLoss, unrealized, s.Entries)
	}
	w.Flush()
	fmt.Printf("\nTotal Realized P/L: %.2f | Total Unrealized P/L: %.2f\n",
		agg.TotalProfitLoss(), agg.TotalUnrealized())
}
