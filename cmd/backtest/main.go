package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dma-backtester/internal/ledger"
	"dma-backtester/internal/logger"
	"dma-backtester/internal/runner"
	"dma-backtester/internal/store"
	"dma-backtester/internal/tradelog"
	"dma-backtester/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	start := time.Now()
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	years := flag.Int("years", 0, "override analysis_years from config")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: backtest [-config config.yaml] [-years N] SYMBOL")
		os.Exit(2)
	}
	symbol := strings.ToUpper(flag.Arg(0))

	must(logger.Init())
	ctx := context.Background()
	defer logger.Shutdown(ctx)

	cfg, err := store.LoadConfig(*configPath)
	must(err)
	if *years > 0 {
		cfg.AnalysisYears = *years
	}

	if v := os.Getenv("BACKTEST_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		_ = tradelog.CompressOlder(n)
	}

	zlog, err := zap.NewProduction()
	must(err)
	defer zlog.Sync()

	r, err := runner.New(cfg, zlog)
	must(err)
	defer r.Close()

	sum, led, err := r.RunSymbol(ctx, symbol)
	if err != nil {
		log.Fatalf("[%s] backtest failed: %v", symbol, err)
	}

	printTrades(led)
	printSummary(sum)
	fmt.Printf("\nTotal Execution Time: %.2f seconds\n", time.Since(start).Seconds())
}

func printTrades(led *ledger.Ledger) {
	if len(led.Records()) == 0 {
		fmt.Println("\nNo trades made during this period.")
		return
	}
	fmt.Println("\nTrade Summary:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Entry Date\tExit Date\tMonths\tBuy Price\tSell Price\tProfit/Loss\tAnnual Gain %\tStatus")
	for _, t := range led.Records() {
		exit := "Still Holding"
		if t.Status == types.StatusCompleted {
			exit = t.ExitDate.Format("2006-01-02")
		}
		gain := ""
		if t.AnnualGain != nil {
			gain = fmt.Sprintf("%.2f", *t.AnnualGain)
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%s\n",
			t.EntryDate.Format("2006-01-02"), exit, t.HoldingMonths(),
			t.EntryPrice, t.ExitPrice, t.ProfitLoss, gain, t.Status)
	}
	w.Flush()
}

func printSummary(sum types.SymbolSummary) {
	fmt.Printf("\n%-28s: %s\n", "Analysis Period", sum.Period)
	fmt.Printf("%-28s: %.2f\n", "Total Profit/Loss", sum.TotalProfitLoss)
	if sum.UnrealizedPnL != nil {
		fmt.Printf("%-28s: %.2f\n", "Unrealized P/L", *sum.UnrealizedPnL)
	}
	fmt.Printf("%-28s: %d\n", "Times Entered Market", sum.Entries)
}
