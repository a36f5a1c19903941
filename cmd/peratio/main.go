package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dma-backtester/internal/fundamentals"
	"dma-backtester/internal/store"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	symbols := make([]string, 0, flag.NArg())
	for _, a := range flag.Args() {
		symbols = append(symbols, strings.ToUpper(a))
	}
	if len(symbols) == 0 {
		cfg, err := store.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		symbols = cfg.Universe
	}
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "usage: peratio [-config config.yaml] [SYMBOL ...]")
		os.Exit(2)
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	scr := fundamentals.NewScreener(zlog)
	quotes := scr.Lookup(context.Background(), symbols)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Stock\tP/E")
	for _, q := range quotes {
		if q.Found {
			fmt.Fprintf(w, "%s\t%.2f\n", q.Symbol, q.PERatio)
		} else {
			fmt.Fprintf(w, "%s\tn/a\n", q.Symbol)
		}
	}
	w.Flush()
}
