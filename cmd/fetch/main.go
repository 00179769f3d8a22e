package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/leekchan/accounting"

	"ratesprovider/internal/config"
	"ratesprovider/internal/exchange"
	"ratesprovider/internal/logging"
	"ratesprovider/internal/query"
	"ratesprovider/internal/rates"
	"ratesprovider/internal/store"
)

func main() {
	var (
		code       string
		substr     string
		offline    bool
		asJSON     bool
		timeout    time.Duration
		configPath string
	)
	_ = godotenv.Load()

	flag.StringVar(&code, "code", getenv("CODE", ""), "exact currency code (falls back to preferred/locale/system default)")
	flag.StringVar(&substr, "q", "", "substring of a currency code or symbol")
	flag.BoolVar(&offline, "offline", false, "serve the cached best guess only, never fetch")
	flag.BoolVar(&asJSON, "json", false, "print rows as JSON")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.yaml (optional)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), config.Description())
	}
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	// keep stdout for results
	cfg.Log.Output = "stderr"
	if _, err := logging.Setup(cfg.Log); err != nil {
		log.Fatalf("logging: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	bestGuess, closer, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closer.Close()

	svc, err := exchange.FromConfig(cfg, exchange.Deps{Store: bestGuess})
	if err != nil {
		log.Fatalf("exchange: %v", err)
	}
	defer svc.Close()
	if err := svc.Start(ctx); err != nil {
		log.Fatalf("start: %v", err)
	}

	rows, err := svc.Query(ctx, exchange.Request{Code: code, Q: substr, Offline: offline})
	if err != nil {
		log.Fatalf("query: %v", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			log.Fatalf("encode: %v", err)
		}
		return
	}
	printRows(os.Stdout, rows)
}

// printRows writes one aligned line per row with the price formatted in the
// currency's own symbol.
func printRows(w io.Writer, rows []rates.Row) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tPRICE\tSOURCE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Code, formatPrice(r), r.Source)
	}
	_ = tw.Flush()
}

func formatPrice(r rates.Row) string {
	ac := accounting.Accounting{Symbol: query.Symbol(r.Code), Precision: rates.Precision}
	return ac.FormatMoneyFloat64(r.ExchangeRate().Rate.Value().InexactFloat64())
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
