package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dannijak/IS-Macro/internal/calculator"
	"github.com/dannijak/IS-Macro/internal/collector"
	"github.com/dannijak/IS-Macro/internal/config"
	"github.com/dannijak/IS-Macro/internal/model"
	"github.com/dannijak/IS-Macro/internal/recorder"
	"github.com/dannijak/IS-Macro/internal/report"
)

const (
	exitFailure      = 1
	exitInvalidInput = 2
	exitDataSource   = 3
	exitNoRates      = 4
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the YAML config")
	amountFlag := flag.String("amount", "1000", "principal amount")
	fromFlag := flag.String("from", "2022-01-20", "start date (YYYY-MM-DD)")
	toFlag := flag.String("to", "2023-01-05", "end date (YYYY-MM-DD)")
	breakdown := flag.Bool("breakdown", false, "print the per-window breakdown")
	flag.Parse()

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		log.Printf("[ERROR] invalid amount %q: %v", *amountFlag, err)
		os.Exit(exitInvalidInput)
	}
	start, err := civil.ParseDate(*fromFlag)
	if err != nil {
		log.Printf("[ERROR] invalid start date: %v", err)
		os.Exit(exitInvalidInput)
	}
	end, err := civil.ParseDate(*toFlag)
	if err != nil {
		log.Printf("[ERROR] invalid end date: %v", err)
		os.Exit(exitInvalidInput)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	var store *recorder.SQLiteRecorder
	if cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			log.Printf("[WARN] create database dir: %v", err)
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
			store = sr
			defer sr.Close()
		}
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Offline {
		if store == nil {
			log.Fatalf("[FATAL] offline mode needs the sqlite rate table")
		}
		fetcher = store
	} else {
		fetcher = collector.NewCBIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.SeriesID, cfg.Proxy, cfg.Timeout(), cfg.DataSource.RetryMax)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.Lookback(), cfg.CacheTTL())
	calc := calculator.NewCompoundCalculator(calculator.NewSimpleCalculator(col))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := calc.Compute(ctx, amount, start, end)
	if err != nil {
		log.Printf("[ERROR] compute penalty interest: %v", err)
		// deferred Close would be skipped by os.Exit
		rec.Close()
		os.Exit(exitCode(err))
	}

	if err := rec.RecordCalculation(&recorder.CalculationRecord{Result: res, Source: fetcher.Name()}); err != nil {
		log.Printf("[WARN] record calculation: %v", err)
	}

	fmt.Print(report.FormatResult(res, *breakdown))
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidRange), errors.Is(err, model.ErrInvalidAmount):
		return exitInvalidInput
	case errors.Is(err, model.ErrDataSource):
		return exitDataSource
	case errors.Is(err, model.ErrNoRatesFound):
		return exitNoRates
	default:
		return exitFailure
	}
}
