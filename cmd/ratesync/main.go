package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dannijak/IS-Macro/internal/collector"
	"github.com/dannijak/IS-Macro/internal/config"
	"github.com/dannijak/IS-Macro/internal/recorder"
	"github.com/dannijak/IS-Macro/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ratesync starting...")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the YAML config")
	once := flag.Bool("once", false, "run a single sync and exit")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	from, err := cfg.SyncFrom()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	fetcher := collector.NewCBIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.SeriesID, cfg.Proxy, cfg.Timeout(), cfg.DataSource.RetryMax)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
		log.Fatalf("[FATAL] create database dir: %v", err)
	}
	store, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] init sqlite recorder: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, fetcher, store, store, from)

	if *once {
		n, err := sched.SyncNow()
		if err != nil {
			log.Printf("[ERROR] rate sync: %v", err)
			store.Close()
			os.Exit(1)
		}
		log.Printf("[INFO] rate sync stored %d entries", n)
		return
	}

	if err := sched.Register(cfg.Sync.Cron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, syncing now")
		go sched.SyncNow()
	}

	log.Println("[INFO] ratesync is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
}
