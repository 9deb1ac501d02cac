package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/civil"
	"github.com/robfig/cron/v3"

	"github.com/dannijak/IS-Macro/internal/collector"
	"github.com/dannijak/IS-Macro/internal/model"
	"github.com/dannijak/IS-Macro/internal/recorder"
)

// Scheduler keeps the local rate table in step with the published series.
type Scheduler struct {
	Cron     *cron.Cron
	Source   collector.Fetcher
	Store    recorder.RateStore
	Recorder recorder.Recorder
	From     civil.Date
	Ctx      context.Context

	now func() time.Time
}

// NewScheduler creates a new Scheduler syncing everything published since from.
func NewScheduler(ctx context.Context, src collector.Fetcher, store recorder.RateStore, rec recorder.Recorder, from civil.Date) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Source:   src,
		Store:    store,
		Recorder: rec,
		From:     from,
		Ctx:      ctx,
		now:      time.Now,
	}
}

// Register schedules the rate sync.
func (s *Scheduler) Register(syncCron string) error {
	if _, err := s.Cron.AddFunc(syncCron, s.syncTask); err != nil {
		return fmt.Errorf("register sync task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running sync to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// SyncNow downloads the series up to the current month and stores it.
func (s *Scheduler) SyncNow() (int, error) {
	to := model.FirstOfMonth(civil.DateOf(s.now()))
	evt := &recorder.SyncEvent{Source: s.Source.Name(), From: s.From, To: to}

	stored, err := s.sync(to, evt)
	if err != nil {
		evt.Error = err.Error()
	}
	if rerr := s.Recorder.RecordSync(evt); rerr != nil {
		log.Printf("[ERROR] record sync: %v", rerr)
	}
	return stored, err
}

func (s *Scheduler) sync(to civil.Date, evt *recorder.SyncEvent) (int, error) {
	entries, err := s.Source.FetchRates(s.Ctx, s.From, to)
	if err != nil {
		return 0, fmt.Errorf("fetch series: %w", err)
	}
	evt.Fetched = len(entries)
	if len(entries) == 0 {
		return 0, &model.NoRatesFoundError{From: s.From, To: to}
	}

	stored, err := s.Store.SaveRates(s.Ctx, entries)
	evt.Stored = stored
	if err != nil {
		return stored, fmt.Errorf("save rates: %w", err)
	}
	return stored, nil
}

func (s *Scheduler) syncTask() {
	log.Println("[INFO] running rate sync")
	n, err := s.SyncNow()
	if err != nil {
		log.Printf("[ERROR] rate sync: %v", err)
		return
	}
	log.Printf("[INFO] rate sync stored %d entries", n)
}
