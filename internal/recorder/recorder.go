package recorder

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/dannijak/IS-Macro/internal/model"
)

// CalculationRecord holds one completed penalty calculation.
type CalculationRecord struct {
	Result *model.PenaltyResult
	Source string // rate fetcher name
}

// SyncEvent records a rate table refresh.
type SyncEvent struct {
	Source  string
	From    civil.Date
	To      civil.Date
	Fetched int
	Stored  int
	Error   string
}

// Recorder persists historical data for audit.
type Recorder interface {
	RecordCalculation(rec *CalculationRecord) error
	RecordSync(evt *SyncEvent) error
	Close() error
}

// RateStore keeps a local snapshot of the published rate series.
type RateStore interface {
	SaveRates(ctx context.Context, entries []model.RateEntry) (int, error)
	FetchRates(ctx context.Context, from, to civil.Date) ([]model.RateEntry, error)
	Name() string
}
