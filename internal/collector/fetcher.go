package collector

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/dannijak/IS-Macro/internal/model"
)

// Fetcher defines the interface for fetching a published penalty-rate series.
// Bounds are inclusive and already normalized to the first of the month.
type Fetcher interface {
	FetchRates(ctx context.Context, from, to civil.Date) ([]model.RateEntry, error)
	Name() string
}
