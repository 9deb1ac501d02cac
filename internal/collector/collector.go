package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/patrickmn/go-cache"

	"github.com/dannijak/IS-Macro/internal/model"
)

// MockFetcher returns a fixed rate table for development and testing.
type MockFetcher struct {
	Entries []model.RateEntry
	Err     error
	Calls   int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchRates(_ context.Context, from, to civil.Date) ([]model.RateEntry, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.RateEntry
	for _, e := range m.Entries {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// DefaultLookbackMonths bounds how far back FetchInEffect searches for the
// rate in effect when a window opens between two published changes.
const DefaultLookbackMonths = 12

// Collector turns a raw Fetcher into the rate source used by the calculators:
// month-normalized bounds, filtering, ordering and an optional cache.
type Collector struct {
	Fetcher        Fetcher
	LookbackMonths int // 0 disables the look-back
	cache          *cache.Cache
}

// NewCollector creates a Collector. A zero ttl disables caching.
func NewCollector(fetcher Fetcher, lookbackMonths int, ttl time.Duration) *Collector {
	c := &Collector{Fetcher: fetcher, LookbackMonths: lookbackMonths}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c
}

// Fetch returns the entries whose effective date falls in
// [first of start's month, first of end's month], ascending.
func (c *Collector) Fetch(ctx context.Context, start, end civil.Date) ([]model.RateEntry, error) {
	from, to := model.FirstOfMonth(start), model.FirstOfMonth(end)

	key := from.String() + ":" + to.String()
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return cloneEntries(v.([]model.RateEntry)), nil
		}
	}

	raw, err := c.Fetcher.FetchRates(ctx, from, to)
	if err != nil {
		var dse *model.DataSourceError
		if errors.As(err, &dse) {
			return nil, err
		}
		return nil, &model.DataSourceError{Source: c.Fetcher.Name(), Err: err}
	}

	entries, err := normalize(raw, from, to)
	if err != nil {
		return nil, &model.DataSourceError{Source: c.Fetcher.Name(), Err: err}
	}
	if len(entries) == 0 {
		return nil, &model.NoRatesFoundError{From: from, To: to}
	}

	if c.cache != nil {
		c.cache.SetDefault(key, cloneEntries(entries))
	}
	return entries, nil
}

// FetchInEffect returns the entries for [start, end] plus, when no change is
// dated on or before start within start's month, the latest entry published
// in the look-back period so the opening sub-period accrues at the rate
// actually in effect.
func (c *Collector) FetchInEffect(ctx context.Context, start, end civil.Date) ([]model.RateEntry, error) {
	entries, err := c.Fetch(ctx, start, end)
	if err != nil && !errors.Is(err, model.ErrNoRatesFound) {
		return nil, err
	}

	if c.LookbackMonths > 0 && (len(entries) == 0 || entries[0].Date.After(start)) {
		prior, err := c.latestBefore(ctx, start)
		if err != nil {
			return nil, err
		}
		if prior != nil {
			entries = append([]model.RateEntry{*prior}, entries...)
		}
	}

	if len(entries) == 0 {
		return nil, &model.NoRatesFoundError{From: model.FirstOfMonth(start), To: model.FirstOfMonth(end)}
	}
	return entries, nil
}

func (c *Collector) latestBefore(ctx context.Context, d civil.Date) (*model.RateEntry, error) {
	month := model.FirstOfMonth(d)
	from := model.AddMonths(month, -c.LookbackMonths)
	to := model.AddMonths(month, -1)

	entries, err := c.Fetch(ctx, from, to)
	if errors.Is(err, model.ErrNoRatesFound) {
		log.Printf("[WARN] no rate published in the %d month(s) before %s", c.LookbackMonths, d)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look back from %s: %w", d, err)
	}
	last := entries[len(entries)-1]
	return &last, nil
}

// normalize filters to [from, to], sorts ascending and rejects conflicting
// duplicates. Identical duplicates are collapsed.
func normalize(raw []model.RateEntry, from, to civil.Date) ([]model.RateEntry, error) {
	entries := make([]model.RateEntry, 0, len(raw))
	for _, e := range raw {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	out := entries[:0]
	for _, e := range entries {
		if n := len(out); n > 0 && out[n-1].Date == e.Date {
			if !out[n-1].Percent.Equal(e.Percent) {
				return nil, fmt.Errorf("conflicting rates on %s: %s and %s", e.Date, out[n-1].Percent, e.Percent)
			}
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func cloneEntries(entries []model.RateEntry) []model.RateEntry {
	out := make([]model.RateEntry, len(entries))
	copy(out, entries)
	return out
}
