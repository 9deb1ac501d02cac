package calculator

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dannijak/IS-Macro/internal/model"
)

// RateSource supplies the penalty rates in effect over a window, ascending by date.
type RateSource interface {
	FetchInEffect(ctx context.Context, from, to civil.Date) ([]model.RateEntry, error)
}

var hundred = decimal.NewFromInt(100)

// SimpleCalculator accrues interest over a single window without compounding.
type SimpleCalculator struct {
	Rates      RateSource
	Convention Convention
}

// NewSimpleCalculator creates a SimpleCalculator using 30E/360.
func NewSimpleCalculator(rates RateSource) *SimpleCalculator {
	return &SimpleCalculator{Rates: rates, Convention: Thirty360European}
}

// Compute returns the interest on amount over window, held fixed across all
// rate changes inside the window.
func (c *SimpleCalculator) Compute(ctx context.Context, amount decimal.Decimal, window model.DateWindow) (*model.WindowResult, error) {
	entries, err := c.Rates.FetchInEffect(ctx, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("fetch rates for %s: %w", window, err)
	}

	periods, err := SubPeriods(entries, window, c.Convention)
	if err != nil {
		return nil, err
	}

	interest := decimal.Zero
	basis := decimal.NewFromInt(int64(YearBasis(c.Convention)))
	for i := range periods {
		p := &periods[i]
		p.Interest = amount.Mul(p.Percent).Div(hundred).Mul(decimal.NewFromInt(int64(p.Days))).Div(basis)
		interest = interest.Add(p.Interest)
	}

	return &model.WindowResult{
		Window:     window,
		Base:       amount,
		Interest:   interest,
		SubPeriods: periods,
	}, nil
}

// SubPeriods tiles window with the given ascending rate entries. Each entry
// runs until the next one takes effect; the first sub-period is clamped to
// window.From and the last to window.To.
func SubPeriods(entries []model.RateEntry, window model.DateWindow, conv Convention) ([]model.RateSubPeriod, error) {
	entries = effectiveEntries(entries, window)
	if len(entries) == 0 {
		return nil, &model.NoRatesFoundError{From: window.From, To: window.To}
	}

	periods := make([]model.RateSubPeriod, len(entries))
	for i, e := range entries {
		from := e.Date
		if i == 0 {
			from = window.From
		}
		to := window.To
		if i+1 < len(entries) {
			to = entries[i+1].Date
		}
		periods[i] = model.RateSubPeriod{
			From:         from,
			To:           to,
			Percent:      e.Percent,
			Days:         DayCount(from, to, conv),
			YearFraction: YearFraction(from, to, conv),
		}
	}
	return periods, nil
}

// effectiveEntries drops entries superseded before the window opens and
// entries that take effect after it closes.
func effectiveEntries(entries []model.RateEntry, window model.DateWindow) []model.RateEntry {
	first := 0
	for i, e := range entries {
		if e.Date.After(window.From) {
			break
		}
		first = i
	}

	out := make([]model.RateEntry, 0, len(entries)-first)
	for _, e := range entries[first:] {
		if e.Date.After(window.To) {
			break
		}
		out = append(out, e)
	}
	return out
}
