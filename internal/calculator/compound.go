package calculator

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dannijak/IS-Macro/internal/model"
)

// WindowCalculator computes non-compounding interest over one window.
type WindowCalculator interface {
	Compute(ctx context.Context, amount decimal.Decimal, window model.DateWindow) (*model.WindowResult, error)
}

// CompoundCalculator compounds penalty interest annually: each one-year
// segment accrues on the principal plus all interest of earlier segments.
type CompoundCalculator struct {
	Simple WindowCalculator
}

// NewCompoundCalculator creates a CompoundCalculator.
func NewCompoundCalculator(simple WindowCalculator) *CompoundCalculator {
	return &CompoundCalculator{Simple: simple}
}

// Compute returns the total penalty interest on principal from start to end.
// Any failing segment aborts the whole calculation.
func (c *CompoundCalculator) Compute(ctx context.Context, principal decimal.Decimal, start, end civil.Date) (*model.PenaltyResult, error) {
	if principal.IsNegative() {
		return nil, fmt.Errorf("principal %s: %w", principal, model.ErrInvalidAmount)
	}
	windows, err := Segment(start, end)
	if err != nil {
		return nil, err
	}

	res := &model.PenaltyResult{
		Principal: principal,
		Start:     start,
		End:       end,
		Interest:  decimal.Zero,
		Windows:   make([]model.WindowResult, 0, len(windows)),
	}
	for _, w := range windows {
		wr, err := c.Simple.Compute(ctx, principal.Add(res.Interest), w)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", w, err)
		}
		res.Interest = res.Interest.Add(wr.Interest)
		res.Windows = append(res.Windows, *wr)
	}

	log.Printf("[INFO] penalty on %s from %s to %s: %s over %d window(s)",
		principal, start, end, res.Interest.StringFixed(2), len(windows))
	return res, nil
}
