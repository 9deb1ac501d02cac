package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// DateWindow is one accrual period [From, To].
type DateWindow struct {
	From civil.Date
	To   civil.Date
}

func (w DateWindow) String() string {
	return "[" + w.From.String() + ", " + w.To.String() + "]"
}

// IsZeroLength reports whether the window starts and ends on the same day.
func (w DateWindow) IsZeroLength() bool {
	return w.From == w.To
}

// WindowResult is the simple (non-compounding) interest accrued over one window.
type WindowResult struct {
	Window     DateWindow
	Base       decimal.Decimal // amount interest was computed on
	Interest   decimal.Decimal
	SubPeriods []RateSubPeriod
}

// PenaltyResult is the outcome of a compounding penalty calculation.
type PenaltyResult struct {
	Principal decimal.Decimal
	Start     civil.Date
	End       civil.Date
	Interest  decimal.Decimal
	Windows   []WindowResult
}

// Total returns principal plus accrued interest.
func (r *PenaltyResult) Total() decimal.Decimal {
	return r.Principal.Add(r.Interest)
}
