package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// RateEntry is a published penalty rate and the date it took effect.
type RateEntry struct {
	Date    civil.Date
	Percent decimal.Decimal // annual percentage, e.g. 10.75
}

// RateSubPeriod is a slice of a window accrued at a single rate.
type RateSubPeriod struct {
	From         civil.Date
	To           civil.Date
	Percent      decimal.Decimal
	Days         int     // day-count numerator under the calculation's convention
	YearFraction float64
	Interest     decimal.Decimal
}
