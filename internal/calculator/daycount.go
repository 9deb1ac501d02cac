package calculator

import "cloud.google.com/go/civil"

// Convention names a day-count convention.
type Convention string

const (
	// Thirty360European is 30E/360 (Eurobond basis): both day-of-month values
	// are capped at 30 and every month counts as 30 days.
	Thirty360European Convention = "30E/360"
	Actual360         Convention = "ACT/360"
	Actual365Fixed    Convention = "ACT/365F"
)

// DayCount returns the day-count numerator between two dates.
// Reversed dates give a negative count.
func DayCount(from, to civil.Date, conv Convention) int {
	switch conv {
	case Actual360, Actual365Fixed:
		return to.DaysSince(from)
	default:
		d1 := from.Day
		if d1 > 30 {
			d1 = 30
		}
		d2 := to.Day
		if d2 > 30 {
			d2 = 30
		}
		return 360*(to.Year-from.Year) + 30*(int(to.Month)-int(from.Month)) + (d2 - d1)
	}
}

// YearBasis returns the denominator of a convention's year fraction.
func YearBasis(conv Convention) int {
	if conv == Actual365Fixed {
		return 365
	}
	return 360
}

// YearFraction computes the fraction of a year between two dates.
func YearFraction(from, to civil.Date, conv Convention) float64 {
	return float64(DayCount(from, to, conv)) / float64(YearBasis(conv))
}
