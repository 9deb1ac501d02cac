package model

import (
	"time"

	"cloud.google.com/go/civil"
)

// FirstOfMonth returns the first day of d's month.
func FirstOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

// AddMonths behaves like Excel's EDATE: the day is clamped to the last day
// of the target month instead of overflowing into the next one.
func AddMonths(d civil.Date, months int) civil.Date {
	total := int(d.Month) - 1 + months
	year := d.Year + total/12
	if total%12 < 0 {
		year--
	}
	month := time.Month((total%12+12)%12 + 1)

	day := d.Day
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return civil.Date{Year: year, Month: month, Day: day}
}

// AddYears adds whole years, mapping Feb 29 to Feb 28 in non-leap years.
func AddYears(d civil.Date, years int) civil.Date {
	return AddMonths(d, 12*years)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
