package calculator

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func TestDayCount_Thirty360European(t *testing.T) {
	tests := []struct {
		from, to civil.Date
		want     int
	}{
		{date(2022, 1, 20), date(2023, 1, 5), 345},
		{date(2022, 1, 31), date(2022, 2, 28), 28},
		{date(2022, 1, 30), date(2022, 3, 31), 60},
		{date(2022, 1, 31), date(2022, 3, 31), 60},
		{date(2020, 2, 29), date(2021, 2, 28), 359},
		{date(2022, 1, 1), date(2023, 1, 1), 360},
		{date(2022, 6, 15), date(2022, 6, 15), 0},
		{date(2022, 3, 1), date(2022, 2, 1), -30},
	}
	for _, tt := range tests {
		got := DayCount(tt.from, tt.to, Thirty360European)
		if got != tt.want {
			t.Errorf("DayCount(%s, %s): expected %d, got %d", tt.from, tt.to, tt.want, got)
		}
	}
}

func TestYearFraction(t *testing.T) {
	d := date(2022, 5, 17)
	assert.Zero(t, YearFraction(d, d, Thirty360European))

	assert.InDelta(t, 345.0/360.0, YearFraction(date(2022, 1, 20), date(2023, 1, 5), Thirty360European), 1e-12)
	assert.InDelta(t, 1.0, YearFraction(date(2021, 1, 1), date(2022, 1, 1), Thirty360European), 1e-12)
	assert.Less(t, YearFraction(date(2023, 1, 5), date(2022, 1, 20), Thirty360European), 0.0)
}

func TestYearFraction_Actual(t *testing.T) {
	from, to := date(2022, 1, 1), date(2023, 1, 1)
	assert.InDelta(t, 365.0/360.0, YearFraction(from, to, Actual360), 1e-12)
	assert.InDelta(t, 1.0, YearFraction(from, to, Actual365Fixed), 1e-12)
}
