package model

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func d(y, m, day int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: day}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		in     civil.Date
		months int
		want   civil.Date
	}{
		{"plain", d(2022, 1, 20), 1, d(2022, 2, 20)},
		{"month end clamp", d(2022, 1, 31), 1, d(2022, 2, 28)},
		{"leap clamp", d(2024, 1, 31), 1, d(2024, 2, 29)},
		{"across year", d(2022, 11, 15), 3, d(2023, 2, 15)},
		{"backwards", d(2022, 3, 1), -1, d(2022, 2, 1)},
		{"backwards across year", d(2022, 1, 1), -1, d(2021, 12, 1)},
		{"backwards a year", d(2022, 1, 1), -12, d(2021, 1, 1)},
		{"backwards thirteen", d(2022, 1, 1), -13, d(2020, 12, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.in, tt.months))
		})
	}
}

func TestAddYears_LeapDay(t *testing.T) {
	assert.Equal(t, d(2021, 2, 28), AddYears(d(2020, 2, 29), 1))
	assert.Equal(t, d(2024, 2, 29), AddYears(d(2020, 2, 29), 4))
	assert.Equal(t, d(2023, 1, 20), AddYears(d(2022, 1, 20), 1))
}

func TestFirstOfMonth(t *testing.T) {
	assert.Equal(t, d(2023, 1, 1), FirstOfMonth(d(2023, 1, 5)))
	assert.Equal(t, d(2023, 1, 1), FirstOfMonth(d(2023, 1, 1)))
}

func TestDateWindow(t *testing.T) {
	w := DateWindow{From: d(2022, 1, 20), To: d(2023, 1, 5)}
	assert.Equal(t, "[2022-01-20, 2023-01-05]", w.String())
	assert.False(t, w.IsZeroLength())
	assert.True(t, DateWindow{From: w.From, To: w.From}.IsZeroLength())
}
