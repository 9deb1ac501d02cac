package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dannijak/IS-Macro/internal/model"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid range", &model.InvalidRangeError{}, exitInvalidInput},
		{"negative amount", fmt.Errorf("principal: %w", model.ErrInvalidAmount), exitInvalidInput},
		{"feed down", fmt.Errorf("window x: %w", &model.DataSourceError{Source: "cbi", Err: errors.New("503")}), exitDataSource},
		{"no rates", fmt.Errorf("window x: %w", &model.NoRatesFoundError{}), exitNoRates},
		{"other", errors.New("boom"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
