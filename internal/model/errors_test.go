package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_IsAndAs(t *testing.T) {
	rangeErr := fmt.Errorf("segment: %w", &InvalidRangeError{Start: d(2023, 1, 1), End: d(2022, 1, 1)})
	assert.ErrorIs(t, rangeErr, ErrInvalidRange)
	assert.NotErrorIs(t, rangeErr, ErrDataSource)

	cause := errors.New("connection refused")
	srcErr := fmt.Errorf("fetch: %w", &DataSourceError{Source: "cbi", Err: cause})
	assert.ErrorIs(t, srcErr, ErrDataSource)
	assert.ErrorIs(t, srcErr, cause)
	var dse *DataSourceError
	assert.ErrorAs(t, srcErr, &dse)
	assert.Equal(t, "cbi", dse.Source)

	noRates := &NoRatesFoundError{From: d(2022, 1, 1), To: d(2022, 1, 1)}
	assert.ErrorIs(t, noRates, ErrNoRatesFound)
	assert.NotErrorIs(t, noRates, ErrDataSource)
	assert.Contains(t, noRates.Error(), "2022-01-01")
}
