package model

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
)

var (
	// ErrInvalidRange is returned when a start date falls after its end date.
	ErrInvalidRange = errors.New("invalid range: start after end")

	// ErrDataSource is returned when the rate feed is unreachable or malformed.
	ErrDataSource = errors.New("rate data source failure")

	// ErrNoRatesFound is returned when the feed answered but has no rate for the period.
	ErrNoRatesFound = errors.New("no penalty rates found")

	// ErrInvalidAmount is returned for negative principals.
	ErrInvalidAmount = errors.New("amount must not be negative")
)

// InvalidRangeError carries the offending bounds.
type InvalidRangeError struct {
	Start civil.Date
	End   civil.Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s", e.Start, e.End)
}

func (e *InvalidRangeError) Is(target error) bool { return target == ErrInvalidRange }

// DataSourceError wraps a transport or decoding failure from a named source.
type DataSourceError struct {
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("rate source %s: %v", e.Source, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

func (e *DataSourceError) Is(target error) bool { return target == ErrDataSource }

// NoRatesFoundError reports the month-normalized bounds that had no coverage.
type NoRatesFoundError struct {
	From civil.Date
	To   civil.Date
}

func (e *NoRatesFoundError) Error() string {
	return fmt.Sprintf("no penalty rates found between %s and %s", e.From, e.To)
}

func (e *NoRatesFoundError) Is(target error) bool { return target == ErrNoRatesFound }
