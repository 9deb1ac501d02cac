package calculator

import (
	"cloud.google.com/go/civil"

	"github.com/dannijak/IS-Macro/internal/model"
)

// Segment splits [start, end] into consecutive one-year windows. The last
// window is truncated to end; start == end yields a single zero-length window.
func Segment(start, end civil.Date) ([]model.DateWindow, error) {
	if start.After(end) {
		return nil, &model.InvalidRangeError{Start: start, End: end}
	}

	var windows []model.DateWindow
	cursor := start
	for {
		next := model.AddYears(cursor, 1)
		if !next.Before(end) {
			break
		}
		windows = append(windows, model.DateWindow{From: cursor, To: next})
		cursor = next
	}
	return append(windows, model.DateWindow{From: cursor, To: end}), nil
}
