package service

import (
	"time"

	"go-inventory-pos/internal/apperr"
)

const dayLayout = "2006-01-02"

// parseDay reads a YYYY-MM-DD date as midnight in loc.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, s, loc)
	if err != nil {
		return time.Time{}, apperr.ErrInvalidDate
	}
	return t, nil
}

// dayBounds returns the half-open range [start of day, start of next day).
func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}
