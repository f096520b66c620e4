// Package timeutil provides calendar-day utilities for streak tracking.
// Streaks are counted in UTC days so that behavior is identical regardless
// of the server's local timezone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// StartOfDay returns the start of the UTC day (00:00:00) containing t.
func StartOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the end of the UTC day (23:59:59.999999999) containing t.
func EndOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 23, 59, 59, 999999999, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC day.
func SameDay(a, b time.Time) bool {
	ua, ub := a.UTC(), b.UTC()
	return ua.Year() == ub.Year() && ua.YearDay() == ub.YearDay()
}

// IsPreviousDay reports whether a falls on the UTC day immediately before b's day.
func IsPreviousDay(a, b time.Time) bool {
	return SameDay(a.AddDate(0, 0, 1), b)
}

// DaysBetween returns the number of whole UTC days from a's day to b's day.
// Returns 0 when both fall on the same day, negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// DateOnly formats t as "2006-01-02" in UTC.
func DateOnly(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
