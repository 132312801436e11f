// Package datetime provides standardized date handling across the
// application. All dates are stored and transmitted in UTC.
package datetime

import (
	"math"
	"time"
)

// DateFormat is the standard date-only format (YYYY-MM-DD).
const DateFormat = "2006-01-02"

// StartOfDay returns the datetime at 00:00:00 UTC.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the datetime at 23:59:59.999999999 UTC.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, time.UTC)
}

// SameDay reports whether two instants fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// DayDiff returns the whole calendar days from a to b (b - a), ignoring
// time-of-day. Negative when b precedes a.
func DayDiff(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// DaysUntil returns the calendar days from now until deadline, rounded up.
// The result is negative for past deadlines; callers treat that as overdue,
// not as an error.
func DaysUntil(deadline, now time.Time) int {
	diff := deadline.Sub(now).Hours() / 24
	return int(math.Ceil(diff))
}

// AddMonths adds n calendar months using Go's native rollover semantics,
// so Jan 31 + 1 month lands in early March.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// YearsBetween returns the fractional-year span between two instants using
// a 365.25-day year.
func YearsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / (365.25 * 24)
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
