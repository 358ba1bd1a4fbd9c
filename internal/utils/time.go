package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
)

// IsSameDay reports whether a and b fall on the same calendar day. Each value
// is read in its own location; the time of day is ignored.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsYesterday reports whether a falls on the calendar day before reference.
func IsYesterday(a, reference time.Time) bool {
	return IsSameDay(a, shiftDays(reference, -1))
}

// IsConsecutiveDay reports whether later is exactly one calendar day after earlier.
func IsConsecutiveDay(earlier, later time.Time) bool {
	return IsSameDay(shiftDays(earlier, 1), later)
}

// shiftDays moves t by n calendar days. The result is anchored at noon so a
// DST transition at midnight can't push it onto a neighbouring day.
func shiftDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 12, 0, 0, 0, t.Location())
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays returns midnight of the calendar day n days after t.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b. It is negative
// when b is before a.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// WeekDates returns the seven days of the week containing reference, starting on Sunday.
func WeekDates(reference time.Time) []time.Time {
	start := AddDays(reference, -int(reference.Weekday()))
	dates := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, AddDays(start, i))
	}
	return dates
}

// FormatDate formats t for display, e.g. "Mar 4, 2025".
func FormatDate(t time.Time) string {
	return t.Format(constants.DisplayDateFormat)
}

// FormatDay formats t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDay parses a YYYY-MM-DD date, or the keywords "today" and "yesterday",
// into midnight of that day in now's location.
func ParseDay(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return StartOfDay(now), nil
	case "yesterday":
		return AddDays(now, -1), nil
	}

	t, err := time.ParseInLocation(constants.DateFormat, strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, 'today' or 'yesterday')", s)
	}
	return t, nil
}

// IsFutureDay reports whether day falls on a calendar day after now.
func IsFutureDay(day, now time.Time) bool {
	return DaysBetween(now, day) > 0
}
