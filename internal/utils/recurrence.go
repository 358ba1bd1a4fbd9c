package utils

import (
	"time"

	"github.com/julianstephens/habitlit/internal/models"
)

// IsDue determines if a habit with the given frequency is expected to be
// performed on day. Nothing is due before the habit was created.
func IsDue(freq models.Frequency, createdAt, day time.Time) bool {
	if DaysBetween(createdAt, day) < 0 {
		return false
	}

	switch freq.Type {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly:
		days := freq.Weekdays()
		if len(days) == 0 {
			return day.Weekday() == createdAt.Weekday()
		}
		for _, wd := range days {
			if day.Weekday() == wd {
				return true
			}
		}
		return false
	case models.FrequencyMonthly:
		// Anchor on the creation day of month; short months fall back to their last day
		anchor := createdAt.Day()
		if last := daysInMonth(day); anchor > last {
			anchor = last
		}
		return day.Day() == anchor
	case models.FrequencyCustom:
		interval := freq.CustomDays
		if interval < 1 {
			interval = 1
		}
		return DaysBetween(createdAt, day)%interval == 0
	default:
		return false
	}
}

func daysInMonth(t time.Time) int {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
