// Package stats derives summary figures and per-day status from habits.
package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/streak"
	"github.com/julianstephens/habitlit/internal/utils"
)

// Summary aggregates a habit collection.
type Summary struct {
	Total          int
	CompletedToday int
	// CompletionRate is the rounded percentage of habits completed today.
	CompletionRate int
	TotalStreak    int
	LongestStreak  int
}

// Summarize computes the summary of habits as of now.
func Summarize(habits []models.Habit, now time.Time) Summary {
	s := Summary{Total: len(habits)}
	if s.Total == 0 {
		return s
	}

	s.CompletedToday = lo.CountBy(habits, func(h models.Habit) bool {
		return CompletedOn(h, now)
	})
	s.CompletionRate = int(math.Round(float64(s.CompletedToday) / float64(s.Total) * 100))
	s.TotalStreak = lo.SumBy(habits, func(h models.Habit) int { return h.Streak })
	s.LongestStreak = lo.Max(lo.Map(habits, func(h models.Habit, _ int) int { return h.Streak }))
	return s
}

// CompletedOn reports whether h has a completion on day's calendar day.
func CompletedOn(h models.Habit, day time.Time) bool {
	return lo.ContainsBy(h.CompletedDates, func(d time.Time) bool {
		return utils.IsSameDay(d, day)
	})
}

// Progress returns how far h is towards its goal as a percentage in 0..100.
// Without a goal, each streak day counts for a fixed step.
func Progress(h models.Habit) int {
	var pct int
	if h.Goal != nil && *h.Goal > 0 {
		pct = int(math.Round(float64(h.Streak) / float64(*h.Goal) * 100))
	} else {
		pct = h.Streak * constants.ProgressPerDay
	}
	return lo.Clamp(pct, 0, 100)
}

// StatusOn reports h's status on date: pending if date is after now,
// completed if h was done that day, missed otherwise.
func StatusOn(h models.Habit, date, now time.Time) models.HabitStatus {
	if date.After(now) {
		return models.HabitStatusPending
	}
	if CompletedOn(h, date) {
		return models.HabitStatusCompleted
	}
	return models.HabitStatusMissed
}

// Week returns h's status for each day of the Sunday-started week containing now.
func Week(h models.Habit, now time.Time) []models.HabitStatus {
	return lo.Map(utils.WeekDates(now), func(d time.Time, _ int) models.HabitStatus {
		return StatusOn(h, d, now)
	})
}

// Greeting returns the banner message for a summary.
func Greeting(s Summary) string {
	switch {
	case s.Total == 0:
		return "Let's start building some positive habits today!"
	case s.CompletedToday == 0:
		return "You have habits to complete today."
	case s.CompletedToday < s.Total:
		return fmt.Sprintf("You've completed %d of %d habits today.", s.CompletedToday, s.Total)
	default:
		return "You've completed your habits for today."
	}
}

// HabitDetail collects the per-habit figures shown by `show`.
type HabitDetail struct {
	Habit          models.Habit
	Frequency      string
	Progress       int
	LongestStreak  int
	TotalDone      int
	CompletedToday bool
	Created        string
}

// Detail computes the figures for a single habit.
func Detail(h models.Habit, now time.Time) HabitDetail {
	return HabitDetail{
		Habit:          h,
		Frequency:      FrequencyLabel(h.Frequency),
		Progress:       Progress(h),
		LongestStreak:  streak.Longest(h.CompletedDates),
		TotalDone:      len(h.CompletedDates),
		CompletedToday: CompletedOn(h, now),
		Created:        humanize.RelTime(h.CreatedAt, now, "ago", "from now"),
	}
}

var titleCaser = cases.Title(language.English)

// FrequencyLabel formats a frequency for display, e.g. "Weekly on Mon,Wed".
func FrequencyLabel(f models.Frequency) string {
	s := f.String()
	if s == "" {
		return s
	}
	// Title-case only the leading word so weekday abbreviations stay intact.
	first, rest := s, ""
	for i, r := range s {
		if r == ' ' {
			first, rest = s[:i], s[i:]
			break
		}
	}
	return titleCaser.String(first) + rest
}
