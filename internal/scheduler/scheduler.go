package scheduler

import (
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/utils"
)

// AgendaItem is one habit's entry in a day's agenda.
type AgendaItem struct {
	Habit    models.Habit
	Due      bool
	Status   models.HabitStatus
	Progress int
	// DaysSinceLast is the number of days between the last completion on or
	// before the agenda day and the agenda day, or -1 if there is none.
	DaysSinceLast int
	// Lateness is DaysSinceLast measured in expected intervals; higher is more overdue.
	Lateness float64
}

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// Agenda lists every habit for day. Due, unfinished habits come first,
// most overdue first; then finished ones; then habits not due that day.
func (s *Scheduler) Agenda(habits []models.Habit, day, now time.Time) []AgendaItem {
	items := make([]AgendaItem, 0, len(habits))
	for _, h := range habits {
		item := AgendaItem{
			Habit:    h,
			Due:      utils.IsDue(h.Frequency, h.CreatedAt, day),
			Status:   stats.StatusOn(h, utils.StartOfDay(day), now),
			Progress: stats.Progress(h),
		}
		item.DaysSinceLast = daysSinceLast(h, day)
		item.Lateness = calculateLateness(h, item.DaysSinceLast)
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := rank(items[i]), rank(items[j])
		if ri != rj {
			return ri < rj
		}
		if items[i].Lateness != items[j].Lateness {
			return items[i].Lateness > items[j].Lateness
		}
		return strings.ToLower(items[i].Habit.Name) < strings.ToLower(items[j].Habit.Name)
	})

	return items
}

// Due returns only the agenda items due on day.
func (s *Scheduler) Due(habits []models.Habit, day, now time.Time) []AgendaItem {
	var due []AgendaItem
	for _, item := range s.Agenda(habits, day, now) {
		if item.Due {
			due = append(due, item)
		}
	}
	return due
}

func rank(item AgendaItem) int {
	switch {
	case item.Due && item.Status != models.HabitStatusCompleted:
		return 0
	case item.Status == models.HabitStatusCompleted:
		return 1
	default:
		return 2
	}
}

func daysSinceLast(h models.Habit, day time.Time) int {
	best := -1
	for _, d := range h.CompletedDates {
		n := utils.DaysBetween(d, day)
		if n < 0 {
			continue
		}
		if best < 0 || n < best {
			best = n
		}
	}
	return best
}

// expectedInterval is the nominal number of days between occurrences.
func expectedInterval(f models.Frequency) float64 {
	switch f.Type {
	case models.FrequencyWeekly:
		if n := len(f.Days); n > 0 {
			return 7 / float64(n)
		}
		return 7
	case models.FrequencyMonthly:
		return 30
	case models.FrequencyCustom:
		if f.CustomDays > 0 {
			return float64(f.CustomDays)
		}
	}
	return 1
}

func calculateLateness(h models.Habit, daysSince int) float64 {
	if daysSince < 0 {
		return 1.0
	}
	return float64(daysSince) / expectedInterval(h.Frequency)
}
