// Package streak computes consecutive-day completion runs.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/habitlit/internal/utils"
)

// Compute returns the number of consecutive calendar days, ending at today or
// yesterday, present in completedDates. The input slice is not modified.
//
// Future-dated entries are not excluded here; callers must keep them out of
// completedDates.
func Compute(completedDates []time.Time, today time.Time) int {
	if len(completedDates) == 0 {
		return 0
	}

	sorted := sortedDesc(completedDates)

	mostRecent := sorted[0]
	if !utils.IsSameDay(mostRecent, today) && !utils.IsYesterday(mostRecent, today) {
		return 0
	}

	count := 1
	for i := 0; i < len(sorted)-1; i++ {
		current, next := sorted[i], sorted[i+1]
		if utils.IsSameDay(current, next) {
			continue
		}
		if !utils.IsConsecutiveDay(next, current) {
			break
		}
		count++
	}
	return count
}

// Longest returns the longest run of consecutive calendar days anywhere in
// completedDates, regardless of how long ago it ended.
func Longest(completedDates []time.Time) int {
	if len(completedDates) == 0 {
		return 0
	}

	sorted := sortedDesc(completedDates)

	best, run := 1, 1
	for i := 0; i < len(sorted)-1; i++ {
		current, next := sorted[i], sorted[i+1]
		switch {
		case utils.IsSameDay(current, next):
			continue
		case utils.IsConsecutiveDay(next, current):
			run++
		default:
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

func sortedDesc(dates []time.Time) []time.Time {
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].After(sorted[j])
	})
	return sorted
}
