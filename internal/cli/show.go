package cli

import (
	"strings"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/utils"
)

type ShowCmd struct {
	Habit string `arg:"" help:"ID or name of the habit."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	h, err := ctx.habit(c.Habit)
	if err != nil {
		return err
	}

	now := ctx.now()
	d := stats.Detail(h, now)

	title := h.Name
	if h.Icon != "" {
		title = h.Icon + " " + title
	}
	ctx.println(title)
	if h.Description != "" {
		ctx.println(h.Description)
	}
	ctx.println()
	ctx.printf("ID:             %s\n", h.ID)
	ctx.printf("Frequency:      %s\n", d.Frequency)
	ctx.printf("Created:        %s (%s)\n", utils.FormatDate(h.CreatedAt), d.Created)
	ctx.printf("Current streak: %d\n", h.Streak)
	ctx.printf("Longest streak: %d\n", d.LongestStreak)
	ctx.printf("Completions:    %d\n", d.TotalDone)
	if h.Goal != nil {
		ctx.printf("Goal:           %d days (%d%%)\n", *h.Goal, d.Progress)
	} else {
		ctx.printf("Progress:       %d%%\n", d.Progress)
	}
	if h.ReminderTime != "" {
		ctx.printf("Reminder:       %s\n", h.ReminderTime)
	}
	ctx.printf("Today:          %s\n", todayLabel(d.CompletedToday))
	ctx.printf("This week:      %s\n", weekLine(stats.Week(h, now)))
	return nil
}

func todayLabel(done bool) string {
	if done {
		return "completed"
	}
	return "not completed"
}

// weekLine renders a Sunday-started week of statuses, e.g. "S✓ M✗ T· ...".
func weekLine(week []models.HabitStatus) string {
	labels := []string{"S", "M", "T", "W", "T", "F", "S"}
	parts := make([]string, 0, len(week))
	for i, st := range week {
		parts = append(parts, labels[i]+statusGlyph(st))
	}
	return strings.Join(parts, " ")
}

func statusGlyph(st models.HabitStatus) string {
	switch st {
	case models.HabitStatusCompleted:
		return "✓"
	case models.HabitStatusMissed:
		return "✗"
	default:
		return "·"
	}
}
