package cli

import (
	"strings"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
)

type AddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `short:"D" help:"Optional description."`
	FrequencyFlags
	Goal     int    `short:"g" help:"Target streak length in days (0 for none)."`
	Icon     string `help:"Icon shown next to the habit."`
	Color    string `help:"Display color (e.g. #7c3aed)."`
	Reminder string `short:"r" help:"Reminder time, stored as given (e.g. 07:30)."`
}

func (c *AddCmd) Run(ctx *Context) error {
	if err := ctx.acquireLock(); err != nil {
		return err
	}
	if err := ctx.load(); err != nil {
		return err
	}

	freq, err := c.FrequencyFlags.build(models.Daily())
	if err != nil {
		return err
	}

	in := models.HabitInput{
		Name:         strings.TrimSpace(c.Name),
		Description:  strings.TrimSpace(c.Description),
		Icon:         c.Icon,
		Color:        c.Color,
		Frequency:    freq,
		Goal:         goalPtr(c.Goal),
		ReminderTime: c.Reminder,
	}
	result := ctx.Validator.ValidateInput(in)
	if err := result.Err(); err != nil {
		return err
	}

	h := ctx.Store.AddHabit(in)
	ctx.checkSaved()

	ctx.printf("Added habit: %s (%s, ID: %s)\n", h.Name, stats.FrequencyLabel(h.Frequency), h.ID)
	return nil
}
