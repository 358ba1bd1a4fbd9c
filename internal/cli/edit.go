package cli

import (
	"strings"

	"github.com/julianstephens/habitlit/internal/stats"
)

type EditCmd struct {
	Habit       string  `arg:"" help:"ID or name of the habit to edit."`
	Name        *string `help:"New name."`
	Description *string `short:"D" help:"New description (empty to clear)."`
	FrequencyFlags
	Goal     *int    `short:"g" help:"New target streak length (0 to clear)."`
	Icon     *string `help:"New icon (empty to clear)."`
	Color    *string `help:"New color (empty to clear)."`
	Reminder *string `short:"r" help:"New reminder time (empty to clear)."`
}

func (c *EditCmd) Run(ctx *Context) error {
	if err := ctx.acquireLock(); err != nil {
		return err
	}
	if err := ctx.load(); err != nil {
		return err
	}

	h, err := ctx.habit(c.Habit)
	if err != nil {
		return err
	}

	in := h.Input()
	if c.Name != nil {
		in.Name = strings.TrimSpace(*c.Name)
	}
	if c.Description != nil {
		in.Description = strings.TrimSpace(*c.Description)
	}
	if c.FrequencyFlags.set() {
		if in.Frequency, err = c.FrequencyFlags.build(h.Frequency); err != nil {
			return err
		}
	}
	if c.Goal != nil {
		in.Goal = goalPtr(*c.Goal)
	}
	if c.Icon != nil {
		in.Icon = *c.Icon
	}
	if c.Color != nil {
		in.Color = *c.Color
	}
	if c.Reminder != nil {
		in.ReminderTime = *c.Reminder
	}

	result := ctx.Validator.ValidateInput(in)
	if err := result.Err(); err != nil {
		return err
	}

	if err := ctx.Store.UpdateHabit(h.Apply(in)); err != nil {
		return err
	}
	ctx.checkSaved()

	ctx.printf("Updated habit: %s (%s)\n", in.Name, stats.FrequencyLabel(in.Frequency))
	return nil
}
