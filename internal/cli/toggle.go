package cli

import (
	"fmt"

	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/utils"
)

type ToggleCmd struct {
	Habit string `arg:"" help:"ID or name of the habit."`
	Date  string `arg:"" optional:"" help:"Day to toggle (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (c *ToggleCmd) Run(ctx *Context) error {
	if err := ctx.acquireLock(); err != nil {
		return err
	}
	if err := ctx.load(); err != nil {
		return err
	}

	now := ctx.now()
	day, err := utils.ParseDay(c.Date, now)
	if err != nil {
		return err
	}
	if utils.IsFutureDay(day, now) {
		return fmt.Errorf("cannot complete a habit on a future day: %s", utils.FormatDay(day))
	}

	h, err := ctx.habit(c.Habit)
	if err != nil {
		return err
	}

	h, err = ctx.Store.ToggleCompletion(h.ID, day)
	if err != nil {
		return err
	}
	ctx.checkSaved()

	if stats.CompletedOn(h, day) {
		ctx.printf("✓ %s completed on %s (streak: %d)\n", h.Name, utils.FormatDate(day), h.Streak)
	} else {
		ctx.printf("  %s unmarked on %s (streak: %d)\n", h.Name, utils.FormatDate(day), h.Streak)
	}
	return nil
}
