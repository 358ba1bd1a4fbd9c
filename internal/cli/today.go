package cli

import (
	"github.com/julianstephens/habitlit/internal/utils"
)

type TodayCmd struct {
	Date string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
	All  bool   `short:"a" help:"Include habits that are not due."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	now := ctx.now()
	day, err := utils.ParseDay(c.Date, now)
	if err != nil {
		return err
	}

	habits := ctx.Store.Habits()
	items := ctx.Scheduler.Due(habits, day, now)
	if c.All {
		items = ctx.Scheduler.Agenda(habits, day, now)
	}

	ctx.printf("Habits for %s\n\n", utils.FormatDate(day))
	if len(items) == 0 {
		ctx.println("Nothing due.")
		return nil
	}

	for _, item := range items {
		note := ""
		switch {
		case !item.Due:
			note = "not due"
		case item.DaysSinceLast < 0:
			note = "never done"
		case item.DaysSinceLast > 1:
			note = pluralDays(item.DaysSinceLast) + " since last"
		}
		ctx.printf("%s %-30s streak %3d  %3d%%  %s\n",
			statusGlyph(item.Status), item.Habit.Name, item.Habit.Streak, item.Progress, note)
	}
	return nil
}
