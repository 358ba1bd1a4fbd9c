package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/utils"
)

type LogCmd struct {
	Habit string `arg:"" optional:"" help:"ID or name of a single habit to show."`
	Days  int    `short:"d" help:"Number of days of history to show." default:"14"`
}

func (c *LogCmd) Validate() error {
	if c.Days < 1 || c.Days > 366 {
		return fmt.Errorf("days must be between 1 and 366")
	}
	return nil
}

func (c *LogCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	habits := ctx.Store.Habits()
	if c.Habit != "" {
		h, err := ctx.habit(c.Habit)
		if err != nil {
			return err
		}
		habits = habits[:0]
		habits = append(habits, h)
	}
	if len(habits) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	now := ctx.now()
	start := utils.AddDays(now, -(c.Days - 1))
	ctx.printf("History from %s to %s (✓ done, ✗ missed, - not due)\n\n",
		utils.FormatDate(start), utils.FormatDate(now))

	for _, h := range habits {
		var row strings.Builder
		for i := 0; i < c.Days; i++ {
			day := utils.AddDays(start, i)
			switch {
			case stats.CompletedOn(h, day):
				row.WriteString("✓")
			case utils.IsDue(h.Frequency, h.CreatedAt, day):
				row.WriteString("✗")
			default:
				row.WriteString("-")
			}
		}
		ctx.printf("%-24s %s  %d\n", truncate(h.Name, 24), row.String(), h.Streak)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
