package cli

import (
	"github.com/julianstephens/habitlit/internal/stats"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	s := stats.Summarize(ctx.Store.Habits(), ctx.now())

	ctx.println(stats.Greeting(s))
	ctx.println()
	ctx.printf("Total habits:     %d\n", s.Total)
	ctx.printf("Completed today:  %d\n", s.CompletedToday)
	ctx.printf("Completion rate:  %d%%\n", s.CompletionRate)
	ctx.printf("Total streak:     %d\n", s.TotalStreak)
	ctx.printf("Longest streak:   %d\n", s.LongestStreak)
	return nil
}
