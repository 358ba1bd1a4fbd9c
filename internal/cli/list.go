package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/stats"
)

type ListCmd struct {
	Search string `short:"s" help:"Only show habits whose name or description contains this text."`
}

func (c *ListCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	if ctx.Store.Len() == 0 {
		ctx.println("No habits found. Add one with 'habitlit add'.")
		return nil
	}
	habits := ctx.Store.Search(c.Search)
	if len(habits) == 0 {
		ctx.printf("No habits match %q.\n", c.Search)
		return nil
	}

	now := ctx.now()
	for _, h := range habits {
		name := h.Name
		if h.Icon != "" {
			name = h.Icon + " " + name
		}
		ctx.printf("[%s] %-30s %-22s streak %3d  %s\n",
			checkMark(stats.CompletedOn(h, now)),
			name,
			stats.FrequencyLabel(h.Frequency),
			h.Streak,
			shortID(h.ID),
		)
		if h.Description != "" {
			ctx.printf("      %s\n", h.Description)
		}
	}
	return nil
}

// shortID trims a UUID to its first block for compact listings.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return fmt.Sprintf("(%s)", id[:i])
	}
	return fmt.Sprintf("(%s)", id)
}
