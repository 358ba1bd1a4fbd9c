package cli

import "fmt"

type DeleteCmd struct {
	Habit string `arg:"" help:"ID or name of the habit to delete."`
	Yes   bool   `short:"y" help:"Delete without asking for confirmation."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
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

	if !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Delete %q and its %d completion(s)?", h.Name, len(h.CompletedDates)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Delete cancelled.")
			return nil
		}
	}

	ctx.Store.DeleteHabit(h.ID)
	ctx.checkSaved()

	ctx.printf("Deleted habit: %s\n", h.Name)
	return nil
}
