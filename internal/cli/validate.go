package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Repair fixable conflicts and save the result."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if cmd.Fix {
		if err := ctx.acquireLock(); err != nil {
			return err
		}
	}

	// Validate the stored document, not the refreshed in-memory copy, so
	// stale streaks show up.
	stored, err := ctx.provider().Load()
	if err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	now := ctx.now()
	ctx.println("Validating habits...")
	result := ctx.Validator.ValidateCollection(stored, now)

	ctx.println()
	ctx.println(strings.TrimRight(result.FormatReport(), "\n"))

	if !result.HasConflicts() || !cmd.Fix {
		if result.HasConflicts() && fixableCount(result) > 0 {
			ctx.println()
			ctx.printf("%d conflict(s) can be repaired with 'habitlit validate --fix'.\n", fixableCount(result))
		}
		return nil
	}

	if err := ctx.load(); err != nil {
		return err
	}

	var actions []validation.FixAction
	for _, h := range stored {
		fixed, taken := ctx.Validator.Fix(h, now)
		if len(taken) == 0 {
			continue
		}
		if err := ctx.Store.UpdateHabit(fixed); err != nil {
			return fmt.Errorf("failed to save fix for %q: %w", h.Name, err)
		}
		actions = append(actions, taken...)
	}
	ctx.checkSaved()

	ctx.println()
	if len(actions) == 0 {
		ctx.println("Nothing could be fixed automatically.")
		return nil
	}
	ctx.println("Applied fixes:")
	for _, a := range actions {
		ctx.printf("- %s\n", a.Action)
	}
	return nil
}

func fixableCount(result validation.ValidationResult) int {
	n := 0
	for _, c := range result.Conflicts {
		if c.Fixable {
			n++
		}
	}
	return n
}
