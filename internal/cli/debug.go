package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

type DebugCmd struct {
	Path DebugPathCmd `cmd:"" help:"Show storage and log paths."`
	Dump DebugDumpCmd `cmd:"" help:"Dump stored habits as JSON."`
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *Context) error {
	// Output in machine-readable format
	output := map[string]string{
		"path":    ctx.provider().GetConfigPath(),
		"adapter": adapterName(ctx.provider()),
		"log":     logger.Path(),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	ctx.println(string(jsonBytes))
	return nil
}

type DebugDumpCmd struct {
	Habit string `arg:"" optional:"" help:"ID or name of a single habit to dump."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	if err := ctx.load(); err != nil {
		return err
	}

	habits := ctx.Store.Habits()
	if cmd.Habit != "" {
		h, err := ctx.habit(cmd.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	}

	// Dump in the stored document format.
	data, err := storage.Encode(habits)
	if err != nil {
		return fmt.Errorf("failed to encode habits: %w", err)
	}

	ctx.println(string(data))
	return nil
}

func adapterName(p storage.Provider) string {
	switch p.(type) {
	case *storage.SQLiteStore:
		return "sqlite"
	case *storage.JSONStore:
		return "json"
	default:
		return "unknown"
	}
}
