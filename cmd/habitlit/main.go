package main

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/habits"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/scheduler"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
)

var CLI struct {
	Version kong.VersionFlag
	Data    string `help:"Habit store path. A .db or .sqlite extension selects SQLite." type:"path" default:"${default_data}" env:"HABITLIT_DATA"`
	Debug   bool   `help:"Log debug output to stderr." env:"HABITLIT_DEBUG"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize habitlit storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add      cli.AddCmd      `cmd:"" help:"Add a new habit."`
	Edit     cli.EditCmd     `cmd:"" help:"Edit an existing habit."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete a habit."`
	Toggle   cli.ToggleCmd   `cmd:"" help:"Mark or unmark a habit as done on a day."`
	List     cli.ListCmd     `cmd:"" help:"List all habits."`
	Show     cli.ShowCmd     `cmd:"" help:"Show details for a habit."`
	Today    cli.TodayCmd    `cmd:"" help:"Show the habits due on a day."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show summary statistics."`
	Log      cli.LogCmd      `cmd:"" help:"Show completion history."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored habits for conflicts."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Debugging cli.DebugCmd `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	// A missing .env file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		apperrors.Fatalf("failed to load .env: %v", err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track daily habits and keep your streaks going"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":      constants.Version,
			"default_data": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:   CLI.Debug,
		DataDir: filepath.Dir(CLI.Data),
	}); err != nil {
		apperrors.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Close()

	provider := storage.Open(CLI.Data)
	logger.Debug("Starting", "command", ctx.Command(), "store", CLI.Data)

	appCtx := &cli.Context{
		Store:     habits.New(provider),
		Scheduler: scheduler.New(),
		Validator: validation.New(),
	}

	err := ctx.Run(appCtx)
	if rerr := appCtx.Release(); rerr != nil {
		logger.Warn("Failed to release store", "error", rerr)
	}
	if err != nil {
		apperrors.Fatal(err)
	}
}
