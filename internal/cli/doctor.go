package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitlit/internal/backup"
	"github.com/julianstephens/habitlit/internal/lock"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

type DoctorCmd struct{}

// checkResult is the outcome of a single diagnostic.
type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
	checkSkipped
)

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	report := func(name string, res checkResult, detail error) {
		switch res {
		case checkOK:
			ctx.printf("✓ %s: OK\n", name)
		case checkWarn:
			ctx.printf("⚠ %s: WARNING\n", name)
			ctx.printf("   %v\n", detail)
		case checkFail:
			ctx.printf("❌ %s: FAIL\n", name)
			ctx.printf("   Error: %v\n", detail)
			hasError = true
		case checkSkipped:
			ctx.printf("⊘ %s: SKIPPED (%v)\n", name, detail)
		}
	}

	// Check 1: store readable
	stored, err := checkStoreReadable(ctx)
	storeOK := err == nil
	if err != nil {
		report("Store readable", checkFail, err)
	} else {
		report("Store readable", checkOK, nil)
		if saved, err := lastSaved(ctx); err == nil {
			ctx.printf("   %d habit(s), last saved %s\n", len(stored), humanize.Time(saved))
		}
	}

	// Check 2: schema up to date (SQLite only)
	res, err := checkSchema(ctx)
	report("Schema version", res, err)

	// Check 3: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		report("Backups present", checkWarn, err)
	} else {
		report("Backups present", checkOK, nil)
	}

	// Check 4: data validation (only if the store is readable)
	if storeOK {
		if err := checkValidation(ctx, stored); err != nil {
			report("Data validation", checkFail, err)
		} else {
			report("Data validation", checkOK, nil)
		}
	} else {
		report("Data validation", checkSkipped, fmt.Errorf("store not readable"))
	}

	// Check 5: lock not held by another process
	if err := checkLock(ctx); err != nil {
		report("Instance lock", checkWarn, err)
	} else {
		report("Instance lock", checkOK, nil)
	}

	// Check 6: clock/timezone sanity
	if err := checkClockTimezone(ctx); err != nil {
		report("Clock/timezone", checkFail, err)
	} else {
		report("Clock/timezone", checkOK, nil)
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReadable(ctx *Context) ([]models.Habit, error) {
	path := ctx.provider().GetConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no store at %s - run 'habitlit init' or add a habit", path)
	}

	habits, err := ctx.provider().Load()
	if err != nil {
		return nil, err
	}

	// For SQLite, also try a simple query
	if sqliteStore, ok := ctx.provider().(*storage.SQLiteStore); ok {
		db, err := sqliteStore.GetDB()
		if err != nil {
			return nil, err
		}
		var result int
		if err := db.Get(&result, "SELECT 1"); err != nil {
			return nil, fmt.Errorf("failed to query database: %w", err)
		}
	}

	return habits, nil
}

// lastSaved reports when the habit document was last written.
func lastSaved(ctx *Context) (time.Time, error) {
	if sqliteStore, ok := ctx.provider().(*storage.SQLiteStore); ok {
		return sqliteStore.UpdatedAt()
	}
	info, err := os.Stat(ctx.provider().GetConfigPath())
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func checkSchema(ctx *Context) (checkResult, error) {
	sqliteStore, ok := ctx.provider().(*storage.SQLiteStore)
	if !ok {
		return checkSkipped, fmt.Errorf("JSON store has no schema")
	}
	if _, err := os.Stat(sqliteStore.GetConfigPath()); os.IsNotExist(err) {
		return checkSkipped, fmt.Errorf("no database yet")
	}

	status, err := sqliteStore.SchemaStatus()
	if err != nil {
		return checkFail, fmt.Errorf("failed to read schema version: %w", err)
	}
	if status.Current > status.Latest {
		return checkFail, fmt.Errorf("database schema version (%d) is newer than supported version (%d)", status.Current, status.Latest)
	}
	if !status.UpToDate() {
		return checkFail, fmt.Errorf("migrations incomplete: current version %d, latest version %d", status.Current, status.Latest)
	}
	return checkOK, nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.provider().GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitlit backup create'")
	}

	return nil
}

func checkValidation(ctx *Context, habits []models.Habit) error {
	result := ctx.Validator.ValidateCollection(habits, ctx.now())
	if !result.HasConflicts() {
		return nil
	}
	return fmt.Errorf("%d conflict(s) found - run 'habitlit validate' for details", len(result.Conflicts))
}

func checkLock(ctx *Context) error {
	if ctx.held != nil {
		return nil
	}
	dir := filepath.Dir(ctx.provider().GetConfigPath())
	l, err := lock.Acquire(dir)
	if err != nil {
		return err
	}
	return l.Release()
}

func checkClockTimezone(ctx *Context) error {
	// Check if system time is reasonable
	now := ctx.now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	// Day boundaries follow the local zone
	if name, offset := now.Zone(); offset == 0 && name == "UTC" {
		ctx.printf("   Note: timezone is UTC, days roll over at UTC midnight\n")
	}

	return nil
}
