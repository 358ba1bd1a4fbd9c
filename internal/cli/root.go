package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/backup"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/habits"
	"github.com/julianstephens/habitlit/internal/lock"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/scheduler"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
)

type Context struct {
	Store     *habits.Store
	Scheduler *scheduler.Scheduler
	Validator *validation.Validator

	// Out, In and Err fall back to the process streams when nil.
	Out io.Writer
	In  io.Reader
	Err io.Writer

	held *lock.Lock
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) errOut() io.Writer {
	if c.Err == nil {
		return os.Stderr
	}
	return c.Err
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// provider returns the store's persistence adapter.
func (c *Context) provider() storage.Provider {
	return c.Store.Provider()
}

// load reads the collection. Malformed data is reported as a warning and
// the command continues with an empty collection. Any other read failure
// aborts the command.
func (c *Context) load() error {
	err := c.Store.Load()
	if err == nil {
		return nil
	}
	var readErr *storage.ReadError
	if errors.As(err, &readErr) {
		apperrors.Warn(c.errOut(), err)
		return nil
	}
	return fmt.Errorf("failed to load habits: %w", err)
}

// checkSaved surfaces a failed write after a mutation. The change is kept in
// memory only, so the command still succeeds.
func (c *Context) checkSaved() {
	if err := c.Store.SaveErr(); err != nil {
		apperrors.Warn(c.errOut(), fmt.Errorf("changes were not saved: %w", err))
	}
}

// habit resolves a habit by id or case-insensitive name.
func (c *Context) habit(ref string) (models.Habit, error) {
	h, ok := c.Store.FindByName(ref)
	if !ok {
		return models.Habit{}, fmt.Errorf("%w: %s", habits.ErrHabitNotFound, ref)
	}
	return h, nil
}

func (c *Context) now() time.Time {
	return c.Store.Now()
}

// confirm asks a y/N question on In.
func (c *Context) confirm(prompt string) (bool, error) {
	c.printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(c.in())
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// PerformAutomaticBackup takes the daily backup if none exists yet. Failures
// are logged and never stop the caller.
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.provider().GetConfigPath())
	if _, err := mgr.AutoBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// acquireLock takes the single-writer lock for the store's directory. It is
// held until Release.
func (c *Context) acquireLock() error {
	if c.held != nil {
		return nil
	}
	l, err := lock.Acquire(filepath.Dir(c.provider().GetConfigPath()))
	if err != nil {
		return err
	}
	c.held = l
	return nil
}

// Release drops the lock, if held, and closes the store.
func (c *Context) Release() error {
	var errs []error
	if c.held != nil {
		errs = append(errs, c.held.Release())
		c.held = nil
	}
	if c.Store != nil {
		errs = append(errs, c.provider().Close())
	}
	return errors.Join(errs...)
}

// FrequencyFlags are the flags shared by add and edit that describe a cadence.
type FrequencyFlags struct {
	Frequency string `short:"f" help:"Frequency (daily|weekly|monthly|custom)."`
	Days      string `short:"w" help:"Comma-separated weekdays for weekly habits (e.g. mon,wed,fri)."`
	Every     int    `short:"n" help:"Interval in days for custom habits."`
}

// set reports whether any frequency flag was given.
func (f FrequencyFlags) set() bool {
	return f.Frequency != "" || f.Days != "" || f.Every != 0
}

// build turns the flags into a Frequency. base supplies the type when only
// --days or --every is given.
func (f FrequencyFlags) build(base models.Frequency) (models.Frequency, error) {
	freqType := models.FrequencyType(f.Frequency)
	switch {
	case freqType != "":
	case f.Days != "":
		freqType = models.FrequencyWeekly
	case f.Every != 0:
		freqType = models.FrequencyCustom
	default:
		freqType = base.Type
	}
	if !freqType.Valid() {
		return models.Frequency{}, fmt.Errorf("invalid frequency: %q (expected daily, weekly, monthly or custom)", freqType)
	}

	freq := models.Frequency{Type: freqType}
	switch freqType {
	case models.FrequencyWeekly:
		if f.Days != "" {
			wds, err := parseWeekdays(f.Days)
			if err != nil {
				return models.Frequency{}, err
			}
			freq = models.Weekly(wds...)
		} else if base.Type == models.FrequencyWeekly {
			freq.Days = base.Clone().Days
		}
	case models.FrequencyCustom:
		freq.CustomDays = f.Every
		if f.Every == 0 && base.Type == models.FrequencyCustom {
			freq.CustomDays = base.CustomDays
		}
	}
	return freq, nil
}

func parseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	seen := make(map[time.Weekday]bool)
	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		wd, ok := dayMap[part]
		if !ok {
			// Try parsing as number (0=Sunday, 6=Saturday)
			num, err := strconv.Atoi(part)
			if err != nil || num < 0 || num > 6 {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
			wd = time.Weekday(num)
		}
		if !seen[wd] {
			seen[wd] = true
			weekdays = append(weekdays, wd)
		}
	}

	return weekdays, nil
}

// goalPtr maps the --goal flag to the optional goal; 0 means none.
func goalPtr(goal int) *int {
	if goal == 0 {
		return nil
	}
	return &goal
}

// checkMark renders a completion flag.
func checkMark(done bool) string {
	if done {
		return "✓"
	}
	return " "
}
