// Package lock keeps two habitlit processes from writing the same store.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrAlreadyRunning is returned when another live habitlit process holds the lock.
var ErrAlreadyRunning = errors.New("another habitlit process is using this store")

// AlreadyRunningError carries the pid of the process holding the lock.
type AlreadyRunningError struct {
	PID  int
	Path string
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("%v (pid %d)", ErrAlreadyRunning, e.PID)
}

func (e *AlreadyRunningError) Is(target error) bool {
	return target == ErrAlreadyRunning
}

func (e *AlreadyRunningError) Hint() string {
	return fmt.Sprintf("close the other habitlit session, or remove %s if it is stale", e.Path)
}

// Lock is a held lockfile.
type Lock struct {
	path string
	pid  int
}

// Path returns the lockfile path for a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, constants.LockfileName)
}

// Acquire takes the lock in dataDir. A lockfile naming a process that is
// gone, or that isn't habitlit, is considered stale and replaced.
func Acquire(dataDir string) (*Lock, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := Path(dataDir)
	pid := getpidFunc()

	for attempt := 0; attempt < constants.LockMaxRetries; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d\n", pid)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			logger.Debug("Acquired lock", "path", path, "pid", pid)
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		holder, live := holderOf(path)
		if live && holder != pid {
			return nil, &AlreadyRunningError{PID: holder, Path: path}
		}

		logger.Warn("Removing stale lockfile", "path", path, "pid", holder)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
		time.Sleep(constants.LockRetryDelay)
	}

	return nil, fmt.Errorf("failed to acquire lock at %s after %d attempts", path, constants.LockMaxRetries)
}

// holderOf reads the pid in the lockfile and reports whether it belongs to
// a running habitlit process.
func holderOf(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		return 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}

	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		logger.Debug("Lock holder is not habitlit", "pid", pid, "executable", process.Executable())
		return pid, false
	}

	return pid, true
}

// Release removes the lockfile if it is still ours.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}

	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if strings.TrimSpace(string(content)) != strconv.Itoa(l.pid) {
		logger.Warn("Lockfile taken over by another process, leaving it", "path", l.path)
		return nil
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	logger.Debug("Released lock", "path", l.path)
	return nil
}
