package constants

import "time"

const (
	AppName           = "habitlit"
	DefaultConfigPath = "~/.config/habitlit/habits.json"
	Version           = "v0.1.0"

	// StorageKey is the durable key the habit document is written under.
	StorageKey = "habits"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayDateFormat matches the short month style shown on habit cards
	DisplayDateFormat = "Jan 2, 2006"

	// ISOTimestampFormat is the millisecond-precision UTC layout used in the habit document
	ISOTimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitlit-"

	// Lock constants
	LockfileName   = "habitlit.lock"
	LockMaxRetries = 3
	LockRetryDelay = 50 * time.Millisecond

	// Log constants
	LogDirName  = "logs"
	LogFileName = "habitlit.log"
)

// Habit field limits enforced by the form layer
const (
	MaxNameLength        = 50
	MaxDescriptionLength = 200
	MinCustomDays        = 1
	MinGoal              = 1
	MaxWeekday           = 6

	// ProgressPerDay is the progress credited per streak day when a habit has no goal
	ProgressPerDay = 10
)
