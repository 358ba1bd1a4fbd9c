package storage

import (
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitlit/internal/models"
)

// Provider persists the full habit collection as a single document.
//
// Concurrency note:
//   - Providers are not safe for concurrent use by multiple goroutines without external
//     synchronization.
//   - Only one habitlit process may write a given path at a time; see internal/lock.
type Provider interface {
	// Init creates an empty store. It fails if one already exists.
	Init() error
	// Load returns the stored habits. A missing store yields an empty
	// collection; malformed content yields an empty collection and a *ReadError.
	// Any other failure is returned as is and must not be treated as empty.
	Load() ([]models.Habit, error)
	// Save overwrites the stored collection. Failures are *WriteError.
	Save([]models.Habit) error
	Close() error

	GetConfigPath() string
}

// IsSQLitePath reports whether path names a SQLite database by extension.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Open returns the provider matching path's extension: SQLite for .db and
// .sqlite files, JSON otherwise.
func Open(path string) Provider {
	if IsSQLitePath(path) {
		return NewSQLiteStore(path)
	}
	return NewJSONStore(path)
}
