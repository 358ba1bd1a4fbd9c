package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/migration"
	"github.com/julianstephens/habitlit/internal/models"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded schema migrations for the SQLite store.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return sub
}

// SQLiteStore keeps the habit document in a key-value table of a SQLite database.
type SQLiteStore struct {
	path string
	db   *sqlx.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, s.path)
	}
	if err := s.open(); err != nil {
		return err
	}
	return s.Save([]models.Habit{})
}

// open creates the database if needed and applies pending migrations.
func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps writes serialized and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	runner := migration.NewRunner(db, Migrations())
	if _, err := runner.ApplyMigrations(func(msg string) { logger.Debug(msg) }); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Load() ([]models.Habit, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			logger.Debug("No habit database yet", "path", s.path)
			return []models.Habit{}, nil
		}
		if err := s.open(); err != nil {
			return []models.Habit{}, err
		}
	}

	var value string
	err := s.db.Get(&value, "SELECT value FROM kv WHERE key = ?", constants.StorageKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Habit{}, nil
		}
		return []models.Habit{}, fmt.Errorf("failed to query habits: %w", err)
	}

	habits, err := Decode([]byte(value))
	if err != nil {
		return []models.Habit{}, &ReadError{Path: s.path, Err: err}
	}

	logger.Debug("Loaded habits", "path", s.path, "count", len(habits))
	return habits, nil
}

func (s *SQLiteStore) Save(habits []models.Habit) error {
	if err := s.open(); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	data, err := Encode(habits)
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	_, err = s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, constants.StorageKey, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	logger.Debug("Saved habits", "path", s.path, "count", len(habits))
	return nil
}

// UpdatedAt returns when the habit document was last written.
func (s *SQLiteStore) UpdatedAt() (time.Time, error) {
	if err := s.open(); err != nil {
		return time.Time{}, err
	}
	var value string
	if err := s.db.Get(&value, "SELECT updated_at FROM kv WHERE key = ?", constants.StorageKey); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}

// SchemaStatus reports the migration state of the database.
func (s *SQLiteStore) SchemaStatus() (migration.Status, error) {
	if err := s.open(); err != nil {
		return migration.Status{}, err
	}
	return migration.NewRunner(s.db, Migrations()).Status()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// GetConfigPath returns the path to the database file.
func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB returns the open database, opening it if necessary.
func (s *SQLiteStore) GetDB() (*sqlx.DB, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	return s.db, nil
}
