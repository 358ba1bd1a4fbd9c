package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
)

// JSONStore keeps the habit document as the whole content of a single file.
type JSONStore struct {
	path string
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, s.path)
	}
	return s.Save([]models.Habit{})
}

func (s *JSONStore) Load() ([]models.Habit, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No habit file yet", "path", s.path)
			return []models.Habit{}, nil
		}
		return []models.Habit{}, fmt.Errorf("failed to read habit file %s: %w", s.path, err)
	}

	habits, err := Decode(data)
	if err != nil {
		return []models.Habit{}, &ReadError{Path: s.path, Err: err}
	}

	logger.Debug("Loaded habits", "path", s.path, "count", len(habits))
	return habits, nil
}

func (s *JSONStore) Save(habits []models.Habit) error {
	data, err := Encode(habits)
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return &WriteError{Path: s.path, Err: fmt.Errorf("failed to create config directory: %w", err)}
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	logger.Debug("Saved habits", "path", s.path, "count", len(habits))
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// GetConfigPath returns the path to the habit file.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
