// Package habits holds the in-memory habit collection and keeps it in sync
// with a storage.Provider.
package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/streak"
	"github.com/julianstephens/habitlit/internal/utils"
)

// ErrHabitNotFound is returned when an operation addresses an unknown habit id.
var ErrHabitNotFound = errors.New("habit not found")

// Store is the in-memory habit collection. Every mutation is followed by a
// full snapshot write to the provider. A failed write is logged and recorded
// in SaveErr; the in-memory state is kept.
//
// Store is not safe for concurrent use.
type Store struct {
	provider storage.Provider
	habits   []models.Habit
	now      func() time.Time
	newID    func() string
	saveErr  error
	// loadErr holds a failed read that was not a decode error. Saves are
	// refused while it is set so an unreadable store is never overwritten.
	loadErr error
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the function used for "now". Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator sets the function used to mint habit ids. Defaults to UUIDv4.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// New creates an empty store backed by provider. Call Load to read the
// persisted collection.
func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		habits:   []models.Habit{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the provider's content and
// recomputes every streak against today. A *storage.ReadError is logged and
// returned, and the store starts empty. Any other error leaves the store
// empty and read-only until a later Load succeeds.
func (s *Store) Load() error {
	habits, err := s.provider.Load()
	if err != nil {
		s.habits = []models.Habit{}
		var readErr *storage.ReadError
		if errors.As(err, &readErr) {
			logger.Error("Discarding unreadable habit data", "path", readErr.Path, "error", readErr.Err)
			s.loadErr = nil
		} else {
			logger.Error("Failed to load habits", "error", err)
			s.loadErr = err
		}
		return err
	}

	s.loadErr = nil
	s.habits = habits
	s.refresh()
	return nil
}

// AddHabit creates a habit from in and appends it to the collection.
// Input is not validated here.
func (s *Store) AddHabit(in models.HabitInput) models.Habit {
	h := models.Habit{
		ID:             s.newID(),
		CreatedAt:      s.now(),
		CompletedDates: []time.Time{},
		Streak:         0,
	}.Apply(in)

	s.habits = append(s.habits, h)
	logger.Info("Added habit", "id", h.ID, "name", h.Name)
	s.persist()
	return h.Clone()
}

// UpdateHabit replaces the stored habit with the same id. ID and CreatedAt
// are kept from the stored habit. Completions are reduced to one entry per
// calendar day and the streak is recomputed from them.
func (s *Store) UpdateHabit(h models.Habit) error {
	i := s.indexOf(h.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, h.ID)
	}

	updated := h.Clone()
	updated.CreatedAt = s.habits[i].CreatedAt
	updated.CompletedDates = completionDays(updated.CompletedDates)
	updated.Streak = streak.Compute(updated.CompletedDates, s.now())

	s.habits[i] = updated
	logger.Info("Updated habit", "id", h.ID, "name", h.Name)
	s.persist()
	return nil
}

// DeleteHabit removes the habit with id. Unknown ids are ignored.
func (s *Store) DeleteHabit(id string) {
	i := s.indexOf(id)
	if i < 0 {
		logger.Debug("Delete of unknown habit ignored", "id", id)
		return
	}

	name := s.habits[i].Name
	s.habits = append(s.habits[:i], s.habits[i+1:]...)
	logger.Info("Deleted habit", "id", id, "name", name)
	s.persist()
}

// ToggleCompletion marks date's calendar day as completed, or un-marks it if
// it already was, then recomputes the streak with today as reference.
func (s *Store) ToggleCompletion(id string, date time.Time) (models.Habit, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}

	h := &s.habits[i]
	kept := make([]time.Time, 0, len(h.CompletedDates)+1)
	removed := false
	for _, d := range h.CompletedDates {
		if utils.IsSameDay(d, date) {
			removed = true
			continue
		}
		kept = append(kept, d)
	}
	if !removed {
		kept = append(kept, utils.StartOfDay(date))
	}
	h.CompletedDates = kept
	h.Streak = streak.Compute(h.CompletedDates, s.now())

	logger.Info("Toggled completion", "id", id, "day", utils.FormatDay(date), "completed", !removed, "streak", h.Streak)
	s.persist()
	return h.Clone(), nil
}

// GetHabit looks up a habit by id.
func (s *Store) GetHabit(id string) (models.Habit, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Habit{}, false
	}
	return s.habits[i].Clone(), true
}

// Habits returns a copy of the collection in insertion order.
func (s *Store) Habits() []models.Habit {
	return lo.Map(s.habits, func(h models.Habit, _ int) models.Habit {
		return h.Clone()
	})
}

// Search returns the habits whose name or description contains query,
// ignoring case. An empty query matches everything.
func (s *Store) Search(query string) []models.Habit {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.Habits()
	}
	return lo.FilterMap(s.habits, func(h models.Habit, _ int) (models.Habit, bool) {
		match := strings.Contains(strings.ToLower(h.Name), q) ||
			strings.Contains(strings.ToLower(h.Description), q)
		return h.Clone(), match
	})
}

// FindByName returns the habit whose name equals name, ignoring case and
// surrounding whitespace. An exact id match is also accepted.
func (s *Store) FindByName(name string) (models.Habit, bool) {
	if h, ok := s.GetHabit(name); ok {
		return h, true
	}
	target := strings.TrimSpace(name)
	h, ok := lo.Find(s.habits, func(h models.Habit) bool {
		return strings.EqualFold(strings.TrimSpace(h.Name), target)
	})
	if !ok {
		return models.Habit{}, false
	}
	return h.Clone(), true
}

// RefreshStreaks recomputes every streak against today and saves if any changed.
func (s *Store) RefreshStreaks() {
	if s.refresh() {
		s.persist()
	}
}

// refresh recomputes streaks in memory and reports whether any changed.
func (s *Store) refresh() bool {
	today := s.now()
	changed := false
	for i := range s.habits {
		if want := streak.Compute(s.habits[i].CompletedDates, today); want != s.habits[i].Streak {
			logger.Debug("Refreshed streak", "id", s.habits[i].ID, "from", s.habits[i].Streak, "to", want)
			s.habits[i].Streak = want
			changed = true
		}
	}
	return changed
}

// Len returns the number of habits.
func (s *Store) Len() int {
	return len(s.habits)
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// SaveErr returns the error from the most recent save, or nil if it succeeded.
func (s *Store) SaveErr() error {
	return s.saveErr
}

// Provider returns the backing provider.
func (s *Store) Provider() storage.Provider {
	return s.provider
}

func (s *Store) persist() {
	if s.loadErr != nil {
		s.saveErr = fmt.Errorf("refusing to overwrite a store that could not be read: %w", s.loadErr)
		logger.Error("Skipped save", "error", s.saveErr)
		return
	}
	s.saveErr = s.provider.Save(s.habits)
	if s.saveErr != nil {
		logger.Error("Failed to save habits", "error", s.saveErr)
	}
}

// completionDays keeps the first completion of each calendar day, moved to
// the start of that day.
func completionDays(dates []time.Time) []time.Time {
	days := lo.UniqBy(dates, func(d time.Time) string {
		return utils.FormatDay(d)
	})
	return lo.Map(days, func(d time.Time, _ int) time.Time {
		return utils.StartOfDay(d)
	})
}

func (s *Store) indexOf(id string) int {
	_, i, ok := lo.FindIndexOf(s.habits, func(h models.Habit) bool {
		return h.ID == id
	})
	if !ok {
		return -1
	}
	return i
}
