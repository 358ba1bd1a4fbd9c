package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// habitRecord is the persisted shape of a habit. Timestamps are kept as
// strings so decoding can report exactly which one is malformed.
type habitRecord struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	Icon           string           `json:"icon,omitempty"`
	Color          string           `json:"color,omitempty"`
	CreatedAt      string           `json:"createdAt"`
	CompletedDates []string         `json:"completedDates"`
	Frequency      models.Frequency `json:"frequency"`
	Streak         int              `json:"streak"`
	Goal           *int             `json:"goal,omitempty"`
	ReminderTime   string           `json:"reminderTime,omitempty"`
}

// Encode serializes habits into the document format. Dates are written as
// UTC ISO-8601 timestamps with millisecond precision.
func Encode(habits []models.Habit) ([]byte, error) {
	records := make([]habitRecord, 0, len(habits))
	for _, h := range habits {
		rec := habitRecord{
			ID:             h.ID,
			Name:           h.Name,
			Description:    h.Description,
			Icon:           h.Icon,
			Color:          h.Color,
			CreatedAt:      formatTimestamp(h.CreatedAt),
			CompletedDates: make([]string, 0, len(h.CompletedDates)),
			Frequency:      h.Frequency,
			Streak:         h.Streak,
			Goal:           h.Goal,
			ReminderTime:   h.ReminderTime,
		}
		for _, d := range h.CompletedDates {
			rec.CompletedDates = append(rec.CompletedDates, formatTimestamp(d))
		}
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize habits: %w", err)
	}
	return data, nil
}

// Decode parses a document and revives its timestamps into local time. An
// empty or null document decodes to an empty collection. Any schema mismatch
// fails the whole document.
func Decode(data []byte) ([]models.Habit, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []models.Habit{}, nil
	}

	var records []habitRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse habits: %w", err)
	}

	habits := make([]models.Habit, 0, len(records))
	for i, rec := range records {
		h, err := rec.toHabit()
		if err != nil {
			return nil, fmt.Errorf("habit %d: %w", i, err)
		}
		habits = append(habits, h)
	}
	return habits, nil
}

func (rec habitRecord) toHabit() (models.Habit, error) {
	if rec.ID == "" {
		return models.Habit{}, errors.New("missing id")
	}
	if !rec.Frequency.Type.Valid() {
		return models.Habit{}, fmt.Errorf("unknown frequency type %q", rec.Frequency.Type)
	}

	createdAt, err := parseTimestamp(rec.CreatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("invalid createdAt: %w", err)
	}

	completed := make([]time.Time, 0, len(rec.CompletedDates))
	for _, s := range rec.CompletedDates {
		d, err := parseTimestamp(s)
		if err != nil {
			return models.Habit{}, fmt.Errorf("invalid completed date: %w", err)
		}
		completed = append(completed, d)
	}

	return models.Habit{
		ID:             rec.ID,
		Name:           rec.Name,
		Description:    rec.Description,
		Icon:           rec.Icon,
		Color:          rec.Color,
		CreatedAt:      createdAt,
		CompletedDates: completed,
		Frequency:      rec.Frequency,
		Streak:         rec.Streak,
		Goal:           rec.Goal,
		ReminderTime:   rec.ReminderTime,
	}, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.ISOTimestampFormat)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}
