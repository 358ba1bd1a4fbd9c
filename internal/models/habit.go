package models

import "time"

// Habit represents a recurring practice to track
type Habit struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	Icon           string      `json:"icon,omitempty"`
	Color          string      `json:"color,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	CompletedDates []time.Time `json:"completedDates"`
	Frequency      Frequency   `json:"frequency"`
	Streak         int         `json:"streak"`
	Goal           *int        `json:"goal,omitempty"`
	ReminderTime   string      `json:"reminderTime,omitempty"`
}

// HabitInput holds the caller-provided fields of a new habit. ID, CreatedAt,
// CompletedDates and Streak are owned by the store.
type HabitInput struct {
	Name         string
	Description  string
	Icon         string
	Color        string
	Frequency    Frequency
	Goal         *int
	ReminderTime string
}

// Input returns the editable fields of h.
func (h Habit) Input() HabitInput {
	return HabitInput{
		Name:         h.Name,
		Description:  h.Description,
		Icon:         h.Icon,
		Color:        h.Color,
		Frequency:    h.Frequency.Clone(),
		Goal:         cloneInt(h.Goal),
		ReminderTime: h.ReminderTime,
	}
}

// Apply copies the editable fields of in onto h, leaving identity and
// completion history untouched.
func (h Habit) Apply(in HabitInput) Habit {
	h.Name = in.Name
	h.Description = in.Description
	h.Icon = in.Icon
	h.Color = in.Color
	h.Frequency = in.Frequency.Clone()
	h.Goal = cloneInt(in.Goal)
	h.ReminderTime = in.ReminderTime
	return h
}

// Clone returns a deep copy of h so callers can't alias slices or pointers
// held by a store.
func (h Habit) Clone() Habit {
	c := h
	if h.CompletedDates != nil {
		c.CompletedDates = make([]time.Time, len(h.CompletedDates))
		copy(c.CompletedDates, h.CompletedDates)
	}
	c.Frequency = h.Frequency.Clone()
	c.Goal = cloneInt(h.Goal)
	return c
}

// HabitStatus describes a habit's state on a single day
type HabitStatus string

const (
	HabitStatusCompleted HabitStatus = "completed"
	HabitStatusMissed    HabitStatus = "missed"
	HabitStatusPending   HabitStatus = "pending"
)

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
