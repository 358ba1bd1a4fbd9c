package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/habits"
	habitlist "github.com/julianstephens/habitlit/internal/tui/components/habits"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

// dayCheckInterval is how often the model checks for a day change.
const dayCheckInterval = time.Minute

type dayCheckMsg time.Time

func checkDay() tea.Cmd {
	return tea.Tick(dayCheckInterval, func(t time.Time) tea.Msg {
		return dayCheckMsg(t)
	})
}

type SessionState int

const (
	StateList SessionState = iota
	StateAddHabit
	StateEditHabit
	StateConfirmDelete
)

type Model struct {
	store       *habits.Store
	validator   *validation.Validator
	state       SessionState
	keys        KeyMap
	help        help.Model
	habitsModel habitlist.Model
	form        *huh.Form
	habitForm   *HabitFormModel
	confirmForm *ConfirmationFormModel
	editingID   string
	deletingID  string
	formError   string
	status      string
	quitting    bool
	width       int
	height      int
	// day is the calendar day the list was last refreshed for.
	day string

	validationWarning   string
	validationConflicts []validation.Conflict
}

func NewModel(store *habits.Store, validator *validation.Validator) Model {
	if validator == nil {
		validator = validation.New()
	}
	m := Model{
		store:       store,
		validator:   validator,
		state:       StateList,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habitlist.New(store.Habits(), store.Now(), 0, 0),
		day:         utils.FormatDay(store.Now()),
	}

	// Run validation on initialization
	m.updateValidationStatus()

	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Quit, m.keys.Help}
	if m.state == StateList {
		keys = append(keys, m.keys.Toggle, m.keys.ToggleYesterday, m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Filter)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Filter}
	actions := []key.Binding{m.keys.Toggle, m.keys.ToggleYesterday, m.keys.Add, m.keys.Edit, m.keys.Delete}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.habitsModel.Init(), checkDay())
}

// dayChanged reports whether the store's clock has moved past the day the
// list was built for.
func (m Model) dayChanged() bool {
	return utils.FormatDay(m.store.Now()) != m.day
}

// refresh reloads the list from the store and re-runs validation. On a new
// day every streak is recomputed first.
func (m *Model) refresh() {
	if m.dayChanged() {
		m.day = utils.FormatDay(m.store.Now())
		m.store.RefreshStreaks()
	}
	m.habitsModel.SetHabits(m.store.Habits(), m.store.Now())
	m.updateValidationStatus()
	if err := m.store.SaveErr(); err != nil {
		m.status = fmt.Sprintf("⚠ Not saved: %v", err)
	}
}

// updateValidationStatus runs validation and updates the warning message
func (m *Model) updateValidationStatus() {
	result := m.validator.ValidateCollection(m.store.Habits(), m.store.Now())
	m.validationConflicts = result.Conflicts

	if len(result.Conflicts) > 0 {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run 'habitlit validate'", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}
