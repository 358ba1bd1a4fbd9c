package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/utils"
)

type AddHabitMsg struct{}

// ToggleHabitMsg asks for the completion on today minus DaysAgo to be flipped.
type ToggleHabitMsg struct {
	ID      string
	DaysAgo int
}

type EditHabitMsg struct {
	Habit models.Habit
}

type DeleteHabitMsg struct {
	ID   string
	Name string
}

type Item struct {
	Habit         models.Habit
	DoneToday     bool
	DoneYesterday bool
	Progress      int
}

func (i Item) Title() string {
	mark := "○"
	if i.DoneToday {
		mark = "✓"
	}
	title := mark + " " + i.Habit.Name
	if i.Habit.Icon != "" {
		title = mark + " " + i.Habit.Icon + " " + i.Habit.Name
	}
	return title
}

func (i Item) Description() string {
	parts := []string{
		stats.FrequencyLabel(i.Habit.Frequency),
		fmt.Sprintf("🔥 %d", i.Habit.Streak),
		progressBar(i.Progress, 10),
	}
	if i.DoneYesterday {
		parts = append(parts, "done yesterday")
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Habit.Name + " " + i.Habit.Description }

// progressBar renders pct (0..100) as a bar of width cells.
func progressBar(pct, width int) string {
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf(" %d%%", pct)
}

type KeyMap struct {
	Toggle          key.Binding
	ToggleYesterday key.Binding
	Add             key.Binding
	Edit            key.Binding
	Delete          key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle today"),
		),
		ToggleYesterday: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "toggle yesterday"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, now time.Time, width, height int) Model {
	l := list.New(items(habits, now), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.DisableQuitKeybindings()

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.ToggleYesterday, keys.Add, keys.Edit, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func items(habits []models.Habit, now time.Time) []list.Item {
	yesterday := utils.AddDays(now, -1)
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		out[i] = Item{
			Habit:         h,
			DoneToday:     stats.CompletedOn(h, now),
			DoneYesterday: stats.CompletedOn(h, yesterday),
			Progress:      stats.Progress(h),
		}
	}
	return out
}

// SetHabits replaces the listed habits, keeping the cursor where it was.
func (m *Model) SetHabits(habits []models.Habit, now time.Time) {
	idx := m.list.Index()
	m.list.SetItems(items(habits, now))
	if idx >= 0 && idx < len(habits) {
		m.list.Select(idx)
	}
}

// Selected returns the highlighted habit.
func (m Model) Selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Habit{}, false
	}
	return i.Habit, true
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.ToggleYesterday):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID, DaysAgo: 1} }
			}
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditHabitMsg{Habit: i.Habit} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID, Name: i.Habit.Name} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
