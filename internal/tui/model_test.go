package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/habits"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

var fixedNow = time.Date(2025, 3, 4, 15, 0, 0, 0, time.Local)

func setupTestModel(t *testing.T, names ...string) (Model, *habits.Store) {
	t.Helper()
	provider := storage.NewJSONStore(filepath.Join(t.TempDir(), "habits.json"))
	seq := 0
	store := habits.New(provider,
		habits.WithClock(func() time.Time { return fixedNow }),
		habits.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("habit-%d", seq)
		}),
	)
	for _, name := range names {
		store.AddHabit(models.HabitInput{Name: name, Frequency: models.Daily()})
	}

	m := NewModel(store, validation.New())
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, store
}

// send delivers msg and then any messages produced by the returned command,
// so component messages reach the top-level model.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if out := cmd(); out != nil {
		switch out.(type) {
		case tea.BatchMsg, tea.QuitMsg:
			return m
		}
		next, _ = m.Update(out)
		m = next.(Model)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestToggleToday(t *testing.T) {
	m, store := setupTestModel(t, "Read")

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})

	h, _ := store.GetHabit("habit-1")
	if !stats.CompletedOn(h, fixedNow) {
		t.Fatal("expected habit to be completed today")
	}
	if h.Streak != 1 {
		t.Errorf("expected streak 1, got %d", h.Streak)
	}
	if !strings.Contains(m.status, "done today") {
		t.Errorf("unexpected status %q", m.status)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	h, _ = store.GetHabit("habit-1")
	if stats.CompletedOn(h, fixedNow) {
		t.Error("expected second toggle to undo the completion")
	}
}

func TestToggleYesterday(t *testing.T) {
	m, store := setupTestModel(t, "Read")

	m = send(t, m, runeKey('y'))

	h, _ := store.GetHabit("habit-1")
	if !stats.CompletedOn(h, utils.AddDays(fixedNow, -1)) {
		t.Fatal("expected habit to be completed yesterday")
	}
	if h.Streak != 1 {
		t.Errorf("expected streak 1, got %d", h.Streak)
	}
}

func TestDayChangeRefreshesStreaks(t *testing.T) {
	provider := storage.NewJSONStore(filepath.Join(t.TempDir(), "habits.json"))
	now := fixedNow
	store := habits.New(provider, habits.WithClock(func() time.Time { return now }))
	h := store.AddHabit(models.HabitInput{Name: "Read", Frequency: models.Daily()})
	if _, err := store.ToggleCompletion(h.ID, now); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	m := NewModel(store, validation.New())
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	next, cmd := m.Update(dayCheckMsg(now))
	m = next.(Model)
	if cmd == nil {
		t.Error("expected the day check to be rescheduled")
	}
	if got, _ := store.GetHabit(h.ID); got.Streak != 1 {
		t.Fatalf("expected streak 1 on the same day, got %d", got.Streak)
	}

	now = utils.AddDays(fixedNow, 2)
	next, _ = m.Update(dayCheckMsg(now))
	m = next.(Model)

	if got, _ := store.GetHabit(h.ID); got.Streak != 0 {
		t.Errorf("expected streak reset after two days, got %d", got.Streak)
	}
	if sel, ok := m.habitsModel.Selected(); !ok || sel.Streak != 0 {
		t.Errorf("expected list to show the refreshed streak, got %+v", sel)
	}
	saved, err := provider.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(saved) != 1 || saved[0].Streak != 0 {
		t.Errorf("expected refreshed streak to be saved, got %+v", saved)
	}
	if m.day != utils.FormatDay(now) {
		t.Errorf("expected model day %s, got %s", utils.FormatDay(now), m.day)
	}
}

func TestAddOpensForm(t *testing.T) {
	m, _ := setupTestModel(t)

	m = send(t, m, runeKey('a'))
	if m.state != StateAddHabit {
		t.Fatalf("expected add state, got %v", m.state)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateList {
		t.Errorf("expected esc to return to the list, got %v", m.state)
	}
}

func TestApplyHabitForm_Add(t *testing.T) {
	m, store := setupTestModel(t)

	m.habitForm = &HabitFormModel{
		Name:      "Gym",
		Frequency: models.FrequencyWeekly,
		Days:      []int{1, 4},
		Goal:      "12",
	}
	if err := m.applyHabitForm(); err != nil {
		t.Fatalf("applyHabitForm failed: %v", err)
	}

	all := store.Habits()
	if len(all) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(all))
	}
	h := all[0]
	if h.Frequency.String() != "weekly on Mon,Thu" {
		t.Errorf("unexpected frequency %s", h.Frequency)
	}
	if h.Goal == nil || *h.Goal != 12 {
		t.Errorf("expected goal 12, got %v", h.Goal)
	}
}

func TestApplyHabitForm_Invalid(t *testing.T) {
	m, store := setupTestModel(t)

	m.habitForm = &HabitFormModel{Name: "Gym", Frequency: models.FrequencyWeekly, Days: []int{9}}
	if err := m.applyHabitForm(); err == nil {
		t.Error("expected weekly habit with an invalid weekday to be rejected")
	}

	m.habitForm = &HabitFormModel{Name: "Water", Frequency: models.FrequencyCustom, CustomDays: "soon"}
	if err := m.applyHabitForm(); err == nil {
		t.Error("expected non-numeric interval to be rejected")
	}

	if store.Len() != 0 {
		t.Errorf("expected no habits to be added, got %d", store.Len())
	}
}

func TestApplyHabitForm_Edit(t *testing.T) {
	m, store := setupTestModel(t, "Read")
	if _, err := store.ToggleCompletion("habit-1", fixedNow); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	m = send(t, m, runeKey('e'))
	if m.state != StateEditHabit || m.editingID != "habit-1" {
		t.Fatalf("expected to edit habit-1, got state %v id %q", m.state, m.editingID)
	}
	if m.habitForm.Name != "Read" {
		t.Errorf("expected form to be prefilled, got %q", m.habitForm.Name)
	}

	m.habitForm.Name = "Read fiction"
	if err := m.applyHabitForm(); err != nil {
		t.Fatalf("applyHabitForm failed: %v", err)
	}

	h, _ := store.GetHabit("habit-1")
	if h.Name != "Read fiction" {
		t.Errorf("expected renamed habit, got %q", h.Name)
	}
	if h.Streak != 1 || len(h.CompletedDates) != 1 {
		t.Errorf("expected completions to survive the edit, got %+v", h)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, store := setupTestModel(t, "Read", "Write")

	m = send(t, m, runeKey('d'))
	if m.state != StateConfirmDelete || m.deletingID != "habit-1" {
		t.Fatalf("expected delete confirmation for habit-1, got state %v id %q", m.state, m.deletingID)
	}

	m.finishDelete(false)
	if store.Len() != 2 || m.state != StateList {
		t.Fatalf("expected declined delete to keep habits, got %d", store.Len())
	}

	m = send(t, m, runeKey('d'))
	m.finishDelete(true)
	if store.Len() != 1 {
		t.Fatalf("expected one habit after delete, got %d", store.Len())
	}
	if _, ok := store.GetHabit("habit-1"); ok {
		t.Error("expected habit-1 to be deleted")
	}
}

func TestViewShowsSummary(t *testing.T) {
	m, store := setupTestModel(t, "Read", "Write")
	if _, err := store.ToggleCompletion("habit-1", fixedNow); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	m.refresh()

	view := m.View()
	for _, want := range []string{"You've completed 1 of 2 habits today.", "Today 1/2", "Rate 50%"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupTestModel(t)

	next, cmd := m.Update(runeKey('q'))
	if !next.(Model).quitting {
		t.Error("expected model to be quitting")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
