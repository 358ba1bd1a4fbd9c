package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/stats"
	habitlist "github.com/julianstephens/habitlit/internal/tui/components/habits"
	"github.com/julianstephens/habitlit/internal/utils"
)

// headerHeight is the number of lines above the habit list.
const headerHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitsModel.SetSize(msg.Width-4, msg.Height-headerHeight-4)
	}

	if _, ok := msg.(dayCheckMsg); ok {
		if m.dayChanged() {
			m.refresh()
		}
		return m, checkDay()
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StateAddHabit, StateEditHabit:
		return m.updateHabitForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.habitsModel.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		m.status = ""

	case habitlist.AddHabitMsg:
		m.habitForm = newHabitFormModel()
		m.editingID = ""
		m.formError = ""
		m.form = NewHabitForm(m.habitForm, "New habit")
		m.state = StateAddHabit
		return m, m.form.Init()

	case habitlist.EditHabitMsg:
		m.habitForm = habitFormModelFrom(msg.Habit)
		m.editingID = msg.Habit.ID
		m.formError = ""
		m.form = NewHabitForm(m.habitForm, "Edit habit")
		m.state = StateEditHabit
		return m, m.form.Init()

	case habitlist.ToggleHabitMsg:
		m.toggle(msg.ID, msg.DaysAgo)
		return m, nil

	case habitlist.DeleteHabitMsg:
		m.deletingID = msg.ID
		m.confirmForm = &ConfirmationFormModel{
			Message: fmt.Sprintf("Delete %q? This cannot be undone.", msg.Name),
		}
		m.form = NewConfirmationForm(m.confirmForm)
		m.state = StateConfirmDelete
		return m, m.form.Init()
	}

	var cmd tea.Cmd
	m.habitsModel, cmd = m.habitsModel.Update(msg)
	return m, cmd
}

// toggle flips the completion daysAgo days before today.
func (m *Model) toggle(id string, daysAgo int) {
	day := utils.AddDays(m.store.Now(), -daysAgo)
	h, err := m.store.ToggleCompletion(id, day)
	if err != nil {
		m.status = fmt.Sprintf("⚠ %v", err)
		return
	}

	when := "today"
	if daysAgo == 1 {
		when = "yesterday"
	}
	if stats.CompletedOn(h, day) {
		m.status = fmt.Sprintf("✓ %s done %s (streak %d)", h.Name, when, h.Streak)
	} else {
		m.status = fmt.Sprintf("%s unmarked %s (streak %d)", h.Name, when, h.Streak)
	}
	m.refresh()
}

func (m Model) updateHabitForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateList
		m.formError = ""
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.applyHabitForm(); err != nil {
			// Stay in the form so the user can correct it
			m.formError = err.Error()
			m.form = NewHabitForm(m.habitForm, formTitle(m.state))
			return m, m.form.Init()
		}
		m.state = StateList
	case huh.StateAborted:
		m.state = StateList
	}
	return m, tea.Batch(cmds...)
}

// applyHabitForm validates the form values and adds or updates the habit.
func (m *Model) applyHabitForm() error {
	color := ""
	existing, editing := m.store.GetHabit(m.editingID)
	if editing {
		color = existing.Color
	}

	in, err := m.habitForm.Input(color)
	if err != nil {
		return err
	}
	result := m.validator.ValidateInput(in)
	if err := result.Err(); err != nil {
		return err
	}

	if editing {
		if err := m.store.UpdateHabit(existing.Apply(in)); err != nil {
			return err
		}
		m.status = fmt.Sprintf("Updated %s", in.Name)
	} else {
		h := m.store.AddHabit(in)
		m.status = fmt.Sprintf("Added %s", h.Name)
	}
	m.formError = ""
	m.editingID = ""
	m.refresh()
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.finishDelete(false)
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.finishDelete(m.confirmForm.Confirmed)
	case huh.StateAborted:
		m.finishDelete(false)
	}
	return m, cmd
}

// finishDelete deletes the pending habit if confirmed and returns to the list.
func (m *Model) finishDelete(confirmed bool) {
	if confirmed && m.deletingID != "" {
		if h, ok := m.store.GetHabit(m.deletingID); ok {
			m.store.DeleteHabit(h.ID)
			m.status = fmt.Sprintf("Deleted %s", h.Name)
			m.refresh()
		}
	}
	m.deletingID = ""
	m.confirmForm = nil
	m.state = StateList
}

func formTitle(state SessionState) string {
	if state == StateEditHabit {
		return "Edit habit"
	}
	return "New habit"
}
