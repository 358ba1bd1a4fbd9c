package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateList:
		content = docStyle.Render(m.habitsModel.View())
	case StateAddHabit, StateEditHabit:
		content = m.viewForm()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

// viewHeader renders the greeting and summary statistics.
func (m Model) viewHeader() string {
	now := m.store.Now()
	s := stats.Summarize(m.store.Habits(), now)

	title := titleStyle.Render("habitlit") + " " + mutedStyle.Render(utils.FormatDate(now))
	figures := lipgloss.JoinHorizontal(lipgloss.Top,
		statStyle.Render(fmt.Sprintf("Habits %d", s.Total)),
		statStyle.Render(fmt.Sprintf("Today %d/%d", s.CompletedToday, s.Total)),
		statStyle.Render(fmt.Sprintf("Rate %d%%", s.CompletionRate)),
		statStyle.Render(fmt.Sprintf("Streaks %d", s.TotalStreak)),
		statStyle.Render(fmt.Sprintf("Best %d", s.LongestStreak)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		stats.Greeting(s),
		figures,
	)
}

func (m Model) viewStatus() string {
	lines := []string{}
	if m.status != "" {
		lines = append(lines, m.status)
	}
	if m.validationWarning != "" {
		lines = append(lines, warningStyle.Render(m.validationWarning))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewForm() string {
	form := m.form.View()
	if m.formError != "" {
		form = lipgloss.JoinVertical(lipgloss.Left, dangerStyle.Render(m.formError), form)
	}
	return docStyle.Render(form)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-headerHeight-4, 3),
		lipgloss.Center, lipgloss.Center,
		m.form.View(),
	)
}
