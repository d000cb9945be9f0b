package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studylit/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state == StateAddEvent && m.form != nil {
		return docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		titleStyle.Render(m.periodTitle()),
		m.agenda.View(),
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for _, mode := range modes {
		title := strings.ToUpper(string(mode[:1])) + string(mode[1:])
		if m.view.Mode == mode {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) periodTitle() string {
	from, to := m.view.Range()
	var title string
	switch m.view.Mode {
	case constants.ViewMonth:
		title = from.Format("January 2006")
	case constants.ViewWeek:
		title = fmt.Sprintf("Week of %s - %s", from.Format(constants.DateFormat), to.Format(constants.DateFormat))
	default:
		title = from.Format("Monday, 2006-01-02")
	}
	if m.expand {
		title += " (recurring expanded)"
	}
	return title
}

func (m Model) viewStatus() string {
	var parts []string
	if m.status != "" {
		if m.statusIsError {
			parts = append(parts, dangerStyle.Render(m.status))
		} else {
			parts = append(parts, m.status)
		}
	}
	if m.validationWarning != "" {
		parts = append(parts, warningStyle.Render(m.validationWarning))
	}
	return strings.Join(parts, "  ")
}
