package agenda

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studylit/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(13)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// eventStyle colors a title with the event's own color, falling back to the type color
func eventStyle(ev models.CalendarEvent, prefs models.UserPreferences) lipgloss.Style {
	color := ev.Color
	if color == "" {
		color = prefs.ColorFor(ev.Type)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
