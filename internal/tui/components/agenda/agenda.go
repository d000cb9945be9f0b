package agenda

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/models"
)

var (
	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(13)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model is a scrollable list of the visible days and their events
type Model struct {
	viewport viewport.Model
	days     []time.Time
	events   []models.CalendarEvent
	prefs    models.UserPreferences
	loc      *time.Location
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		loc:      time.Local,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetEvents replaces the visible period. events should already be limited to days.
func (m *Model) SetEvents(days []time.Time, events []models.CalendarEvent, prefs models.UserPreferences, loc *time.Location) {
	m.days = days
	m.events = events
	m.prefs = prefs
	if loc != nil {
		m.loc = loc
	}
	m.Render()
	m.viewport.GotoTop()
}

// Content returns the rendered text without viewport clipping
func (m Model) Content() string {
	if len(m.events) == 0 {
		return "No events scheduled."
	}

	var b strings.Builder
	for _, d := range m.days {
		dayEvents := calendar.EventsForDate(m.events, d)
		if len(dayEvents) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(dayStyle.Render(d.Format("Mon 2006-01-02")) + "\n")
		for _, ev := range dayEvents {
			b.WriteString(m.line(ev) + "\n")
		}
	}
	return b.String()
}

func (m *Model) Render() {
	m.viewport.SetContent(m.Content())
}

func (m Model) line(ev models.CalendarEvent) string {
	span := "all day"
	if !ev.AllDay {
		span = fmt.Sprintf("%s-%s", ev.Start.In(m.loc).Format("15:04"), ev.End.In(m.loc).Format("15:04"))
	}
	color := ev.Color
	if color == "" {
		color = m.prefs.ColorFor(ev.Type)
	}
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(ev.Title)

	line := fmt.Sprintf("  %s %s %s", timeStyle.Render(span), title, statusStyle.Render(string(ev.Type)))
	if ev.IsCompleted() {
		line += statusStyle.Render(" done")
	}
	return line
}
