package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studylit/internal/logger"
)

// rows taken by tabs, title, status and help
const chromeHeight = 5

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		m.agenda.SetSize(size.Width, max(size.Height-chromeHeight, 1))
		return m, nil
	}

	if m.state == StateAddEvent {
		return m, m.handleAddEvent(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Tab):
		m.cycleMode(1)
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.cycleMode(-1)
	case key.Matches(keyMsg, m.keys.Left):
		m.view.Prev()
		m.refresh()
	case key.Matches(keyMsg, m.keys.Right):
		m.view.Next()
		m.refresh()
	case key.Matches(keyMsg, m.keys.Today):
		m.view.Today(m.now().In(m.loc))
		m.refresh()
	case key.Matches(keyMsg, m.keys.Expand):
		m.expand = !m.expand
		m.refresh()
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Add):
		m.eventForm = newEventForm(m.view.Selected)
		m.form = NewEventForm(m.eventForm)
		m.state = StateAddEvent
		return m, m.form.Init()
	default:
		var cmd tea.Cmd
		m.agenda, cmd = m.agenda.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) cycleMode(step int) {
	idx := 0
	for i, mode := range modes {
		if mode == m.view.Mode {
			idx = i
		}
	}
	idx = (idx + step + len(modes)) % len(modes)
	if err := m.view.SetMode(modes[idx]); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.refresh()
}

// handleAddEvent drives the add form until it completes or is aborted
func (m *Model) handleAddEvent(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = StateBrowse
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitEvent()
	case huh.StateAborted:
		m.state = StateBrowse
	}
	return cmd
}

func (m *Model) submitEvent() {
	m.state = StateBrowse
	ev, err := buildEvent(*m.eventForm, m.loc)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	id, err := m.store.AddEvent(ev)
	if err != nil {
		logger.Error("Failed to add event from TUI", "error", err)
		m.setStatus(fmt.Sprintf("Failed to add event: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Added event: %s (ID: %s)", ev.Title, id), false)
	m.view.Selected = ev.Start
	m.refresh()
}
