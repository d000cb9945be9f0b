package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/tui/components/agenda"
	"github.com/julianstephens/studylit/internal/validation"
)

type SessionState int

const (
	StateBrowse SessionState = iota
	StateAddEvent
)

// modes in tab order
var modes = []constants.ViewMode{constants.ViewDay, constants.ViewWeek, constants.ViewMonth}

type EventFormModel struct {
	Title    string
	Date     string
	Start    string
	Duration string
	Type     constants.EventType
	AllDay   bool
}

type Model struct {
	store             *calendar.Store
	view              *calendar.View
	loc               *time.Location
	now               func() time.Time
	state             SessionState
	keys              KeyMap
	help              help.Model
	agenda            agenda.Model
	form              *huh.Form
	eventForm         *EventFormModel
	expand            bool
	quitting          bool
	width             int
	height            int
	status            string
	statusIsError     bool
	validationWarning string
}

// NewModel opens the store's default view on the day of now
func NewModel(store *calendar.Store, loc *time.Location, now func() time.Time) (Model, error) {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	prefs := store.Preferences()
	view, err := calendar.NewView(prefs.DefaultView, now().In(loc), prefs.FirstDayOfWeek)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		store:  store,
		view:   view,
		loc:    loc,
		now:    now,
		state:  StateBrowse,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		agenda: agenda.New(0, 0),
	}
	m.refresh()
	return m, nil
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads the visible period from the store
func (m *Model) refresh() {
	from, to := m.view.Range()
	all := m.store.List()

	var events []models.CalendarEvent
	if m.expand {
		events = calendar.ExpandRange(all, from, to)
	} else {
		events = calendar.EventsForRange(all, from, to)
	}
	m.agenda.SetEvents(m.view.Days(), events, m.store.Preferences(), m.loc)
	m.updateValidationStatus(all)
}

// updateValidationStatus counts conflicts across the whole store
func (m *Model) updateValidationStatus(events []models.CalendarEvent) {
	result := validation.Validate(events, nil)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusIsError = isErr
}
