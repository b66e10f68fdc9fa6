package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"storecal/internal/calendar"
	"storecal/internal/render"
)

// Model is the interactive month browser. It owns a calendar.State and a
// cursor day within the displayed month.
type Model struct {
	state  *calendar.State
	cursor int
	keys   KeyMap
	help   help.Model
	width  int
}

// NewModel starts the browser on the state's month. The cursor starts on
// today when today falls in that month, otherwise on the 1st.
func NewModel(s *calendar.State) Model {
	m := Model{
		state:  s,
		cursor: 1,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	if y, mo, d, err := s.Today().Parts(); err == nil && y == s.Year() && mo == s.Month() {
		m.cursor = d
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// State returns the underlying calendar state.
func (m Model) State() *calendar.State { return m.state }

// Cursor returns the date key under the cursor.
func (m Model) Cursor() calendar.DateKey {
	return calendar.KeyOf(m.state.Year(), m.state.Month(), m.cursor)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-7)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(7)
	case key.Matches(msg, m.keys.Prev):
		m.state.PrevMonth()
		m.cursor = 1
	case key.Matches(msg, m.keys.Next):
		m.state.NextMonth()
		m.cursor = 1
	case key.Matches(msg, m.keys.Select):
		m.state.SelectDay(m.Cursor())
	case key.Matches(msg, m.keys.Clear):
		m.state.ClearSelection()
	}
	return m, nil
}

// moveCursor shifts the cursor by delta days, clamped to the month.
func (m *Model) moveCursor(delta int) {
	last := calendar.DaysIn(m.state.Year(), m.state.Month())
	c := m.cursor + delta
	if c < 1 {
		c = 1
	}
	if c > last {
		c = last
	}
	m.cursor = c
}

// View implements tea.Model.
func (m Model) View() string {
	opts := render.TermOptions{
		Cursor: m.Cursor(),
		Help:   m.help.View(m.keys),
	}
	if m.width > 0 {
		opts.CellWidth = m.width / 7
	}
	return render.Terminal(m.state.View(), opts)
}
