package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storecal/internal/calendar"
	"storecal/internal/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func newTestModel(t *testing.T, today calendar.DateKey) Model {
	t.Helper()
	events := []model.Event{
		{ID: 1, Title: "League Night", Date: "2024-03-05", GameSystem: model.GameSystem{ID: 1, Name: "Warhammer"}},
		{ID: 2, Title: "Draft", Date: "2024-03-05", GameSystem: model.GameSystem{ID: 2, Name: "Magic"}},
	}
	s, err := calendar.New(events, today)
	require.NoError(t, err)
	return NewModel(s)
}

func TestNewModel_CursorStart(t *testing.T) {
	t.Parallel()

	t.Run("today in month", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t, "2024-03-14")
		assert.Equal(t, calendar.DateKey("2024-03-14"), m.Cursor())
	})

	t.Run("today elsewhere", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t, "2025-07-14")
		assert.Equal(t, calendar.DateKey("2024-03-01"), m.Cursor())
	})
}

func TestUpdate_CursorMovesAndClamps(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, "2024-03-01")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight}, runes("l"))
	assert.Equal(t, calendar.DateKey("2024-03-03"), m.Cursor())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("j"))
	assert.Equal(t, calendar.DateKey("2024-03-17"), m.Cursor())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyUp}, runes("k"), runes("k"), runes("k"))
	assert.Equal(t, calendar.DateKey("2024-03-01"), m.Cursor(), "clamps at the 1st")

	m = send(t, m, runes("h"))
	assert.Equal(t, calendar.DateKey("2024-03-01"), m.Cursor())

	for i := 0; i < 6; i++ {
		m = send(t, m, runes("j"))
	}
	assert.Equal(t, calendar.DateKey("2024-03-31"), m.Cursor(), "clamps at month end")
}

func TestUpdate_MonthNavigationResetsCursor(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, "2024-03-20")

	m = send(t, m, runes("n"))
	assert.Equal(t, 3, m.State().Month())
	assert.Equal(t, calendar.DateKey("2024-04-01"), m.Cursor())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyPgUp}, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 1, m.State().Month())

	m = send(t, m, runes("p"), runes("p"))
	assert.Equal(t, 2023, m.State().Year())
	assert.Equal(t, 11, m.State().Month())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 2024, m.State().Year())
	assert.Equal(t, 0, m.State().Month())
}

func TestUpdate_SelectToggleAndClear(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, "2024-03-05")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sel, ok := m.State().Selected().Get()
	require.True(t, ok)
	assert.Equal(t, calendar.DateKey("2024-03-05"), sel)
	assert.Contains(t, m.View(), "League Night")

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.State().Selected().IsAbsent(), "second press toggles off")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.State().Selected().IsAbsent())

	// Days without events cannot be selected.
	m = send(t, m, runes("l"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.State().Selected().IsAbsent())
}

func TestUpdate_Quit(t *testing.T) {
	t.Parallel()
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m := newTestModel(t, "2024-03-05")
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestShortHelp_QuitFirst(t *testing.T) {
	t.Parallel()
	short := DefaultKeyMap().ShortHelp()
	require.NotEmpty(t, short)
	assert.Equal(t, "quit", short[0].Help().Desc)
}

func TestView_UsesWindowWidth(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, "2024-03-05")
	m = send(t, m, tea.WindowSizeMsg{Width: 70, Height: 40})

	out := m.View()
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "quit")
}
