package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"storecal/internal/calendar"
)

// TermOptions controls the terminal renderer.
type TermOptions struct {
	// CellWidth is the width of one day column, borders excluded.
	CellWidth int
	// Cursor highlights a day (used by the interactive browser).
	Cursor calendar.DateKey
	// Help is appended under the calendar when non-empty.
	Help string
}

const defaultCellWidth = 14

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245"))

	blankStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	todayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("91"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("54"))

	cursorStyle = lipgloss.NewStyle().
			Underline(true).
			Bold(true)

	overflowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("135")).
			Padding(0, 1).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// cellHeight is one day-number line, MaxCellTags tag lines and the
// overflow line.
const cellHeight = calendar.MaxCellTags + 2

// Terminal draws a month view for a terminal: title, weekday headers, the
// grid, the selected day's panel and the category legend.
func Terminal(v calendar.MonthView, opts TermOptions) string {
	w := opts.CellWidth
	if w <= 0 {
		w = defaultCellWidth
	}

	var sections []string
	sections = append(sections, titleStyle.Render("‹ "+v.Label+" ›"))

	headers := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		headers[i] = headerStyle.Width(w).Render(" " + h)
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, headers...))

	for _, week := range v.Weeks() {
		cells := make([]string, len(week))
		for i, c := range week {
			cells[i] = termCell(c, w, opts.Cursor)
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	if d, ok := v.Detail.Get(); ok {
		sections = append(sections, termDetail(d))
	}

	if len(v.Legend) > 0 {
		sections = append(sections, termLegend(v.Legend))
	}

	if opts.Help != "" {
		sections = append(sections, helpStyle.Render(opts.Help))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func termCell(c calendar.CalendarCell, w int, cursor calendar.DateKey) string {
	box := lipgloss.NewStyle().Width(w).Height(cellHeight)
	if c.Blank {
		return box.Render(blankStyle.Render(" ·"))
	}
	if c.Selected {
		box = box.Inherit(selectedStyle)
	}

	numStyle := lipgloss.NewStyle()
	if c.Today {
		numStyle = numStyle.Inherit(todayStyle)
	}
	if cursor != "" && c.Key == cursor {
		numStyle = numStyle.Inherit(cursorStyle)
	}

	lines := []string{numStyle.Render(fmt.Sprintf("%2d", c.Day))}
	for _, tag := range c.Tags() {
		pill := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color.ANSI))
		lines = append(lines, pill.Render(" "+calendar.Truncate(tag.Title, w-1)))
	}
	if label := c.OverflowLabel(); label != "" {
		lines = append(lines, overflowStyle.Render(" "+label))
	}
	return box.Render(strings.Join(lines, "\n"))
}

func termDetail(d calendar.DayDetail) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(d.Label))
	for _, it := range d.Items {
		tag := lipgloss.NewStyle().Foreground(lipgloss.Color(it.Tag.Color.ANSI)).Bold(true)
		b.WriteString("\n\n")
		b.WriteString(tag.Render("["+it.Tag.Label+"]") + " " + it.Title)

		meta := []string{}
		if it.Time != "" {
			meta = append(meta, it.Time)
		}
		meta = append(meta, it.Location.Name)
		b.WriteString("\n  " + mutedStyle.Render(strings.Join(meta, " · ")))

		if it.Description != "" {
			b.WriteString("\n  " + it.Description)
		}
		if it.SourceURL != "" {
			b.WriteString("\n  " + mutedStyle.Render("↗ "+it.SourceURL))
		}
	}
	return panelStyle.Render(b.String())
}

func termLegend(legend []calendar.LegendEntry) string {
	parts := make([]string, len(legend))
	for i, e := range legend {
		parts[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color.ANSI)).Render("● " + e.Category.Name)
	}
	return lipgloss.NewStyle().MarginTop(1).Render(strings.Join(parts, "  "))
}
