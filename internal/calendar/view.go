package calendar

import (
	"fmt"

	"github.com/samber/mo"

	"storecal/internal/model"
)

// CellTag is an event pill inside a grid cell.
type CellTag struct {
	EventID  int
	Title    string
	Category string
	Color    Color
}

// CalendarCell is a grid cell merged with its bucket and the today/selected
// flags. Cells are rebuilt on every View call and never mutated.
type CalendarCell struct {
	Blank    bool
	Day      int
	Key      DateKey
	Today    bool
	Selected bool
	Events   []model.Event

	palette Palette
}

// HasEvents reports whether the cell's day has a non-empty bucket.
func (c CalendarCell) HasEvents() bool {
	return len(c.Events) > 0
}

// Tags returns the pills to draw, capped at MaxCellTags.
func (c CalendarCell) Tags() []CellTag {
	n := len(c.Events)
	if n > MaxCellTags {
		n = MaxCellTags
	}
	tags := make([]CellTag, 0, n)
	for _, ev := range c.Events[:n] {
		tags = append(tags, CellTag{
			EventID:  ev.ID,
			Title:    ev.Title,
			Category: ev.GameSystem.Name,
			Color:    c.palette.ColorOf(ev.GameSystem.ID),
		})
	}
	return tags
}

// Overflow is the number of events hidden behind the tag cap.
func (c CalendarCell) Overflow() int {
	if len(c.Events) > MaxCellTags {
		return len(c.Events) - MaxCellTags
	}
	return 0
}

// OverflowLabel is "+N more", or "" when every event fits.
func (c CalendarCell) OverflowLabel() string {
	if n := c.Overflow(); n > 0 {
		return fmt.Sprintf("+%d more", n)
	}
	return ""
}

// MonthView is everything a renderer needs to draw the calendar.
type MonthView struct {
	Year     int
	Month    int
	Label    string
	Headers  []string
	Cells    []CalendarCell
	Selected Selection
	Detail   mo.Option[DayDetail]
	Legend   []LegendEntry
}

// Weeks splits the cells into rows of seven.
func (v MonthView) Weeks() [][]CalendarCell {
	rows := make([][]CalendarCell, 0, len(v.Cells)/7)
	for i := 0; i+7 <= len(v.Cells); i += 7 {
		rows = append(rows, v.Cells[i:i+7])
	}
	return rows
}

// View derives the visible month from the current state. It has no side
// effects and may be called any number of times. A State must come from
// New or NewAt (the zero value shows January of year 0); View panics only
// if the month invariant kept by those constructors is broken.
func (s *State) View() MonthView {
	grid, err := BuildGridFrom(s.year, s.month, s.weekStart)
	if err != nil {
		// Unreachable: NewAt validates the month and the transitions keep
		// it in 0-11.
		panic(err)
	}

	sel, hasSel := s.selected.Get()

	cells := make([]CalendarCell, len(grid))
	for i, g := range grid {
		if g.Blank {
			cells[i] = CalendarCell{Blank: true, palette: s.palette}
			continue
		}
		cells[i] = CalendarCell{
			Day:      g.Day,
			Key:      g.Key,
			Today:    g.Key == s.today,
			Selected: hasSel && g.Key == sel,
			Events:   s.buckets.Events(g.Key),
			palette:  s.palette,
		}
	}

	detail := mo.None[DayDetail]()
	if hasSel {
		if d, ok := BuildDetail(sel, s.buckets.Events(sel), s.detail); ok {
			detail = mo.Some(d)
		}
	}

	return MonthView{
		Year:     s.year,
		Month:    s.month,
		Label:    MonthLabel(s.year, s.month),
		Headers:  WeekdayHeaders(s.weekStart),
		Cells:    cells,
		Selected: s.selected,
		Detail:   detail,
		Legend:   s.legend,
	}
}
