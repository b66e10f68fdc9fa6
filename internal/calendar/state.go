package calendar

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"storecal/internal/model"
)

// MaxCellTags is how many event tags a grid cell shows before collapsing
// the rest into "+N more".
const MaxCellTags = 3

// Selection is either no selected day or exactly one selected date key.
type Selection = mo.Option[DateKey]

// LegendEntry pairs a category with its palette color.
type LegendEntry struct {
	Category model.GameSystem
	Color    Color
}

// Option configures a State.
type Option func(*State)

// WithWeekStart sets the first grid column (time.Sunday by default).
func WithWeekStart(d time.Weekday) Option {
	return func(s *State) { s.weekStart = d }
}

// WithPalette overrides the category palette.
func WithPalette(p Palette) Option {
	return func(s *State) {
		s.palette = p
		s.detail.Palette = p
	}
}

// WithDetailOptions sets the day panel options.
func WithDetailOptions(o DetailOptions) Option {
	return func(s *State) {
		s.detail = o
		if o.Palette == nil {
			s.detail.Palette = s.palette
		}
	}
}

// State is the calendar's view state: the month on screen and the selected
// day, if any. It is derived from one event collection and mutated only by
// PrevMonth, NextMonth, SelectDay and ClearSelection. A State is not safe
// for concurrent use.
type State struct {
	year     int
	month    int
	selected Selection

	today    DateKey
	buckets  Buckets
	rejected []model.Event
	legend   []LegendEntry

	weekStart time.Weekday
	palette   Palette
	detail    DetailOptions
}

// New builds a State over events. The view opens on the month of the first
// event with a well-formed date, or on today's month when there is none.
func New(events []model.Event, today DateKey, opts ...Option) (*State, error) {
	if _, err := ParseDateKey(string(today)); err != nil {
		return nil, fmt.Errorf("today: %w", err)
	}

	s := newState(events, today, opts)

	start := today
	for _, ev := range events {
		if k, err := ParseDateKey(ev.Date); err == nil {
			start = k
			break
		}
	}
	s.year, s.month, _, _ = start.Parts()
	return s, nil
}

// NewAt builds a State over events opened on a given zero-indexed month.
func NewAt(events []model.Event, today DateKey, year, month int, opts ...Option) (*State, error) {
	if _, err := ParseDateKey(string(today)); err != nil {
		return nil, fmt.Errorf("today: %w", err)
	}
	if err := validMonth(month); err != nil {
		return nil, err
	}
	s := newState(events, today, opts)
	s.year, s.month = year, month
	return s, nil
}

func newState(events []model.Event, today DateKey, opts []Option) *State {
	buckets, rejected := IndexEvents(events)
	s := &State{
		selected:  mo.None[DateKey](),
		today:     today,
		buckets:   buckets,
		rejected:  rejected,
		weekStart: time.Sunday,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.legend = buildLegend(events, s.palette)
	return s
}

func buildLegend(events []model.Event, p Palette) []LegendEntry {
	seen := make(map[int]bool)
	var out []LegendEntry
	for _, ev := range events {
		if seen[ev.GameSystem.ID] {
			continue
		}
		seen[ev.GameSystem.ID] = true
		out = append(out, LegendEntry{Category: ev.GameSystem, Color: p.ColorOf(ev.GameSystem.ID)})
	}
	return out
}

// PrevMonth moves the view back one month and clears the selection.
func (s *State) PrevMonth() {
	if s.month == 0 {
		s.month = 11
		s.year--
	} else {
		s.month--
	}
	s.selected = mo.None[DateKey]()
}

// NextMonth moves the view forward one month and clears the selection.
func (s *State) NextMonth() {
	if s.month == 11 {
		s.month = 0
		s.year++
	} else {
		s.month++
	}
	s.selected = mo.None[DateKey]()
}

// SelectDay toggles the selection of k. Days without events cannot be
// selected, so selecting one is a no-op.
func (s *State) SelectDay(k DateKey) {
	if s.buckets.Len(k) == 0 {
		return
	}
	if cur, ok := s.selected.Get(); ok && cur == k {
		s.selected = mo.None[DateKey]()
		return
	}
	s.selected = mo.Some(k)
}

// ClearSelection deselects the current day, if any.
func (s *State) ClearSelection() {
	s.selected = mo.None[DateKey]()
}

// Clone returns an independent copy of the view state. The event index is
// shared; it is never mutated after New.
func (s *State) Clone() *State {
	c := *s
	return &c
}

func (s *State) Year() int { return s.year }
func (s *State) Month() int { return s.month }
func (s *State) Today() DateKey { return s.today }
func (s *State) Selected() Selection { return s.selected }
func (s *State) Buckets() Buckets { return s.buckets }
func (s *State) Legend() []LegendEntry { return s.legend }
func (s *State) WeekStart() time.Weekday { return s.weekStart }
func (s *State) Palette() Palette { return s.palette }
func (s *State) Rejected() []model.Event { return s.rejected }
func (s *State) DetailOpts() DetailOptions { return s.detail }

// MonthKey is the view month as YYYY-MM.
func (s *State) MonthKey() string {
	return FormatMonth(s.year, s.month)
}
