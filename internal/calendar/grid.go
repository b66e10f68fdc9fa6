package calendar

import "time"

// GridCell is one slot of a 7-column month grid. Blank cells pad the grid
// before day 1 and after the last day and carry no date.
type GridCell struct {
	Blank bool
	Day   int
	Key   DateKey
}

// BuildGrid lays out a month (zero-indexed) with Sunday in the first column.
func BuildGrid(year, month int) ([]GridCell, error) {
	return BuildGridFrom(year, month, time.Sunday)
}

// BuildGridFrom lays out a month with weekStart in the first column. The
// result always has a length that is a multiple of 7.
func BuildGridFrom(year, month int, weekStart time.Weekday) ([]GridCell, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	leading := (int(first.Weekday()) - normWeekday(weekStart) + 7) % 7
	// Day 0 of the next month is the last day of this one.
	days := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()

	total := leading + days
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}

	cells := make([]GridCell, 0, total)
	for i := 0; i < leading; i++ {
		cells = append(cells, GridCell{Blank: true})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, GridCell{Day: d, Key: KeyOf(year, month, d)})
	}
	for len(cells) < total {
		cells = append(cells, GridCell{Blank: true})
	}
	return cells, nil
}

// DaysIn returns the number of days in a zero-indexed month.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

var weekdayShort = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayHeaders returns the column labels for a grid starting on weekStart.
func WeekdayHeaders(weekStart time.Weekday) []string {
	out := make([]string, 7)
	for i := range out {
		out[i] = weekdayShort[(normWeekday(weekStart)+i)%7]
	}
	return out
}

func normWeekday(w time.Weekday) int {
	return (int(w)%7 + 7) % 7
}
