package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGrid_ShapeAcrossYears(t *testing.T) {
	for _, year := range []int{1999, 2000, 2023, 2024, 2100} {
		for month := 0; month < 12; month++ {
			cells, err := BuildGrid(year, month)
			require.NoError(t, err)

			assert.Zero(t, len(cells)%7, "%d-%02d not rectangular", year, month+1)

			days := 0
			for _, c := range cells {
				if !c.Blank {
					days++
				}
			}
			want := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
			assert.Equal(t, want, days, "%d-%02d", year, month+1)
		}
	}
}

func TestBuildGrid_February(t *testing.T) {
	tests := []struct {
		name string
		year int
		days int
	}{
		{"leap 2024", 2024, 29},
		{"common 2023", 2023, 28},
		{"century 1900", 1900, 28},
		{"quad century 2000", 2000, 29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells, err := BuildGrid(tt.year, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.days, countDays(cells))
			assert.Equal(t, tt.days, DaysIn(tt.year, 1))
		})
	}
}

func TestBuildGrid_LeadingBlanksAndKeys(t *testing.T) {
	// March 1st 2024 is a Friday.
	cells, err := BuildGrid(2024, 2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.True(t, cells[i].Blank, "cell %d", i)
		assert.Empty(t, cells[i].Key)
	}
	assert.Equal(t, GridCell{Day: 1, Key: "2024-03-01"}, cells[5])
	assert.Equal(t, GridCell{Day: 31, Key: "2024-03-31"}, cells[35])
	assert.Len(t, cells, 42)
	for _, c := range cells[36:] {
		assert.True(t, c.Blank)
	}
}

func TestBuildGrid_NoPaddingNeeded(t *testing.T) {
	// February 2015 starts on Sunday and has 28 days: exactly four rows.
	cells, err := BuildGrid(2015, 1)
	require.NoError(t, err)
	assert.Len(t, cells, 28)
	assert.False(t, cells[0].Blank)
}

func TestBuildGridFrom_Monday(t *testing.T) {
	// September 1st 2024 is a Sunday: no blanks on a Sunday grid, six on a
	// Monday grid.
	sun, err := BuildGridFrom(2024, 8, time.Sunday)
	require.NoError(t, err)
	mon, err := BuildGridFrom(2024, 8, time.Monday)
	require.NoError(t, err)

	assert.False(t, sun[0].Blank)
	assert.Equal(t, 6, leadingBlanks(mon))
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, WeekdayHeaders(time.Monday))
}

func TestBuildGrid_MonthOutOfRange(t *testing.T) {
	for _, m := range []int{-1, 12, 99} {
		_, err := BuildGrid(2024, m)
		assert.ErrorIs(t, err, ErrMonthOutOfRange, "month %d", m)
	}
}

func countDays(cells []GridCell) int {
	n := 0
	for _, c := range cells {
		if !c.Blank {
			n++
		}
	}
	return n
}

func leadingBlanks(cells []GridCell) int {
	n := 0
	for _, c := range cells {
		if !c.Blank {
			break
		}
		n++
	}
	return n
}
