package calendar

import (
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var (
	// ErrMalformedDate is returned for date strings that are not a real
	// calendar date in YYYY-MM-DD form.
	ErrMalformedDate = errors.New("calendar: malformed date")
	// ErrMonthOutOfRange is returned when a zero-indexed month is not 0-11.
	ErrMonthOutOfRange = errors.New("calendar: month out of range")
)

// DateKey is a naive calendar date in YYYY-MM-DD form, used to address
// buckets and grid cells.
type DateKey string

// KeyOf formats a key from a year, a zero-indexed month and a day.
func KeyOf(year, month, day int) DateKey {
	return DateKey(fmt.Sprintf("%04d-%02d-%02d", year, month+1, day))
}

// ParseDateKey validates s and returns it as a DateKey. It rejects anything
// that is not exactly YYYY-MM-DD or that names a day which does not exist
// (2023-02-29, 2024-13-01, ...).
func ParseDateKey(s string) (DateKey, error) {
	if len(s) != len(dateLayout) {
		return "", fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return DateKey(s), nil
}

// Parts splits a key into year, zero-indexed month and day.
func (k DateKey) Parts() (year, month, day int, err error) {
	t, err := k.Time()
	if err != nil {
		return 0, 0, 0, err
	}
	return t.Year(), int(t.Month()) - 1, t.Day(), nil
}

// Time returns the key as midnight UTC. UTC is only a carrier here; keys
// have no timezone.
func (k DateKey) Time() (time.Time, error) {
	if len(k) != len(dateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, string(k))
	}
	t, err := time.Parse(dateLayout, string(k))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, string(k))
	}
	return t, nil
}

func (k DateKey) String() string {
	return string(k)
}

// TodayIn derives today's key from a clock reading in loc. It is meant for
// the outer edge of the program (CLI, server); the engine itself only ever
// receives the resulting key.
func TodayIn(now time.Time, loc *time.Location) DateKey {
	if loc != nil {
		now = now.In(loc)
	}
	return DateKey(now.Format(dateLayout))
}

// ParseMonth parses a YYYY-MM view month into a year and zero-indexed month.
func ParseMonth(s string) (year, month int, err error) {
	t, err := time.Parse("2006-01", s)
	if err != nil || len(s) != len("2006-01") {
		return 0, 0, fmt.Errorf("%w: month %q", ErrMalformedDate, s)
	}
	return t.Year(), int(t.Month()) - 1, nil
}

// FormatMonth is the inverse of ParseMonth.
func FormatMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month+1)
}

func validMonth(month int) error {
	if month < 0 || month > 11 {
		return fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}
	return nil
}
