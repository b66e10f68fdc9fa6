package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthLabel renders a view month as "March 2024".
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month+1).String(), year)
}

// LongDate renders a key as "Tuesday, March 5, 2024". Malformed keys are
// returned unchanged.
func LongDate(k DateKey) string {
	t, err := k.Time()
	if err != nil {
		return string(k)
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatStartTime converts a 24-hour HH:MM time into "h:mm am/pm". Empty or
// unparsable input yields "".
func FormatStartTime(hhmm string) string {
	h, m, ok := parseClock(hhmm)
	if !ok {
		return ""
	}
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

// parseClock accepts "H:MM", "HH:MM" and "HH:MM:SS" (seconds are ignored).
func parseClock(s string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	if len(parts[1]) != 2 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// Truncate shortens s to at most limit runes, ending in "…" when cut.
// limit <= 0 disables truncation.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return strings.TrimRight(string(r[:limit-1]), " \t\n") + "…"
}
