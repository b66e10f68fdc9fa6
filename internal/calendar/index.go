package calendar

import (
	"sort"

	"storecal/internal/model"
)

// Buckets maps a date key to the events on that date, in input order.
type Buckets map[DateKey][]model.Event

// Events returns the bucket for k (nil when empty).
func (b Buckets) Events(k DateKey) []model.Event {
	return b[k]
}

// Len returns the number of events on k.
func (b Buckets) Len(k DateKey) int {
	return len(b[k])
}

// Keys returns the populated dates in ascending order.
func (b Buckets) Keys() []DateKey {
	keys := make([]DateKey, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// IndexEvents groups events by date in a single pass. Bucket contents keep
// the order of the input; nothing is sorted. Events whose date is not a
// valid YYYY-MM-DD calendar date are left out of every bucket and returned
// as rejected, so callers can report them.
func IndexEvents(events []model.Event) (Buckets, []model.Event) {
	buckets := make(Buckets)
	var rejected []model.Event

	for _, ev := range events {
		key, err := ParseDateKey(ev.Date)
		if err != nil {
			rejected = append(rejected, ev)
			continue
		}
		buckets[key] = append(buckets[key], ev)
	}
	return buckets, rejected
}

// SortChronological returns a copy of events ordered by date, then start
// time, with untimed events first within a day. The sort is stable, so
// events that tie keep their original order. IndexEvents does not call
// this; apply it beforehand when same-day order should be by time rather
// than by fetch order.
func SortChronological(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartTime == b.StartTime {
			return false
		}
		if a.StartTime == "" {
			return true
		}
		if b.StartTime == "" {
			return false
		}
		return a.StartTime < b.StartTime
	})
	return out
}
