package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"

	appLog "storecal/internal/log"
	"storecal/internal/model"
)

// Parse reads VEVENTs from an iCalendar payload into events.
//
//   - DTSTART is read as a naive date (and wall-clock time when present);
//     TZID and UTC markers are ignored, nothing is converted.
//   - CATEGORIES (first value) becomes the game system and LOCATION the
//     store. Both get ids in first-seen order, starting at 1.
//   - Event ids are assigned sequentially in file order.
//   - RRULEs are not expanded; only the first occurrence is kept.
//
// VEVENTs without a usable DTSTART or SUMMARY are logged and skipped.
func Parse(body []byte) ([]model.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err)
		return nil, err
	}

	systems := newRegistry()
	locations := newRegistry()
	events := make([]model.Event, 0)

	for _, ve := range cal.Events() {
		ev, perr := parseVEvent(ve, systems, locations)
		if perr != nil {
			appLog.Error("ics vevent skipped", perr, "uid", propValue(ve, ical.ComponentPropertyUniqueId))
			continue
		}
		ev.ID = len(events) + 1
		events = append(events, ev)
	}

	appLog.Info("ics parse completed", "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent, systems, locations *registry) (model.Event, error) {
	var out model.Event

	out.Title = unescapeText(propValue(ve, ical.ComponentPropertySummary))
	if out.Title == "" {
		return out, errors.New("missing SUMMARY")
	}

	date, clock, err := naiveDateTime(propValue(ve, ical.ComponentPropertyDtStart))
	if err != nil {
		return out, err
	}
	out.Date = date
	out.StartTime = clock

	out.Description = unescapeText(propValue(ve, ical.ComponentPropertyDescription))
	out.SourceURL = propValue(ve, ical.ComponentPropertyUrl)

	category := firstCategory(propValue(ve, ical.ComponentPropertyCategories))
	if category == "" {
		category = "Other"
	}
	out.GameSystem = model.GameSystem{ID: systems.id(category), Name: category}

	place := unescapeText(propValue(ve, ical.ComponentPropertyLocation))
	if place == "" {
		place = "Unknown location"
	}
	out.Location = model.Location{ID: locations.id(place), Name: place}

	return out, nil
}

func propValue(ve *ical.VEvent, p ical.ComponentProperty) string {
	prop := ve.GetProperty(p)
	if prop == nil {
		return ""
	}
	return strings.TrimSpace(prop.Value)
}

// naiveDateTime splits 20240305 or 20240305T180000[Z] into "2024-03-05"
// and "18:00" (empty for date-only values).
func naiveDateTime(v string) (date, clock string, err error) {
	if len(v) < 8 {
		return "", "", fmt.Errorf("bad DTSTART %q", v)
	}
	for _, c := range v[:8] {
		if c < '0' || c > '9' {
			return "", "", fmt.Errorf("bad DTSTART %q", v)
		}
	}
	date = v[0:4] + "-" + v[4:6] + "-" + v[6:8]

	rest := v[8:]
	if rest == "" {
		return date, "", nil
	}
	if rest[0] != 'T' || len(rest) < 5 {
		return "", "", fmt.Errorf("bad DTSTART %q", v)
	}
	return date, rest[1:3] + ":" + rest[3:5], nil
}

func firstCategory(v string) string {
	// CATEGORIES is a comma separated list; escaped commas stay in a name.
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) {
			b.WriteByte(v[i])
			b.WriteByte(v[i+1])
			i++
			continue
		}
		if v[i] == ',' {
			break
		}
		b.WriteByte(v[i])
	}
	return strings.TrimSpace(unescapeText(b.String()))
}

type registry struct {
	ids map[string]int
}

func newRegistry() *registry {
	return &registry{ids: make(map[string]int)}
}

func (r *registry) id(name string) int {
	if id, ok := r.ids[name]; ok {
		return id
	}
	id := len(r.ids) + 1
	r.ids[name] = id
	return id
}
