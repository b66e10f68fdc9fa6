package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"storecal/internal/calendar"
	appLog "storecal/internal/log"
	"storecal/internal/model"
)

// ExportOptions controls feed generation.
type ExportOptions struct {
	// Domain is the right-hand side of generated UIDs.
	Domain string
	// ProductID overrides the PRODID property.
	ProductID string
	// Stamp is written as DTSTAMP on every event. Zero means time.Now().
	Stamp time.Time
}

// Export renders events as a VCALENDAR feed. Untimed events are all-day;
// timed events use floating local times since event data has no timezone.
// Events with malformed dates are skipped.
func Export(events []model.Event, opts ExportOptions) string {
	if opts.Domain == "" {
		opts.Domain = "storecal.local"
	}
	if opts.ProductID == "" {
		opts.ProductID = "-//storecal//events//EN"
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(opts.ProductID)

	skipped := 0
	for _, ev := range events {
		key, err := calendar.ParseDateKey(ev.Date)
		if err != nil {
			skipped++
			continue
		}
		day, _ := key.Time()

		vev := cal.AddEvent(fmt.Sprintf("event-%d@%s", ev.ID, opts.Domain))
		vev.SetDtStampTime(opts.Stamp.UTC())
		if h, m, ok := clockParts(ev.StartTime); ok {
			start := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
			vev.SetProperty(ical.ComponentPropertyDtStart, start.Format("20060102T150405"))
		} else {
			vev.SetAllDayStartAt(day)
			vev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}

		vev.SetProperty(ical.ComponentPropertySummary, escapeText(ev.Title))
		if ev.Description != "" {
			vev.SetProperty(ical.ComponentPropertyDescription, escapeText(ev.Description))
		}
		if ev.Location.Name != "" {
			vev.SetProperty(ical.ComponentPropertyLocation, escapeText(ev.Location.Name))
		}
		if ev.GameSystem.Name != "" {
			vev.SetProperty(ical.ComponentPropertyCategories, escapeText(ev.GameSystem.Name))
		}
		if ev.SourceURL != "" {
			vev.SetProperty(ical.ComponentPropertyUrl, ev.SourceURL)
		}
	}

	if skipped > 0 {
		appLog.Warn("ics export skipped events with malformed dates", "count", skipped)
	}
	return cal.Serialize()
}

func clockParts(hhmm string) (hour, minute int, ok bool) {
	if hhmm == "" {
		return 0, 0, false
	}
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0, 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

var (
	textEscaper   = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)
	textUnescaper = strings.NewReplacer(`\\`, `\`, `\;`, ";", `\,`, ",", `\n`, "\n", `\N`, "\n")
)

// escapeText applies RFC 5545 TEXT escaping.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}
