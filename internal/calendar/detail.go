package calendar

import (
	"fmt"

	"storecal/internal/model"
)

// DefaultDescriptionLimit is the display cap for event descriptions in the
// day panel, in runes.
const DefaultDescriptionLimit = 160

// DetailOptions tunes the day panel.
type DetailOptions struct {
	// DescriptionLimit caps descriptions in runes. Zero means
	// DefaultDescriptionLimit; negative disables truncation.
	DescriptionLimit int
	// Palette colors the category tags. Nil means PaletteV1.
	Palette Palette
}

// Tag is a colored category label.
type Tag struct {
	CategoryID int
	Label      string
	Color      Color
}

// DetailItem is one event row in the day panel.
type DetailItem struct {
	EventID      int
	Tag          Tag
	Title        string
	Time         string
	Location     model.Location
	LocationPath string
	Description  string
	SourceURL    string
}

// DayDetail is the expanded view of a selected day.
type DayDetail struct {
	Key   DateKey
	Label string
	Items []DetailItem
}

// BuildDetail renders the panel for key from its bucket. It reports false
// for an empty bucket, in which case nothing should be shown.
func BuildDetail(key DateKey, events []model.Event, opts DetailOptions) (DayDetail, bool) {
	if len(events) == 0 {
		return DayDetail{}, false
	}

	limit := opts.DescriptionLimit
	if limit == 0 {
		limit = DefaultDescriptionLimit
	}

	d := DayDetail{
		Key:   key,
		Label: LongDate(key),
		Items: make([]DetailItem, 0, len(events)),
	}
	for _, ev := range events {
		d.Items = append(d.Items, DetailItem{
			EventID:      ev.ID,
			Tag:          tagFor(ev.GameSystem, opts.Palette),
			Title:        ev.Title,
			Time:         FormatStartTime(ev.StartTime),
			Location:     ev.Location,
			LocationPath: fmt.Sprintf("/locations/%d", ev.Location.ID),
			Description:  Truncate(ev.Description, limit),
			SourceURL:    ev.SourceURL,
		})
	}
	return d, true
}

func tagFor(gs model.GameSystem, p Palette) Tag {
	return Tag{CategoryID: gs.ID, Label: gs.Name, Color: p.ColorOf(gs.ID)}
}
