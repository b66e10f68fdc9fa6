package model

// GameSystem is the category an event belongs to (e.g. "Warhammer 40,000").
// The numeric ID is assigned by the events API and drives the stable pill
// color in calendar views.
type GameSystem struct {
	ID        int    `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Slug      string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
}

// Location is the store hosting an event.
type Location struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	City        string `json:"city,omitempty" yaml:"city,omitempty"`
	State       string `json:"state,omitempty" yaml:"state,omitempty"`
	Website     string `json:"website,omitempty" yaml:"website,omitempty"`
	DiscordURL  string `json:"discord_url,omitempty" yaml:"discord_url,omitempty"`
	FacebookURL string `json:"facebook_url,omitempty" yaml:"facebook_url,omitempty"`
}

// Event is a single community-submitted store event as returned by the
// events API. Date is a naive calendar date (YYYY-MM-DD) and StartTime, if
// set, is a 24-hour HH:MM wall-clock time; neither carries a timezone.
type Event struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time,omitempty"`
	Description string `json:"description,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
	SourceType  string `json:"source_type,omitempty"`

	Location   Location   `json:"location"`
	GameSystem GameSystem `json:"game_system"`
}

// HasStartTime reports whether the event carries a start time.
func (e Event) HasStartTime() bool {
	return e.StartTime != ""
}
