package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"storecal/internal/calendar"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/calendar.html.tmpl"))

// PageCell is a grid cell plus the link that toggles its selection.
type PageCell struct {
	calendar.CalendarCell
	URL string
}

// Page is the data behind the HTML calendar page.
type Page struct {
	View     calendar.MonthView
	MonthKey string
	Weeks    [][]PageCell
	Detail   *calendar.DayDetail
	PrevURL  string
	NextURL  string
	CloseURL string
	ICSURL   string
	CSS      template.CSS
}

// NewPage prepares the HTML page for s. Links are computed by applying the
// matching transition to a copy of s, so following a link shows exactly
// what the transition would.
func NewPage(s *calendar.State, basePath string) Page {
	view := s.View()

	prev := s.Clone()
	prev.PrevMonth()
	next := s.Clone()
	next.NextMonth()
	closed := s.Clone()
	closed.ClearSelection()

	p := Page{
		View:     view,
		MonthKey: s.MonthKey(),
		PrevURL:  stateURL(basePath, prev),
		NextURL:  stateURL(basePath, next),
		CloseURL: stateURL(basePath, closed),
		ICSURL:   strings.TrimSuffix(basePath, "/") + ".ics",
		CSS:      paletteCSS(s.Palette()),
	}

	if d, ok := view.Detail.Get(); ok {
		p.Detail = &d
	}

	for _, week := range view.Weeks() {
		row := make([]PageCell, len(week))
		for i, c := range week {
			row[i] = PageCell{CalendarCell: c}
			if c.HasEvents() {
				toggled := s.Clone()
				toggled.SelectDay(c.Key)
				row[i].URL = stateURL(basePath, toggled)
			}
		}
		p.Weeks = append(p.Weeks, row)
	}
	return p
}

// HTML writes the calendar page.
func HTML(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}

func stateURL(basePath string, s *calendar.State) string {
	q := url.Values{}
	q.Set("month", s.MonthKey())
	if k, ok := s.Selected().Get(); ok {
		q.Set("selected", string(k))
	}
	return basePath + "?" + q.Encode()
}

// paletteCSS emits one .pill-<name> rule per palette slot.
func paletteCSS(p calendar.Palette) template.CSS {
	if len(p) == 0 {
		p = calendar.PaletteV1
	}
	var b strings.Builder
	for _, c := range p {
		fmt.Fprintf(&b, ".pill-%s{background:%s;color:%s}\n", c.Name, c.Background, c.Foreground)
	}
	return template.CSS(b.String())
}
