package web

import (
	"storecal/internal/calendar"
	"storecal/internal/model"
)

// calendarResponse is the JSON response shape for /api/calendar.
type calendarResponse struct {
	Month    string        `json:"month"`
	Label    string        `json:"label"`
	Today    string        `json:"today"`
	Selected *string       `json:"selected"`
	Headers  []string      `json:"headers"`
	Weeks    [][]cellDTO   `json:"weeks"`
	Detail   *detailDTO    `json:"detail"`
	Legend   []legendDTO   `json:"legend"`
	Rejected []model.Event `json:"rejected,omitempty"`
}

type cellDTO struct {
	Blank      bool     `json:"blank,omitempty"`
	Day        int      `json:"day,omitempty"`
	Date       string   `json:"date,omitempty"`
	Today      bool     `json:"today,omitempty"`
	Selected   bool     `json:"selected,omitempty"`
	EventCount int      `json:"event_count"`
	Tags       []tagDTO `json:"tags,omitempty"`
	More       string   `json:"more,omitempty"`
}

type tagDTO struct {
	EventID  int    `json:"event_id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

type detailDTO struct {
	Date  string          `json:"date"`
	Label string          `json:"label"`
	Items []detailItemDTO `json:"items"`
}

type detailItemDTO struct {
	EventID      int            `json:"event_id"`
	Category     string         `json:"category"`
	Color        string         `json:"color"`
	Title        string         `json:"title"`
	Time         string         `json:"time,omitempty"`
	Location     model.Location `json:"location"`
	LocationPath string         `json:"location_path"`
	Description  string         `json:"description,omitempty"`
	SourceURL    string         `json:"source_url,omitempty"`
}

type legendDTO struct {
	Category model.GameSystem `json:"category"`
	Color    string           `json:"color"`
}

func newCalendarResponse(st *calendar.State) calendarResponse {
	v := st.View()
	resp := calendarResponse{
		Month:    st.MonthKey(),
		Label:    v.Label,
		Today:    string(st.Today()),
		Headers:  v.Headers,
		Legend:   make([]legendDTO, 0, len(v.Legend)),
		Rejected: st.Rejected(),
	}
	if k, ok := v.Selected.Get(); ok {
		sel := string(k)
		resp.Selected = &sel
	}

	for _, week := range v.Weeks() {
		row := make([]cellDTO, len(week))
		for i, c := range week {
			if c.Blank {
				row[i] = cellDTO{Blank: true}
				continue
			}
			cell := cellDTO{
				Day:        c.Day,
				Date:       string(c.Key),
				Today:      c.Today,
				Selected:   c.Selected,
				EventCount: len(c.Events),
				More:       c.OverflowLabel(),
			}
			for _, t := range c.Tags() {
				cell.Tags = append(cell.Tags, tagDTO{
					EventID:  t.EventID,
					Title:    t.Title,
					Category: t.Category,
					Color:    t.Color.Name,
				})
			}
			row[i] = cell
		}
		resp.Weeks = append(resp.Weeks, row)
	}

	if d, ok := v.Detail.Get(); ok {
		dd := &detailDTO{
			Date:  string(d.Key),
			Label: d.Label,
			Items: make([]detailItemDTO, 0, len(d.Items)),
		}
		for _, it := range d.Items {
			dd.Items = append(dd.Items, detailItemDTO{
				EventID:      it.EventID,
				Category:     it.Tag.Label,
				Color:        it.Tag.Color.Name,
				Title:        it.Title,
				Time:         it.Time,
				Location:     it.Location,
				LocationPath: it.LocationPath,
				Description:  it.Description,
				SourceURL:    it.SourceURL,
			})
		}
		resp.Detail = dd
	}

	for _, e := range v.Legend {
		resp.Legend = append(resp.Legend, legendDTO{Category: e.Category, Color: e.Color.Name})
	}
	return resp
}
