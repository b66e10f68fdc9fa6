package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storecal/internal/calendar"
	"storecal/internal/config"
	"storecal/internal/model"
)

type stubLoader struct {
	events []model.Event
	err    error
	calls  int
}

func (l *stubLoader) Load(context.Context) ([]model.Event, error) {
	l.calls++
	return l.events, l.err
}

func testEvents() []model.Event {
	loc := model.Location{ID: 3, Name: "Dragon's Den"}
	warhammer := model.GameSystem{ID: 1, Name: "Warhammer 40K"}
	magic := model.GameSystem{ID: 2, Name: "Magic"}
	return []model.Event{
		{ID: 11, Title: "Kill Team", Date: "2024-03-05", StartTime: "18:00", Location: loc, GameSystem: warhammer},
		{ID: 12, Title: "Draft", Date: "2024-03-05", StartTime: "13:30", Location: loc, GameSystem: magic},
		{ID: 13, Title: "Crusade", Date: "2024-03-19", Location: loc, GameSystem: warhammer},
		{ID: 14, Title: "Broken", Date: "March 30", Location: loc, GameSystem: magic},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *stubLoader) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	loader := &stubLoader{events: testEvents()}
	s := NewServer(cfg, loader, func() calendar.DateKey { return "2024-03-19" })
	require.NoError(t, s.Refresh(context.Background()))
	return s, loader
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestEventsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s.Handler(), "/api/events")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Events []model.Event `json:"events"`
		Count  int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, "Kill Team", resp.Events[0].Title)
}

func TestEventsEndpoint_LoadedAt(t *testing.T) {
	empty := NewServer(config.DefaultConfig(), nil, func() calendar.DateKey { return "2024-03-19" })
	rec := get(t, empty.Handler(), "/api/events")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "loaded_at")

	s, _ := newTestServer(t, nil)
	rec = get(t, s.Handler(), "/api/events")
	var resp struct {
		LoadedAt *time.Time `json:"loaded_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.LoadedAt)
	assert.False(t, resp.LoadedAt.IsZero())
}

func TestCalendarJSON(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s.Handler(), "/api/calendar?month=2024-03&selected=2024-03-05")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp calendarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-03", resp.Month)
	assert.Equal(t, "March 2024", resp.Label)
	assert.Equal(t, "2024-03-19", resp.Today)
	require.NotNil(t, resp.Selected)
	assert.Equal(t, "2024-03-05", *resp.Selected)

	require.NotNil(t, resp.Detail)
	require.Len(t, resp.Detail.Items, 2)
	assert.Equal(t, "Kill Team", resp.Detail.Items[0].Title, "fetch order is kept by default")
	assert.Equal(t, "6:00 pm", resp.Detail.Items[0].Time)
	assert.Equal(t, "/locations/3", resp.Detail.Items[0].LocationPath)

	require.Len(t, resp.Rejected, 1)
	assert.Equal(t, 14, resp.Rejected[0].ID)
	assert.Len(t, resp.Legend, 2)

	var found bool
	for _, week := range resp.Weeks {
		assert.Len(t, week, 7)
		for _, c := range week {
			if c.Date == "2024-03-19" {
				found = true
				assert.True(t, c.Today)
				assert.Equal(t, 1, c.EventCount)
			}
		}
	}
	assert.True(t, found)
}

func TestCalendarJSON_DefaultsAndErrors(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	t.Run("no month opens on the first event", func(t *testing.T) {
		rec := get(t, h, "/api/calendar")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp calendarResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "2024-03", resp.Month)
		assert.Nil(t, resp.Selected)
		assert.Nil(t, resp.Detail)
	})

	t.Run("selecting an empty day is ignored", func(t *testing.T) {
		rec := get(t, h, "/api/calendar?month=2024-03&selected=2024-03-06")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp calendarResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Nil(t, resp.Selected)
	})

	for _, target := range []string{
		"/api/calendar?month=2024-13",
		"/api/calendar?month=march",
		"/api/calendar?month=2024-03&selected=tomorrow",
		"/calendar?month=2024-00",
	} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, h, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCalendarJSON_SortByStartTime(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.SortByStartTime = true
	s, _ := newTestServer(t, cfg)

	rec := get(t, s.Handler(), "/api/calendar?month=2024-03&selected=2024-03-05")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp calendarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Detail)
	assert.Equal(t, "Draft", resp.Detail.Items[0].Title)
}

func TestCalendarHTML(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s.Handler(), "/calendar?month=2024-03&selected=2024-03-19")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, `data-ready="true"`)
	assert.Contains(t, body, "Tuesday, March 19, 2024")
	assert.Contains(t, body, "Crusade")
}

func TestRootRedirects(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s.Handler(), "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/calendar", rec.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/nope").Code)
}

func TestICSFeed(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s.Handler(), "/calendar.ics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Contains(t, body, "SUMMARY:Kill Team")
	assert.Contains(t, body, "UID:event-11@example.com")
	assert.NotContains(t, body, "Broken")
}

func TestRefresh_KeepsEventsOnError(t *testing.T) {
	s, loader := newTestServer(t, nil)
	loader.err = errors.New("api down")

	assert.Error(t, s.Refresh(context.Background()))
	assert.Len(t, s.Events(), 4)
	assert.Equal(t, 2, loader.calls)

	noLoader := NewServer(config.DefaultConfig(), nil, func() calendar.DateKey { return "2024-03-19" })
	assert.Error(t, noLoader.Refresh(context.Background()))
}

func TestStartScheduler(t *testing.T) {
	cfg := config.DefaultConfig()
	s, _ := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop, err := s.StartScheduler(ctx)
	require.NoError(t, err)
	stop()
	stop()

	cfg.RefreshCron = "every now and then"
	_, err = s.StartScheduler(ctx)
	assert.Error(t, err)
}

func TestBasicAuth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "secret"}
	s, _ := newTestServer(t, cfg)
	h := s.Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/health").Code)

	rec := get(t, h, "/api/events")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.SetBasicAuth("admin", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
