package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"storecal/internal/calendar"
	"storecal/internal/config"
	"storecal/internal/ics"
	appLog "storecal/internal/log"
	"storecal/internal/model"
	"storecal/internal/render"
	"storecal/internal/source"
)

// Server is the local preview server. It holds the last loaded event
// collection in memory and renders it as JSON, HTML and an ICS feed.
type Server struct {
	cfg    *config.Config
	loader source.Loader
	today  func() calendar.DateKey
	mux    *http.ServeMux

	// Event collection shared between request handlers and the refresh
	// job.
	eventsMu sync.RWMutex
	events   []model.Event
	loadedAt time.Time
}

// NewServer constructs a new Server. today is consulted per request so a
// long-running server rolls over at midnight.
func NewServer(cfg *config.Config, loader source.Loader, today func() calendar.DateKey) *Server {
	s := &Server{
		cfg:    cfg,
		loader: loader,
		today:  today,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// SetEvents replaces the in-memory collection.
func (s *Server) SetEvents(events []model.Event) {
	events = s.cfg.PrepareEvents(events)
	s.eventsMu.Lock()
	s.events = events
	s.loadedAt = time.Now()
	s.eventsMu.Unlock()
}

// Events returns the current collection.
func (s *Server) Events() []model.Event {
	s.eventsMu.RLock()
	defer s.eventsMu.RUnlock()
	return s.events
}

// Refresh reloads events from the loader. On error the previous
// collection is kept.
func (s *Server) Refresh(ctx context.Context) error {
	if s.loader == nil {
		return errors.New("web: no loader configured")
	}
	events, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("web: refresh: %w", err)
	}
	s.SetEvents(events)
	appLog.Info("events refreshed", "count", len(events))
	return nil
}

// StartScheduler runs Refresh on the configured cron schedule until ctx
// is done. The returned function stops the scheduler early.
func (s *Server) StartScheduler(ctx context.Context) (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(s.cfg.RefreshCron, func() {
		if err := s.Refresh(ctx); err != nil {
			appLog.Error("scheduled refresh failed", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("web: invalid refresh schedule %q: %w", s.cfg.RefreshCron, err)
	}
	c.Start()
	appLog.Info("refresh scheduler started", "schedule", s.cfg.RefreshCron)

	var once sync.Once
	stop := func() {
		once.Do(func() { <-c.Stop().Done() })
	}
	go func() {
		<-ctx.Done()
		stop()
	}()
	return stop, nil
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	appLog.Info("HTTP server stopped")
	return nil
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	ba := s.cfg.BasicAuth
	// An empty username, or no password of either form, counts as disabled.
	if ba.Username == "" || (ba.Password == "" && ba.PasswordHash == "") {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	ba := *s.cfg.BasicAuth

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, ba.Username) || !checkPassword(ba, p) {
			w.Header().Set("WWW-Authenticate", `Basic realm="storecal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			appLog.Warn("failed auth attempt", "remote", r.RemoteAddr, "user", u)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/calendar", s.handleCalendarJSON)
	s.mux.HandleFunc("/calendar", s.handleCalendarHTML)
	s.mux.HandleFunc("/calendar.ics", s.handleICS)
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/calendar", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Events   []model.Event `json:"events"`
	Count    int           `json:"count"`
	LoadedAt *time.Time    `json:"loaded_at,omitempty"`
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.eventsMu.RLock()
	events, loadedAt := s.events, s.loadedAt
	s.eventsMu.RUnlock()

	if events == nil {
		events = []model.Event{}
	}
	resp := eventsResponse{Events: events, Count: len(events)}
	if !loadedAt.IsZero() {
		resp.LoadedAt = &loadedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCalendarJSON returns the month view.
//
// GET /api/calendar?month=2024-03&selected=2024-03-05
//   - month:    YYYY-MM; defaults to the first event's month
//   - selected: YYYY-MM-DD; ignored when the day has no events
func (s *Server) handleCalendarJSON(w http.ResponseWriter, r *http.Request) {
	st, err := s.stateFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newCalendarResponse(st))
}

func (s *Server) handleCalendarHTML(w http.ResponseWriter, r *http.Request) {
	st, err := s.stateFor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.HTML(w, render.NewPage(st, "/calendar")); err != nil {
		appLog.Error("failed to render calendar page", err)
	}
}

func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	body := ics.Export(s.Events(), ics.ExportOptions{Domain: icsDomain(r)})
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="storecal.ics"`)
	_, _ = w.Write([]byte(body))
}

func icsDomain(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" {
		return "storecal.local"
	}
	return host
}

// stateFor builds a calendar.State from the request's month and selected
// parameters.
func (s *Server) stateFor(r *http.Request) (*calendar.State, error) {
	events := s.Events()
	today := s.today()
	opts := s.cfg.CalendarOptions()

	q := r.URL.Query()
	var (
		st  *calendar.State
		err error
	)
	if m := q.Get("month"); m != "" {
		year, month, perr := calendar.ParseMonth(m)
		if perr != nil {
			return nil, fmt.Errorf("invalid month %q: %w", m, perr)
		}
		st, err = calendar.NewAt(events, today, year, month, opts...)
	} else {
		st, err = calendar.New(events, today, opts...)
	}
	if err != nil {
		return nil, err
	}

	if sel := q.Get("selected"); sel != "" {
		k, perr := calendar.ParseDateKey(sel)
		if perr != nil {
			return nil, fmt.Errorf("invalid selected %q: %w", sel, perr)
		}
		st.SelectDay(k)
	}
	return st, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
