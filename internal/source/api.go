package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	appLog "storecal/internal/log"
	"storecal/internal/model"
)

// Filter narrows the events requested from the API. Zero values are left
// out of the query.
type Filter struct {
	LocationID   int    `yaml:"location_id,omitempty"`
	GameSystemID int    `yaml:"game_system_id,omitempty"`
	DateFrom     string `yaml:"date_from,omitempty"`
	DateTo       string `yaml:"date_to,omitempty"`
	Skip         int    `yaml:"skip,omitempty"`
	Limit        int    `yaml:"limit,omitempty"`
}

func (f Filter) query() url.Values {
	q := url.Values{}
	if f.LocationID != 0 {
		q.Set("location_id", strconv.Itoa(f.LocationID))
	}
	if f.GameSystemID != 0 {
		q.Set("game_system_id", strconv.Itoa(f.GameSystemID))
	}
	if f.DateFrom != "" {
		q.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("date_to", f.DateTo)
	}
	if f.Skip > 0 {
		q.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// cacheEntry holds HTTP cache metadata for a single request URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// APILoader fetches events from the remote events API with HTTP caching
// (ETag / Last-Modified) backed by a disk cache.
type APILoader struct {
	client   *http.Client
	baseURL  string
	cacheDir string
	filter   Filter

	// FromCache reports whether the last successful Load was served from
	// the disk cache.
	FromCache bool
}

// NewAPILoader creates a loader for baseURL (e.g. "http://localhost:8000").
// cacheDir holds one subdirectory per distinct request URL.
func NewAPILoader(baseURL, cacheDir string, filter Filter) *APILoader {
	if cacheDir == "" {
		cacheDir = "./var/events-cache"
	}
	return &APILoader{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		cacheDir: cacheDir,
		filter:   filter,
	}
}

// RequestURL is the full /events URL including the filter query.
func (l *APILoader) RequestURL() string {
	u := l.baseURL + "/events"
	if q := l.filter.query(); len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// Load fetches the event collection. On network errors or non-OK statuses
// it falls back to the cached body when one exists.
func (l *APILoader) Load(ctx context.Context) ([]model.Event, error) {
	body, fromCache, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}
	var events []model.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	l.FromCache = fromCache
	return events, nil
}

func (l *APILoader) fetch(ctx context.Context) ([]byte, bool, error) {
	if l.baseURL == "" {
		return nil, false, errors.New("source: api_url is empty")
	}
	reqURL := l.RequestURL()

	cachePath := l.cachePathForURL(reqURL)
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return nil, false, err
	}

	meta, _ := loadCacheMeta(cachePath)
	cachedBody, _ := loadCacheBody(cachePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	appLog.Debug("events fetch start", "url", redactURL(reqURL))

	resp, err := l.client.Do(req)
	if err != nil {
		if len(cachedBody) > 0 {
			appLog.Error("events fetch network error, using cached body", err, "url", redactURL(reqURL))
			return cachedBody, true, nil
		}
		return nil, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, false, err
		}
		if !json.Valid(body) {
			// A 200 with a non-JSON body never replaces the cache.
			if len(cachedBody) > 0 {
				appLog.Error("events fetch returned invalid JSON, using cached body", errors.New("invalid JSON"), "url", redactURL(reqURL))
				return cachedBody, true, nil
			}
			return nil, false, errors.New("events fetch: response is not valid JSON")
		}
		newMeta := cacheEntry{
			URL:          reqURL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}
		if err := saveCache(cachePath, newMeta, body); err != nil {
			// Log but still return the freshly fetched body.
			appLog.Error("events cache save failed", err, "url", redactURL(reqURL))
		}
		appLog.Info("events fetch success", "url", redactURL(reqURL), "bytes", len(body))
		return body, false, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return nil, false, errors.New("received 304 Not Modified but no cached body available")
		}
		appLog.Info("events not modified; using cache", "url", redactURL(reqURL))
		return cachedBody, true, nil

	default:
		if len(cachedBody) > 0 {
			appLog.Error("events fetch non-OK, using cached body", errors.New(resp.Status), "url", redactURL(reqURL), "status", resp.StatusCode)
			return cachedBody, true, nil
		}
		return nil, false, fmt.Errorf("events fetch: %s", resp.Status)
	}
}

func (l *APILoader) cachePathForURL(u string) string {
	sum := sha256.Sum256([]byte(u))
	return filepath.Join(l.cacheDir, hex.EncodeToString(sum[:8]))
}

func loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

func loadCacheBody(cachePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(cachePath, "events.json"))
}

func saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "events.json"), body, 0o600); err != nil {
		return err
	}
	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}

// redactURL keeps scheme and host only, so tokens in paths or query
// strings stay out of the logs.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
