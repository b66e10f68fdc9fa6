package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"storecal/internal/ics"
	appLog "storecal/internal/log"
	"storecal/internal/model"
)

// ErrUnknownKind is returned by New for an unsupported source kind.
var ErrUnknownKind = errors.New("source: unknown kind")

// Loader produces the event collection the calendar is built from. Loaders
// do not filter or sort beyond what the backing source does.
type Loader interface {
	Load(ctx context.Context) ([]model.Event, error)
}

// Config selects and configures a Loader.
type Config struct {
	// Kind is one of "api", "file" or "ics".
	Kind     string `yaml:"kind"`
	APIURL   string `yaml:"api_url,omitempty"`
	Path     string `yaml:"path,omitempty"`
	CacheDir string `yaml:"cache_dir,omitempty"`
	Filter   Filter `yaml:"filters,omitempty"`
}

// New returns the Loader for cfg.Kind.
func New(cfg Config) (Loader, error) {
	switch cfg.Kind {
	case "api", "":
		return NewAPILoader(cfg.APIURL, cfg.CacheDir, cfg.Filter), nil
	case "file":
		return FileLoader{Path: cfg.Path}, nil
	case "ics":
		return ICSLoader{Path: cfg.Path}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// FileLoader reads a JSON array of events, in the API's response format.
type FileLoader struct {
	Path string
}

func (f FileLoader) Load(_ context.Context) ([]model.Event, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var events []model.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	appLog.Debug("events file loaded", "path", f.Path, "count", len(events))
	return events, nil
}

// ICSLoader reads events from an iCalendar file.
type ICSLoader struct {
	Path string
}

func (l ICSLoader) Load(_ context.Context) ([]model.Event, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, err
	}
	return ics.Parse(data)
}
