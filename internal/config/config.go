package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"storecal/internal/calendar"
	"storecal/internal/model"
	"storecal/internal/source"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the preview server.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	// PasswordHash is an argon2id hash from `storecal hash-password`. It
	// takes precedence over Password.
	PasswordHash string `yaml:"password_hash,omitempty" json:"password_hash,omitempty"`
}

// DisplayConfig tunes how the calendar is drawn.
type DisplayConfig struct {
	// DescriptionLimit caps event descriptions in the day panel, in runes.
	// Negative disables truncation.
	DescriptionLimit int `yaml:"description_limit" json:"description_limit"`
	// SortByStartTime orders same-day events by start time instead of
	// keeping the order the source returned them in.
	SortByStartTime bool `yaml:"sort_by_start_time" json:"sort_by_start_time"`
}

// SnapshotConfig controls PNG captures of the calendar page.
type SnapshotConfig struct {
	Width      int `yaml:"width" json:"width"`
	Height     int `yaml:"height" json:"height"`
	TimeoutSec int `yaml:"timeout_sec" json:"timeout_sec"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address of the preview server.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone used to read "today" off the clock. Event
	// dates themselves are never converted.
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart is the first grid column: "sunday" (default) or "monday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// RefreshCron is the cron schedule on which the preview server reloads
	// events (e.g. "*/15 * * * *").
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	Source   source.Config  `yaml:"source" json:"source"`
	Display  DisplayConfig  `yaml:"display" json:"display"`
	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`

	// BasicAuth, if set, protects every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultPath is ~/.config/storecal/config.yaml, or ./storecal.yaml when
// the user config dir is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storecal.yaml"
	}
	return filepath.Join(dir, "storecal", "config.yaml")
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills in missing/zero values with defaults so partially filled
// configs still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	switch c.WeekStart {
	case "sunday", "monday":
	default:
		// Unknown value; fall back to sunday to avoid surprising layouts.
		c.WeekStart = "sunday"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Source.Kind == "" {
		c.Source.Kind = "api"
	}
	if c.Source.Kind == "api" && c.Source.APIURL == "" {
		c.Source.APIURL = "http://127.0.0.1:8000"
	}
	if c.Source.CacheDir == "" {
		c.Source.CacheDir = defaultCacheDir()
	}

	if c.Display.DescriptionLimit == 0 {
		c.Display.DescriptionLimit = 160
	}

	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = 1200
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = 900
	}
	if c.Snapshot.TimeoutSec <= 0 {
		c.Snapshot.TimeoutSec = 30
	}
}

// Weekday returns WeekStart as a time.Weekday.
func (c *Config) Weekday() time.Weekday {
	if c.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

// CalendarOptions maps the display settings onto calendar.State options.
func (c *Config) CalendarOptions() []calendar.Option {
	return []calendar.Option{
		calendar.WithWeekStart(c.Weekday()),
		calendar.WithDetailOptions(calendar.DetailOptions{DescriptionLimit: c.Display.DescriptionLimit}),
	}
}

// PrepareEvents applies display.sort_by_start_time. The input is not
// modified.
func (c *Config) PrepareEvents(events []model.Event) []model.Event {
	if !c.Display.SortByStartTime {
		return events
	}
	return calendar.SortChronological(events)
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, err
	}
	return loc, nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "./cache/events"
	}
	return filepath.Join(dir, "storecal", "events")
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there with
//     0600 perms (parent directories created) and returned.
//   - Otherwise the YAML is read, unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg with the error so the caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms,
// creating the parent directory (0700) if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".storecal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
