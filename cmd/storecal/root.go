package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"storecal/internal/calendar"
	"storecal/internal/config"
	appLog "storecal/internal/log"
	"storecal/internal/model"
	"storecal/internal/source"
)

var rootCmd = &cobra.Command{
	Use:           "storecal",
	Short:         "Monthly calendar of game store events",
	Long:          "storecal shows tabletop game store events as a month calendar in the terminal, a local web preview, an ICS feed or a PNG snapshot.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			return applyLogLevel(lvl)
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath(), "config file")
	rootCmd.PersistentFlags().String("today", "", "override today (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides config)")
}

func applyLogLevel(s string) error {
	lvl, ok := appLog.ParseLevel(s)
	if !ok {
		return fmt.Errorf("unknown log level %q", s)
	}
	appLog.SetLevel(lvl)
	return nil
}

// env is what every subcommand needs: the loaded config and today's key.
type env struct {
	cfg   *config.Config
	today calendar.DateKey
	// clock re-reads today for long-running commands. It always returns
	// today when --today is set.
	clock func() calendar.DateKey
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel == "" {
		if lvl, ok := appLog.ParseLevel(cfg.LogLevel); ok {
			appLog.SetLevel(lvl)
		} else {
			appLog.Warn("unknown log level in config", "log_level", cfg.LogLevel)
		}
	}

	clock, err := resolveToday(cmd, cfg)
	if err != nil {
		return nil, err
	}
	today := clock()

	appLog.Debug("effective config",
		"config_path", path,
		"source", cfg.Source.Kind,
		"week_start", cfg.WeekStart,
		"timezone", cfg.Timezone,
		"today", today,
	)
	return &env{cfg: cfg, today: today, clock: clock}, nil
}

// resolveToday returns a clock for "today": fixed when --today is given,
// otherwise read from the wall clock in the configured timezone.
func resolveToday(cmd *cobra.Command, cfg *config.Config) (func() calendar.DateKey, error) {
	if s, _ := cmd.Flags().GetString("today"); s != "" {
		k, err := calendar.ParseDateKey(s)
		if err != nil {
			return nil, fmt.Errorf("--today: %w", err)
		}
		return func() calendar.DateKey { return k }, nil
	}
	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "timezone", cfg.Timezone)
	}
	return func() calendar.DateKey { return calendar.TodayIn(time.Now(), loc) }, nil
}

// loadEvents fetches the configured source and applies display ordering.
func (e *env) loadEvents(ctx context.Context) ([]model.Event, error) {
	loader, err := source.New(e.cfg.Source)
	if err != nil {
		return nil, err
	}
	events, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return e.cfg.PrepareEvents(events), nil
}

// newState builds the calendar for the --month and --select flags.
func (e *env) newState(events []model.Event, month, selected string) (*calendar.State, error) {
	var (
		st  *calendar.State
		err error
	)
	if month != "" {
		year, m, perr := calendar.ParseMonth(month)
		if perr != nil {
			return nil, fmt.Errorf("--month: %w", perr)
		}
		st, err = calendar.NewAt(events, e.today, year, m, e.cfg.CalendarOptions()...)
	} else {
		st, err = calendar.New(events, e.today, e.cfg.CalendarOptions()...)
	}
	if err != nil {
		return nil, err
	}

	if n := len(st.Rejected()); n > 0 {
		appLog.Warn("events with malformed dates skipped", "count", n)
	}

	if selected != "" {
		k, err := calendar.ParseDateKey(selected)
		if err != nil {
			return nil, fmt.Errorf("--select: %w", err)
		}
		st.SelectDay(k)
		if st.Selected().IsAbsent() {
			appLog.Info("no events on selected day", "date", k)
		}
	}
	return st, nil
}
