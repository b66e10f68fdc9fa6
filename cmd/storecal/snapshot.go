package main

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"storecal/internal/calendar"
	"storecal/internal/capture"
	appLog "storecal/internal/log"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render the calendar page to a PNG with headless Chromium",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		month, _ := cmd.Flags().GetString("month")
		selected, _ := cmd.Flags().GetString("select")
		out, _ := cmd.Flags().GetString("output")

		target, err := snapshotQuery(month, selected)
		if err != nil {
			return err
		}

		events, err := e.loadEvents(cmd.Context())
		if err != nil {
			return err
		}
		srv, err := e.newServer()
		if err != nil {
			return err
		}
		srv.SetEvents(events)

		// Private server on a loopback port, no auth.
		e.cfg.BasicAuth = nil

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		done := make(chan error, 1)
		go func() { done <- srv.Serve(ctx, ln) }()

		capErr := capture.CapturePNG(cmd.Context(), capture.CaptureOptions{
			URL:        "http://" + ln.Addr().String() + "/calendar" + target,
			OutputPath: out,
			Width:      e.cfg.Snapshot.Width,
			Height:     e.cfg.Snapshot.Height,
			Timeout:    time.Duration(e.cfg.Snapshot.TimeoutSec) * time.Second,
		})

		cancel()
		if err := <-done; err != nil {
			appLog.Error("preview server stopped with error", err)
		}
		return capErr
	},
}

// snapshotQuery validates the flags and turns them into a /calendar query.
func snapshotQuery(month, selected string) (string, error) {
	q := url.Values{}
	if month != "" {
		if _, _, err := calendar.ParseMonth(month); err != nil {
			return "", fmt.Errorf("--month: %w", err)
		}
		q.Set("month", month)
	}
	if selected != "" {
		if _, err := calendar.ParseDateKey(selected); err != nil {
			return "", fmt.Errorf("--select: %w", err)
		}
		q.Set("selected", selected)
	}
	if len(q) == 0 {
		return "", nil
	}
	return "?" + q.Encode(), nil
}

func init() {
	snapshotCmd.Flags().StringP("output", "o", "calendar.png", "PNG output path")
	snapshotCmd.Flags().String("month", "", "month to capture (YYYY-MM)")
	snapshotCmd.Flags().String("select", "", "day to expand (YYYY-MM-DD)")
	rootCmd.AddCommand(snapshotCmd)
}
