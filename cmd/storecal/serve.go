package main

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appLog "storecal/internal/log"
	"storecal/internal/source"
	"storecal/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local calendar preview server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			e.cfg.Listen = listen
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := e.newServer()
		if err != nil {
			return err
		}
		if err := srv.Refresh(ctx); err != nil {
			appLog.Error("initial refresh failed; serving empty calendar", err)
		}
		stopCron, err := srv.StartScheduler(ctx)
		if err != nil {
			return err
		}
		defer stopCron()

		ln, err := net.Listen("tcp", e.cfg.Listen)
		if err != nil {
			return fmt.Errorf("listen %s: %w", e.cfg.Listen, err)
		}
		return srv.Serve(ctx, ln)
	},
}

// newServer wires the configured loader into a preview server.
func (e *env) newServer() (*web.Server, error) {
	loader, err := source.New(e.cfg.Source)
	if err != nil {
		return nil, err
	}
	return web.NewServer(e.cfg, loader, e.clock), nil
}

func init() {
	serveCmd.Flags().String("listen", "", "HTTP listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
