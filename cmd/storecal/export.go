package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"storecal/internal/ics"
	appLog "storecal/internal/log"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the events as an ICS feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		events, err := e.loadEvents(cmd.Context())
		if err != nil {
			return err
		}

		domain, _ := cmd.Flags().GetString("domain")
		body := ics.Export(events, ics.ExportOptions{Domain: domain})

		out, _ := cmd.Flags().GetString("output")
		if out == "" || out == "-" {
			_, err := io.WriteString(cmd.OutOrStdout(), body)
			return err
		}
		if err := os.WriteFile(out, []byte(body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		appLog.Info("ics feed written", "path", out, "events", len(events))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	exportCmd.Flags().String("domain", "", "domain used in event UIDs")
	rootCmd.AddCommand(exportCmd)
}
