package main

import (
	"github.com/spf13/cobra"

	"storecal/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the calendar interactively",
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
		month, _ := cmd.Flags().GetString("month")
		st, err := e.newState(events, month, "")
		if err != nil {
			return err
		}
		return tui.Run(st)
	},
}

func init() {
	browseCmd.Flags().String("month", "", "month to open on (YYYY-MM)")
	rootCmd.AddCommand(browseCmd)
}
