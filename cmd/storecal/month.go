package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storecal/internal/render"
)

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Print a month calendar",
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
		selected, _ := cmd.Flags().GetString("select")
		st, err := e.newState(events, month, selected)
		if err != nil {
			return err
		}

		width, _ := cmd.Flags().GetInt("cell-width")
		fmt.Fprintln(cmd.OutOrStdout(), render.Terminal(st.View(), render.TermOptions{CellWidth: width}))
		return nil
	},
}

func init() {
	monthCmd.Flags().String("month", "", "month to show (YYYY-MM)")
	monthCmd.Flags().String("select", "", "day to expand (YYYY-MM-DD)")
	monthCmd.Flags().Int("cell-width", 0, "width of a day column")
	rootCmd.AddCommand(monthCmd)
}
