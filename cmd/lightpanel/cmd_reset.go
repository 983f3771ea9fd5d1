package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightpanel/lightpanel/internal/app"
)

func init() {
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default display preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Reset(opts); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "preferences reset to defaults")
		return nil
	},
}
