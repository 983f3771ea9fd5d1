package main

import (
	"github.com/spf13/cobra"

	"github.com/lightpanel/lightpanel/internal/app"
)

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Load the panel once and print a text summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Snapshot(cmd.Context(), opts, cmd.OutOrStdout())
	},
}
