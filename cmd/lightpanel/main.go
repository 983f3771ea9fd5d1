package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lightpanel/lightpanel/internal/app"
)

var opts app.Options

var rootCmd = &cobra.Command{
	Use:           "lightpanel",
	Short:         "Terminal navigation panel for a home-lab dashboard backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), opts)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (default ~/.config/lightpanel/config.toml)")
	flags.StringVar(&opts.BaseURL, "base-url", "", "panel backend base URL (overrides config)")
	flags.StringVar(&opts.PrefsDir, "prefs-dir", "", "directory for stored preferences (overrides config)")
	flags.DurationVar(&opts.PollEvery, "poll", 0, "statistics refresh interval, e.g. 5s (overrides config)")
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lightpanel: %v\n", err)
		return 1
	}
	return 0
}
