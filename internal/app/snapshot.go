package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lightpanel/lightpanel/internal/prefs"
	"github.com/lightpanel/lightpanel/internal/state"
	"github.com/lightpanel/lightpanel/internal/ui"
)

// Snapshot loads everything once, including one round of the statistics
// feeds of the enabled modules, and writes a text summary to w.
func Snapshot(ctx context.Context, opts Options, w io.Writer) error {
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Initialize(ctx)
	snap := env.Nav.Snapshot()
	if snap.DockerEnabled {
		env.Nav.LoadDockerStats(ctx)
	}
	if snap.LuckyServicesEnabled {
		env.Nav.LoadLuckyServicesStats(ctx)
	}

	return WriteSnapshot(w, env.Prefs.Config(), env.Nav.Snapshot())
}

// WriteSnapshot renders snap as plain text, honouring the network mode and
// description setting of cfg.
func WriteSnapshot(w io.Writer, cfg prefs.UserConfig, snap state.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := snap.Title
	if snap.Subtitle != "" {
		header += " - " + snap.Subtitle
	}
	fmt.Fprintln(tw, header)
	network := ui.EffectiveNetwork(cfg.NetworkMode, snap.NetworkType)
	fmt.Fprintf(tw, "network\t%s (mode %s, probe %s)\n", network, cfg.NetworkMode, snap.NetworkProbe)
	if snap.ClientIP != "" {
		fmt.Fprintf(tw, "client ip\t%s\n", snap.ClientIP)
	}
	fmt.Fprintf(tw, "theme\t%s\n", cfg.Theme)

	if snap.SitesEnabled {
		fmt.Fprintf(tw, "\nSITES (%d)\n", len(snap.Sites))
		for _, s := range snap.Sites {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", s.Name, s.GroupKey, s.URLFor(network), desc(cfg, s.Description))
		}
	}

	if snap.DockerEnabled {
		fmt.Fprintf(tw, "\nDOCKER (%d)\n", len(snap.Containers))
		for _, c := range snap.Containers {
			stats := ""
			if stat, ok := snap.DockerStats[c.ContainerName]; ok {
				stats = ui.DockerStatLine(stat)
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", c.Label(), c.State, stats, desc(cfg, c.Description))
		}
	}

	if snap.LuckyServicesEnabled {
		fmt.Fprintf(tw, "\nLUCKY (%d)\n", len(snap.LuckyServices))
		for _, s := range snap.LuckyServices {
			stats := ""
			if stat, ok := snap.LuckyServicesStats[s.Key]; ok {
				stats = ui.ServiceStatLine(stat)
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", s.Label(), s.ServiceType, stats, desc(cfg, s.Description))
		}
	}

	return tw.Flush()
}

func desc(cfg prefs.UserConfig, s string) string {
	if !cfg.ShowDescription {
		return ""
	}
	return strings.TrimSpace(s)
}
