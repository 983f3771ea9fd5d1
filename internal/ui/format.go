package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/lightpanel/lightpanel/internal/backend"
	"github.com/lightpanel/lightpanel/internal/prefs"
)

// FormatBytes renders a byte count; negative and NaN values count as zero.
func FormatBytes(v float64) string {
	if math.IsNaN(v) || v <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(v))
}

// FormatRate renders a bytes-per-second value.
func FormatRate(v float64) string {
	return FormatBytes(v) + "/s"
}

// EffectiveNetwork resolves the network used to pick site URLs. Explicit
// modes win; auto and hybrid follow what the backend detected.
func EffectiveNetwork(mode prefs.NetworkMode, detected backend.NetworkType) backend.NetworkType {
	switch mode {
	case prefs.NetworkInternal:
		return backend.NetworkInternal
	case prefs.NetworkExternal:
		return backend.NetworkExternal
	}
	if detected == "" {
		return backend.NetworkExternal
	}
	return detected
}

// DockerStatLine summarises one container's live metrics.
func DockerStatLine(s backend.DockerStat) string {
	parts := []string{}
	if v := strings.TrimSpace(s.CPUPercent); v != "" {
		parts = append(parts, "cpu "+v)
	}
	if v := strings.TrimSpace(s.MemoryUsage); v != "" {
		mem := "mem " + v
		if p := strings.TrimSpace(s.MemoryPercent); p != "" {
			mem += " (" + p + ")"
		}
		parts = append(parts, mem)
	}
	parts = append(parts, fmt.Sprintf("↓ %s ↑ %s", FormatRate(s.NetworkRxSpeed), FormatRate(s.NetworkTxSpeed)))
	if s.DiskReadSpeed > 0 || s.DiskWriteSpeed > 0 {
		parts = append(parts, fmt.Sprintf("disk r %s w %s", FormatRate(s.DiskReadSpeed), FormatRate(s.DiskWriteSpeed)))
	}
	return strings.Join(parts, " · ")
}

// ServiceStatLine summarises one Lucky service's connections and traffic.
func ServiceStatLine(s backend.LuckyServiceStat) string {
	return fmt.Sprintf("tcp %d udp %d · in %s out %s · ↓ %s ↑ %s",
		s.TCPCurrentConnections,
		s.UDPCurrentConnections,
		FormatBytes(s.TrafficIn),
		FormatBytes(s.TrafficOut),
		FormatRate(s.InSpeed),
		FormatRate(s.OutSpeed),
	)
}

// cycle returns the element after cur in list, wrapping around. An unknown
// cur yields the first element.
func cycle[T comparable](list []T, cur T) T {
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}

func tabLabel(tab prefs.Tab) string {
	switch tab {
	case prefs.TabDocker:
		return "Docker"
	case prefs.TabLuckyServices:
		return "Lucky"
	default:
		return "Sites"
	}
}

// truncate shortens s to limit runes, adding an ellipsis when cut.
func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}
