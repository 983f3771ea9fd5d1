package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lightpanel/lightpanel/internal/backend"
	"github.com/lightpanel/lightpanel/internal/prefs"
)

// Theme defines the palette for one ThemeMode.
type Theme struct {
	Mode prefs.ThemeMode

	Background string
	Surface    string
	SurfaceAlt string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles contains pre-built lipgloss styles for a theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header    lipgloss.Style
	Footer    lipgloss.Style
	Title     lipgloss.Style
	Selected  lipgloss.Style
	ActiveTab lipgloss.Style
	Tab       lipgloss.Style
	Chip      lipgloss.Style
	ChipOn    lipgloss.Style
	Card      lipgloss.Style
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		ActiveTab: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Accent)).
			Foreground(lipgloss.Color(t.Background)).
			Bold(true).
			Padding(0, 1),

		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Chip: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		ChipOn: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SurfaceAlt)).
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
	}
}

// StateStyle colours a container or service state.
func (s Styles) StateStyle(state string) lipgloss.Style {
	switch backend.DockerState(strings.ToLower(strings.TrimSpace(state))) {
	case backend.DockerRunning:
		return s.SuccessText
	case backend.DockerExited:
		return s.DangerText
	case backend.DockerPaused:
		return s.WarningText
	case backend.DockerRestarting:
		return s.InfoText
	default:
		return s.MutedText
	}
}

// ThemeFor returns the palette for mode; unknown modes get the dark one.
func ThemeFor(mode prefs.ThemeMode) Theme {
	switch mode {
	case prefs.ThemeLight:
		return lightTheme()
	case prefs.ThemeSketchLight:
		return sketchLightTheme()
	case prefs.ThemeSketchDark:
		return sketchDarkTheme()
	default:
		return darkTheme()
	}
}

func darkTheme() Theme {
	// Tailwind slate/sky.
	return Theme{
		Mode:          prefs.ThemeDark,
		Background:    "#020617",
		Surface:       "#0f172a",
		SurfaceAlt:    "#1e293b",
		SelectionBg:   "#0284c7",
		SelectionText: "#f8fafc",
		Border:        "#334155",
		BorderFocus:   "#38bdf8",
		Text:          "#f1f5f9",
		Muted:         "#94a3b8",
		Faint:         "#64748b",
		Accent:        "#38bdf8",
		Success:       "#22c55e",
		Warning:       "#f59e0b",
		Danger:        "#ef4444",
		Info:          "#06b6d4",
	}
}

func lightTheme() Theme {
	return Theme{
		Mode:          prefs.ThemeLight,
		Background:    "#f8fafc",
		Surface:       "#e2e8f0",
		SurfaceAlt:    "#cbd5e1",
		SelectionBg:   "#0ea5e9",
		SelectionText: "#ffffff",
		Border:        "#94a3b8",
		BorderFocus:   "#0284c7",
		Text:          "#0f172a",
		Muted:         "#475569",
		Faint:         "#94a3b8",
		Accent:        "#0369a1",
		Success:       "#15803d",
		Warning:       "#b45309",
		Danger:        "#b91c1c",
		Info:          "#0e7490",
	}
}

func sketchDarkTheme() Theme {
	// Charcoal paper, hsl(40 12% 8%).
	return Theme{
		Mode:          prefs.ThemeSketchDark,
		Background:    "#171512",
		Surface:       "#24211c",
		SurfaceAlt:    "#322e27",
		SelectionBg:   "#5c5242",
		SelectionText: "#f3ecdc",
		Border:        "#6b6152",
		BorderFocus:   "#e0b66a",
		Text:          "#ede6d6",
		Muted:         "#a89f8c",
		Faint:         "#6b6152",
		Accent:        "#e0b66a",
		Success:       "#9bc47a",
		Warning:       "#e0a458",
		Danger:        "#d9705b",
		Info:          "#8fb8c9",
	}
}

func sketchLightTheme() Theme {
	// Warm paper, hsl(45 30% 88%).
	return Theme{
		Mode:          prefs.ThemeSketchLight,
		Background:    "#eae5d7",
		Surface:       "#ddd6c3",
		SurfaceAlt:    "#cfc6ae",
		SelectionBg:   "#3d3a33",
		SelectionText: "#eae5d7",
		Border:        "#8a8270",
		BorderFocus:   "#3d3a33",
		Text:          "#2b2822",
		Muted:         "#5e584b",
		Faint:         "#8a8270",
		Accent:        "#8a5a1c",
		Success:       "#4d7a2e",
		Warning:       "#a3661a",
		Danger:        "#a33b2a",
		Info:          "#2f6b80",
	}
}
