package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit   key.Binding
	Help   key.Binding
	Reload key.Binding

	// Tabs and groups
	NextTab     key.Binding
	PrevTab     key.Binding
	ToggleGroup key.Binding
	AllGroups   key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Search
	Search      key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	ClearSearch key.Binding

	// Display
	CycleTheme       key.Binding
	CycleLayout      key.Binding
	CycleBackground  key.Binding
	CycleNetwork     key.Binding
	ToggleDesc       key.Binding
	ToggleTime       key.Binding
	ToggleSettings   key.Binding
	ResetPreferences key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "Toggle help"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload data"),
		),

		NextTab: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab", "Next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab", "Previous tab"),
		),
		ToggleGroup: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "Toggle group"),
		),
		AllGroups: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "All groups"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search"),
		),

		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		CycleLayout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Cycle layout"),
		),
		CycleBackground: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "Cycle background"),
		),
		CycleNetwork: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Cycle network mode"),
		),
		ToggleDesc: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Toggle descriptions"),
		),
		ToggleTime: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Toggle clock"),
		),
		ToggleSettings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Settings panel"),
		),
		ResetPreferences: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Reset preferences"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.ToggleGroup, k.Search, k.Reload, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.ToggleGroup, k.AllGroups},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Search, k.ClearSearch, k.Reload},
		{k.CycleTheme, k.CycleLayout, k.CycleBackground, k.CycleNetwork},
		{k.ToggleDesc, k.ToggleTime, k.ToggleSettings, k.ResetPreferences},
		{k.Help, k.Quit},
	}
}
