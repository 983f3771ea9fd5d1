// Package ui implements the lightpanel terminal interface with Bubble Tea.
//
// # Layout
//
//	┌ header: title, subtitle, network mode → detected network, clock ┐
//	│ tabs:   Sites | Docker | Lucky            layout <mode>        │
//	│ groups: 0 all  1 media  2 infra ...                           │
//	│ search: / keyword                                              │
//	│ items:  rendered per LayoutMode of the current tab             │
//	└ footer: last warning from the log ring, short help            ┘
//
// # Data flow
//
// The model never talks to the backend itself. A one-second tick copies a
// state.Snapshot from the NavStore and the UserConfig from the prefs.Store;
// every key press writes through the prefs.Store and re-reads the config.
// Reload runs NavStore.LoadAllData in a command.
//
// # Polling
//
// Only the visible tab polls. Switching to Docker starts the container stats
// loop and stops the Lucky one, and the reverse for Lucky; the Sites tab
// stops both. Quitting stops all polling.
//
// # Layouts
//
//   - list: one row per item with description, URL or status, live stats
//   - minimal: titles only
//   - compact: grid of titles with a state dot
//   - normal: grid of bordered cards
//   - large: full-width cards
package ui
