// Package app is the composition root of lightpanel.
//
// Bootstrap wires the pieces without touching the network:
//
//	config.Load()            TOML config, CLI overrides applied on top
//	logging.Setup()          slog text handler on the log file + warning ring
//	prefs.NewFileStorage()   one JSON blob per key in the prefs dir
//	prefs.Store.Load()       stored preferences merged over defaults
//	backend.NewClient()      HTTP JSON client for the panel endpoints
//	state.NewNavStore()      catalogs, stats maps, pollers
//
// Initialize then performs the startup fetches in order:
//
//  1. NavStore.LoadAllData: nav config and the three catalogs, settle-all
//  2. NavStore.FetchServerConfig and prefs.Store.ApplyServerConfig, only
//     when a nav config arrived; local preferences always win
//  3. NavStore.FetchNetworkType
//
// Run starts the Bubble Tea UI after that. Snapshot prints a one-shot text
// summary instead, and Reset writes the default preferences back.
package app
