// Package config loads the lightpanel client configuration.
//
// The file is TOML and lives at ~/.config/lightpanel/config.toml unless a
// path is given. A missing file is not an error; every field falls back to
// its default, and so does a blank value:
//
//	base_url          = "127.0.0.1:16601"    # panel host, optional path prefix
//	prefs_dir         = "~/.config/lightpanel"
//	stats_interval_ms = 5000
//	log_file          = "~/.local/state/lightpanel/lightpanel.log"
//	log_level         = "info"               # debug | info | warn | error
//
// Paths starting with "~" are expanded against the home directory and made
// absolute. Invalid TOML is reported as a "parse config" error.
package config
