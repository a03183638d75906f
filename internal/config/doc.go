// Package config loads and live-reloads the Tessera configuration.
//
// Configuration is a single TOML file decoded over built-in defaults:
// missing fields keep their default values, out-of-range numbers are
// clamped back, and a missing file is not an error when loaded through
// LoadOrDefault.
//
// # Configuration File
//
//	# tessera.toml
//	[log]
//	level = "info"          # debug, info, warn, error
//	file = ""               # empty = stderr
//
//	[engine]
//	max_undo_entries = 1000
//	read_only = false
//
//	[ui]
//	tab_width = 4
//	show_status = true
//
//	[session]
//	path = ""               # empty disables session persistence
//	restore = true
//
// # Basic Usage
//
//	cfg, err := config.LoadOrDefault("tessera.toml")
//	if err != nil {
//	    // parse failure: cfg holds the defaults, err says why
//	}
//
// # Live Reload
//
// A Watcher reloads the file when it changes on disk, collapsing
// rapid write bursts into one reload:
//
//	w, err := config.NewWatcher("tessera.toml", func(cfg config.Config) {
//	    // apply cfg
//	})
//	defer w.Close()
//
// Parse failures during reload keep the previous configuration.
package config
