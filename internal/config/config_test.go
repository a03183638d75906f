package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tessera.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != "info" {
		t.Errorf("expected level info, got %q", cfg.Log.Level)
	}
	if cfg.Engine.MaxUndoEntries != DefaultMaxUndoEntries {
		t.Errorf("expected %d undo entries, got %d", DefaultMaxUndoEntries, cfg.Engine.MaxUndoEntries)
	}
	if cfg.Engine.ReadOnly {
		t.Error("expected read_only=false")
	}
	if cfg.UI.TabWidth != DefaultTabWidth {
		t.Errorf("expected tab width %d, got %d", DefaultTabWidth, cfg.UI.TabWidth)
	}
	if !cfg.UI.ShowStatus {
		t.Error("expected show_status=true")
	}
	if !cfg.Session.Restore {
		t.Error("expected restore=true")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"
file = "/tmp/tessera.log"

[engine]
max_undo_entries = 50
read_only = true

[ui]
tab_width = 8
show_status = false

[session]
path = "/tmp/session.json"
restore = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Log.Level)
	}
	if cfg.Log.File != "/tmp/tessera.log" {
		t.Errorf("unexpected log file %q", cfg.Log.File)
	}
	if cfg.Engine.MaxUndoEntries != 50 {
		t.Errorf("expected 50 undo entries, got %d", cfg.Engine.MaxUndoEntries)
	}
	if !cfg.Engine.ReadOnly {
		t.Error("expected read_only=true")
	}
	if cfg.UI.TabWidth != 8 {
		t.Errorf("expected tab width 8, got %d", cfg.UI.TabWidth)
	}
	if cfg.UI.ShowStatus {
		t.Error("expected show_status=false")
	}
	if cfg.Session.Path != "/tmp/session.json" {
		t.Errorf("unexpected session path %q", cfg.Session.Path)
	}
}

func TestLoadPartialFile(t *testing.T) {
	// Fields absent from the file keep their defaults.
	path := writeConfig(t, `
[engine]
max_undo_entries = 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine.MaxUndoEntries != 10 {
		t.Errorf("expected 10 undo entries, got %d", cfg.Engine.MaxUndoEntries)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default level, got %q", cfg.Log.Level)
	}
	if cfg.UI.TabWidth != DefaultTabWidth {
		t.Errorf("expected default tab width, got %d", cfg.UI.TabWidth)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeConfig(t, "[engine\nmax_undo_entries = 50\n")

	_, err := Load(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Path != path {
		t.Errorf("expected path %q, got %q", path, perr.Path)
	}
	if perr.Line == 0 {
		t.Error("expected a line number in the parse error")
	}
	if perr.Unwrap() == nil {
		t.Error("expected a wrapped decoder error")
	}
}

func TestLoadNormalizes(t *testing.T) {
	path := writeConfig(t, `
[engine]
max_undo_entries = -5

[ui]
tab_width = 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine.MaxUndoEntries != DefaultMaxUndoEntries {
		t.Errorf("expected clamped undo entries, got %d", cfg.Engine.MaxUndoEntries)
	}
	if cfg.UI.TabWidth != DefaultTabWidth {
		t.Errorf("expected clamped tab width, got %d", cfg.UI.TabWidth)
	}
}

func TestLoadOrDefault(t *testing.T) {
	// Missing file: defaults, no error.
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.Engine.MaxUndoEntries != DefaultMaxUndoEntries {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	// Broken file: defaults plus the parse error.
	path := writeConfig(t, "not toml at all [[[")
	cfg, err = LoadOrDefault(path)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if cfg.UI.TabWidth != DefaultTabWidth {
		t.Errorf("expected defaults on parse failure, got %+v", cfg)
	}

	// Valid file: its values.
	path = writeConfig(t, "[ui]\ntab_width = 2\n")
	cfg, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.TabWidth != 2 {
		t.Errorf("expected tab width 2, got %d", cfg.UI.TabWidth)
	}
}
