package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReload(t *testing.T) {
	path := writeConfig(t, "[ui]\ntab_width = 4\n")

	reloaded := make(chan Config, 4)
	w, err := NewWatcher(path, func(cfg Config) {
		reloaded <- cfg
	}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("starting watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[ui]\ntab_width = 2\n"), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.UI.TabWidth != 2 {
			t.Errorf("expected tab width 2 after reload, got %d", cfg.UI.TabWidth)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherSurvivesRename(t *testing.T) {
	// Editors typically save by writing a temp file and renaming it
	// over the original; the watcher must pick that up.
	dir := t.TempDir()
	path := filepath.Join(dir, "tessera.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntab_width = 4\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	reloaded := make(chan Config, 4)
	w, err := NewWatcher(path, func(cfg Config) {
		reloaded <- cfg
	}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("starting watcher: %v", err)
	}
	defer w.Close()

	tmp := filepath.Join(dir, "tessera.toml.tmp")
	if err := os.WriteFile(tmp, []byte("[ui]\ntab_width = 8\n"), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("renaming config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.UI.TabWidth != 8 {
			t.Errorf("expected tab width 8 after rename, got %d", cfg.UI.TabWidth)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherKeepsOldConfigOnParseError(t *testing.T) {
	path := writeConfig(t, "[ui]\ntab_width = 4\n")

	reloaded := make(chan Config, 4)
	w, err := NewWatcher(path, func(cfg Config) {
		reloaded <- cfg
	}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("starting watcher: %v", err)
	}
	defer w.Close()

	// Break the file, then fix it. Only the fixed version may arrive.
	if err := os.WriteFile(path, []byte("broken [[["), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("[ui]\ntab_width = 6\n"), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.UI.TabWidth != 6 {
			t.Errorf("expected tab width 6, got %d", cfg.UI.TabWidth)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tessera.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntab_width = 4\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	reloaded := make(chan Config, 4)
	w, err := NewWatcher(path, func(cfg Config) {
		reloaded <- cfg
	}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("starting watcher: %v", err)
	}
	defer w.Close()

	sibling := filepath.Join(dir, "other.toml")
	if err := os.WriteFile(sibling, []byte("[ui]\ntab_width = 9\n"), 0o644); err != nil {
		t.Fatalf("writing sibling: %v", err)
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("unexpected reload from sibling file: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	path := writeConfig(t, "[ui]\ntab_width = 4\n")

	w, err := NewWatcher(path, func(Config) {})
	if err != nil {
		t.Fatalf("starting watcher: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("first close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
}
