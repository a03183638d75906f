package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/tessera/internal/engine"
)

func TestSessionSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path, nil)

	in := Session{File: "/tmp/notes.txt", Cursor: 42}
	if err := store.Save(in); err != nil {
		t.Fatalf("Save error = %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if out.File != in.File {
		t.Errorf("File = %q, want %q", out.File, in.File)
	}
	if out.Cursor != in.Cursor {
		t.Errorf("Cursor = %d, want %d", out.Cursor, in.Cursor)
	}
	if out.ID == "" {
		t.Error("ID should be assigned on save")
	}
	if out.SavedAt.IsZero() {
		t.Error("SavedAt should be set on save")
	}
	if time.Since(out.SavedAt) > time.Minute {
		t.Errorf("SavedAt = %v, want recent", out.SavedAt)
	}
}

func TestSessionSaveKeepsID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path, nil)

	in := Session{ID: "fixed-id", File: "a.txt"}
	if err := store.Save(in); err != nil {
		t.Fatalf("Save error = %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if out.ID != "fixed-id" {
		t.Errorf("ID = %q, want %q", out.ID, "fixed-id")
	}
}

func TestSessionSaveReusesStoredID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path, nil)

	if err := store.Save(Session{File: "a.txt"}); err != nil {
		t.Fatalf("first Save error = %v", err)
	}
	first, err := store.Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if err := store.Save(Session{File: "b.txt", Cursor: 7}); err != nil {
		t.Fatalf("second Save error = %v", err)
	}
	second, err := store.Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("ID changed across saves: %q then %q", first.ID, second.ID)
	}
	if second.File != "b.txt" || second.Cursor != 7 {
		t.Errorf("session = %+v, want updated file and cursor", second)
	}
}

func TestSessionSavePreservesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	store := NewSessionStore(path, nil)
	if err := store.Save(Session{File: "a.txt"}); err != nil {
		t.Fatalf("Save error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}
	if got := gjson.GetBytes(data, "theme").String(); got != "dark" {
		t.Errorf("theme = %q, want %q preserved across save", got, "dark")
	}
	if got := gjson.GetBytes(data, "file").String(); got != "a.txt" {
		t.Errorf("file = %q, want %q", got, "a.txt")
	}
}

func TestSessionSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "tessera", "session.json")
	store := NewSessionStore(path, nil)

	if err := store.Save(Session{File: "a.txt"}); err != nil {
		t.Fatalf("Save error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Stat error = %v, want session file created", err)
	}
}

func TestSessionLoadMissingFile(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "none.json"), nil)

	_, err := store.Load()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load error = %v, want fs.ErrNotExist", err)
	}
}

func TestSessionLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	store := NewSessionStore(path, nil)
	if _, err := store.Load(); err == nil {
		t.Error("Load with invalid JSON should error")
	}
}

func TestSessionLoadClampsNegativeCursor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"file":"a.txt","cursor":-5}`), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	store := NewSessionStore(path, nil)
	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if sess.Cursor != engine.Offset(0) {
		t.Errorf("Cursor = %d, want 0", sess.Cursor)
	}
}
