package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/tessera/internal/diag"
	"github.com/dshills/tessera/internal/engine"
)

// Session records the editing state written on exit and restored on
// the next start.
type Session struct {
	// ID identifies the session.
	ID string

	// File is the document that was open.
	File string

	// Cursor is the rune offset the cursor was at.
	Cursor engine.Offset

	// SavedAt is when the session was written.
	SavedAt time.Time
}

// SessionStore reads and writes the session file. The file is plain
// JSON accessed by path, so unknown fields written by other versions
// survive a load/save cycle untouched.
type SessionStore struct {
	path string
	log  *diag.Logger
}

// NewSessionStore creates a store for the session file at path.
func NewSessionStore(path string, log *diag.Logger) *SessionStore {
	if log == nil {
		log = diag.NullLogger
	}
	return &SessionStore{path: path, log: log}
}

// Path returns the session file location.
func (s *SessionStore) Path() string {
	return s.path
}

// Save writes the session. A session without an ID keeps the stored
// one, or gets a fresh one for a new file. The parent directory is
// created if needed.
func (s *SessionStore) Save(sess Session) error {
	out := s.existing()

	if sess.ID == "" {
		sess.ID = gjson.Get(out, "id").String()
	}
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	if sess.SavedAt.IsZero() {
		sess.SavedAt = time.Now()
	}

	var err error
	if out, err = sjson.Set(out, "id", sess.ID); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if out, err = sjson.Set(out, "file", sess.File); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if out, err = sjson.Set(out, "cursor", int64(sess.Cursor)); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if out, err = sjson.Set(out, "saved_at", sess.SavedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	s.log.Debug("session saved to %s", s.path)
	return nil
}

// existing returns the current file content when it is valid JSON, so
// Save preserves fields this version does not know about.
func (s *SessionStore) existing() string {
	data, err := os.ReadFile(s.path)
	if err != nil || !gjson.ValidBytes(data) {
		return "{}"
	}
	return string(data)
}

// Load reads the session. A missing file is reported with an error
// that matches errors.Is(err, fs.ErrNotExist).
func (s *SessionStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}, fmt.Errorf("read session %s: %w", s.path, err)
	}
	if !gjson.ValidBytes(data) {
		return Session{}, fmt.Errorf("session file %s is not valid JSON", s.path)
	}

	sess := Session{
		ID:     gjson.GetBytes(data, "id").String(),
		File:   gjson.GetBytes(data, "file").String(),
		Cursor: engine.Offset(gjson.GetBytes(data, "cursor").Int()),
	}
	if ts := gjson.GetBytes(data, "saved_at").String(); ts != "" {
		if at, err := time.Parse(time.RFC3339, ts); err == nil {
			sess.SavedAt = at
		}
	}
	if sess.Cursor < 0 {
		sess.Cursor = 0
	}

	return sess, nil
}
