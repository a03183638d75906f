package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = 1000
	DefaultTabWidth       = 4
)

// Config holds the full Tessera configuration.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Engine  EngineConfig  `toml:"engine"`
	UI      UIConfig      `toml:"ui"`
	Session SessionConfig `toml:"session"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// File receives log output; empty means stderr.
	File string `toml:"file"`
}

// EngineConfig controls the document engine.
type EngineConfig struct {
	// MaxUndoEntries caps the undo stack.
	MaxUndoEntries int `toml:"max_undo_entries"`

	// ReadOnly rejects all edits.
	ReadOnly bool `toml:"read_only"`
}

// UIConfig controls the interactive pad.
type UIConfig struct {
	// TabWidth is the display width of a tab character.
	TabWidth int `toml:"tab_width"`

	// ShowStatus toggles the status line.
	ShowStatus bool `toml:"show_status"`
}

// SessionConfig controls session persistence.
type SessionConfig struct {
	// Path is the session file location; empty disables persistence.
	Path string `toml:"path"`

	// Restore reopens the previous document on startup.
	Restore bool `toml:"restore"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		Engine: EngineConfig{
			MaxUndoEntries: DefaultMaxUndoEntries,
		},
		UI: UIConfig{
			TabWidth:   DefaultTabWidth,
			ShowStatus: true,
		},
		Session: SessionConfig{
			Restore: true,
		},
	}
}

// Load reads and parses the TOML file at path. Fields absent from the
// file keep their defaults. A missing file is reported with an error
// that matches errors.Is(err, fs.ErrNotExist).
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadOrDefault is Load for optional files: a missing file yields the
// defaults with no error. Any other failure also yields the defaults,
// with the error returned so the caller can report it and proceed.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// parse decodes TOML data over the defaults.
func parse(source string, data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return Default(), perr
	}

	cfg.normalize()
	return cfg, nil
}

// normalize clamps out-of-range values back to their defaults.
func (c *Config) normalize() {
	if c.Engine.MaxUndoEntries <= 0 {
		c.Engine.MaxUndoEntries = DefaultMaxUndoEntries
	}
	if c.UI.TabWidth <= 0 {
		c.UI.TabWidth = DefaultTabWidth
	}
}
