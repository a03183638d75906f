package tui

import "errors"

// Errors for editor construction.
var (
	// ErrNilEngine is returned when creating an Editor without an engine.
	ErrNilEngine = errors.New("editor requires an engine")
)
