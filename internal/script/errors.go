package script

import "errors"

// Errors for script execution.
var (
	// ErrRunnerClosed is returned when running a script on a closed Runner.
	ErrRunnerClosed = errors.New("script runner is closed")

	// ErrNilEngine is returned when creating a Runner without an engine.
	ErrNilEngine = errors.New("script runner requires an engine")
)
