package app

import (
	"errors"
	"testing"
)

func TestInitErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *InitError
		expected string
	}{
		{
			name:     "config failure",
			err:      &InitError{Component: "config", Err: errors.New("no such file")},
			expected: "init config: no such file",
		},
		{
			name:     "engine failure",
			err:      &InitError{Component: "engine", Err: errors.New("bad options")},
			expected: "init engine: bad options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestInitErrorUnwrap(t *testing.T) {
	inner := errors.New("inner error")
	err := &InitError{Component: "logger", Err: inner}

	if err.Unwrap() != inner {
		t.Error("Unwrap() did not return the wrapped error")
	}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to match the wrapped error")
	}
}

func TestSentinelErrorsDistinct(t *testing.T) {
	if errors.Is(ErrQuit, ErrAlreadyRunning) {
		t.Error("expected ErrQuit and ErrAlreadyRunning to be distinct")
	}
}
