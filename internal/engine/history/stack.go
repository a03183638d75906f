package history

import (
	"errors"
	"time"

	"github.com/dshills/tessera/internal/engine/piecetable"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries caps the undo stack when NewHistory is given a
// non-positive limit.
const DefaultMaxEntries = 1000

// Applier replays an edit record and returns its inverse. Every
// piecetable.Table implements it.
type Applier interface {
	Apply(piecetable.Record) piecetable.Record
}

// entry wraps a record with metadata.
type entry struct {
	record    piecetable.Record
	timestamp time.Time
}

// History manages the undo and redo stacks for one table.
//
// Records are single-use: replaying one yields its inverse, so Undo
// pops the newest record from one stack and pushes what Apply returns
// onto the other. History is not safe for concurrent use; the owning
// facade serializes access alongside the table itself.
type History struct {
	undoStack []entry
	redoStack []entry

	maxEntries int
}

// NewHistory creates a new history coordinator.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push adds an edit record to the undo stack.
// Clears the redo stack.
func (h *History) Push(rec piecetable.Record) {
	h.undoStack = append(h.undoStack, entry{
		record:    rec,
		timestamp: time.Now(),
	})

	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo replays the most recent record against t and keeps the
// returned inverse for Redo.
func (h *History) Undo(t Applier) error {
	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}

	top := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	inv := t.Apply(top.record)
	h.redoStack = append(h.redoStack, entry{
		record:    inv,
		timestamp: top.timestamp,
	})
	return nil
}

// Redo replays the most recently undone record against t and keeps
// the returned inverse for Undo.
func (h *History) Redo(t Applier) error {
	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}

	top := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	inv := t.Apply(top.record)
	h.undoStack = append(h.undoStack, entry{
		record:    inv,
		timestamp: top.timestamp,
	})
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.maxEntries = max

	if len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = h.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	return h.maxEntries
}
