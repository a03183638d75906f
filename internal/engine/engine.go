package engine

import (
	"fmt"
	"io"
	"sync"

	"github.com/dshills/tessera/internal/diag"
	"github.com/dshills/tessera/internal/engine/history"
	"github.com/dshills/tessera/internal/engine/piecetable"
)

// Offset is a logical rune position in the document.
type Offset int64

// RevisionID identifies a document revision. It increases on every
// successful mutation, including undo and redo.
type RevisionID uint64

// Engine is the facade over a rune piece table and its undo history.
// It validates caller input, so the fail-loud preconditions of the
// core are unreachable through this API, and it holds the one
// exclusive lock both structures rely on.
//
// All operations are safe to call from multiple goroutines.
type Engine struct {
	mu sync.RWMutex

	table   *piecetable.Table[rune]
	history *history.History
	log     *diag.Logger

	readOnly bool
	revision RevisionID

	// Initialization
	initText       string
	maxUndoEntries int
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:            diag.NullLogger,
		maxUndoEntries: DefaultMaxUndoEntries,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.table = piecetable.New([]rune(e.initText),
		piecetable.WithLogger(e.log.WithComponent("piecetable")))
	e.history = history.NewHistory(e.maxUndoEntries)

	return e
}

// NewFromReader creates an Engine whose initial content is read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read initial content: %w", err)
	}

	opts = append(opts, WithText(string(data)))
	return New(opts...), nil
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full document content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return string(e.table.Elements())
}

// Slice returns the text in the half-open range [start, end).
func (e *Engine) Slice(start, end Offset) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if start < 0 || end > Offset(e.table.Len()) {
		return "", ErrOffsetOutOfRange
	}
	if start > end {
		return "", ErrRangeInvalid
	}

	return string(e.table.Slice(int(start), int(end-start))), nil
}

// Len returns the document length in runes.
func (e *Engine) Len() Offset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Offset(e.table.Len())
}

// IsEmpty returns true if the document is empty.
func (e *Engine) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.IsEmpty()
}

// RuneAt returns the rune at the given offset.
func (e *Engine) RuneAt(at Offset) (rune, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if at < 0 || at >= Offset(e.table.Len()) {
		return 0, ErrOffsetOutOfRange
	}
	return e.table.At(int(at)), nil
}

// CopyInto fills dst with the document content. dst must hold exactly
// Len() runes.
func (e *Engine) CopyInto(dst []rune) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(dst) != e.table.Len() {
		return ErrSizeMismatch
	}
	e.table.CopyInto(dst)
	return nil
}

// PieceCount returns the number of pieces backing the document.
func (e *Engine) PieceCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.PieceCount()
}

// RevisionID returns the current document revision.
func (e *Engine) RevisionID() RevisionID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

// IsReadOnly returns true if the engine is read-only.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (e *Engine) Insert(at Offset, text string) (Offset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return 0, ErrReadOnly
	}
	if at < 0 || at > Offset(e.table.Len()) {
		return 0, ErrOffsetOutOfRange
	}

	data := []rune(text)
	if len(data) == 0 {
		return at, nil
	}

	e.history.Push(e.table.InsertAt(int(at), data))
	e.revision++
	return at + Offset(len(data)), nil
}

// Append adds text at the end of the document.
// Returns the new document length.
func (e *Engine) Append(text string) (Offset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return 0, ErrReadOnly
	}

	data := []rune(text)
	if len(data) == 0 {
		return Offset(e.table.Len()), nil
	}

	e.history.Push(e.table.Append(data))
	e.revision++
	return Offset(e.table.Len()), nil
}

// InsertRuneAt inserts a single rune at the given offset.
// Returns the end position of the inserted rune.
func (e *Engine) InsertRuneAt(at Offset, r rune) (Offset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return 0, ErrReadOnly
	}
	if at < 0 || at > Offset(e.table.Len()) {
		return 0, ErrOffsetOutOfRange
	}

	e.history.Push(e.table.InsertElementAt(int(at), r))
	e.revision++
	return at + 1, nil
}

// AppendRune adds a single rune at the end of the document.
// Returns the new document length.
func (e *Engine) AppendRune(r rune) (Offset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return 0, ErrReadOnly
	}

	e.history.Push(e.table.AppendElement(r))
	e.revision++
	return Offset(e.table.Len()), nil
}

// Delete removes the text in the half-open range [start, end).
func (e *Engine) Delete(start, end Offset) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	if start < 0 || end > Offset(e.table.Len()) {
		return ErrOffsetOutOfRange
	}
	if start > end {
		return ErrRangeInvalid
	}
	if start == end {
		return nil
	}

	e.history.Push(e.table.DeleteRange(int(start), int(end-start)))
	e.revision++
	return nil
}

// DeleteAt removes the single rune at the given offset.
func (e *Engine) DeleteAt(at Offset) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	if at < 0 || at >= Offset(e.table.Len()) {
		return ErrOffsetOutOfRange
	}

	e.history.Push(e.table.DeleteAt(int(at)))
	e.revision++
	return nil
}

// Clear removes all content. The clear is an ordinary edit: it is
// recorded in history and a following Undo restores the document.
// Clearing an empty document is a no-op.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	if e.table.IsEmpty() {
		return nil
	}

	e.history.Push(e.table.Clear())
	e.revision++
	return nil
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo undoes the last edit.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}

	if err := e.history.Undo(e.table); err != nil {
		return err
	}
	e.revision++
	return nil
}

// Redo redoes the last undone edit.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}

	if err := e.history.Redo(e.table); err != nil {
		return err
	}
	e.revision++
	return nil
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanRedo()
}

// UndoCount returns the number of available undo operations.
func (e *Engine) UndoCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.UndoCount()
}

// RedoCount returns the number of available redo operations.
func (e *Engine) RedoCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.RedoCount()
}

// ClearHistory removes all undo/redo history. The document itself is
// untouched.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Clear()
}

// SetMaxUndoEntries changes the undo stack limit at runtime, trimming
// the oldest entries if needed.
func (e *Engine) SetMaxUndoEntries(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.SetMaxEntries(max)
}
