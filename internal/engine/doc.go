// Package engine provides the editable-document engine for Tessera.
//
// The engine is a thread-safe facade over two sub-packages:
//
//   - piecetable: the storage core, a generic piece table where every
//     edit returns the record that undoes it
//   - history: the undo/redo coordinator that stacks those records
//
// The facade instantiates the core over runes, validates all caller
// input (offsets and ranges out of bounds come back as errors, never
// panics), and serializes access with a read-write mutex.
//
// # Basic Usage
//
// Create an engine and perform basic edits:
//
//	e := engine.New(engine.WithText("Original text buffer"))
//
//	e.Delete(9, 14)                     // "Original buffer"
//	e.Append(" is cool")                // "Original buffer is cool"
//	e.Insert(e.Len()-4, "pretty ")      // "Original buffer is pretty cool"
//
//	text := e.Text()
//
// # Undo/Redo
//
// Every successful edit, including Clear, is one undo step:
//
//	e.Clear()
//	e.Append("Hello there!")
//
//	e.Undo() // ""
//	e.Undo() // "Original buffer is pretty cool"
//	e.Redo() // ""
//
// Editing after an undo abandons the redo branch.
//
// # Loading Content
//
// Create an engine from a string or from any io.Reader:
//
//	e := engine.New(engine.WithText("initial content"))
//
//	f, _ := os.Open("file.txt")
//	defer f.Close()
//	e2, _ := engine.NewFromReader(f)
//
// # Read-Only Mode
//
// A read-only engine rejects every mutation:
//
//	e := engine.New(
//	    engine.WithText("read-only content"),
//	    engine.WithReadOnly(),
//	)
//
//	_, err := e.Insert(0, "text")
//	// err == engine.ErrReadOnly
//
// # Revisions
//
// RevisionID increases on every successful mutation, undo and redo
// included, so callers can cheaply detect whether a document changed
// between two observations.
//
// # Error Handling
//
// The package defines several error variables:
//
//   - ErrOffsetOutOfRange: offset outside the document
//   - ErrRangeInvalid: end < start
//   - ErrSizeMismatch: CopyInto destination of the wrong length
//   - ErrNothingToUndo: undo stack is empty
//   - ErrNothingToRedo: redo stack is empty
//   - ErrReadOnly: write operation on a read-only engine
package engine
