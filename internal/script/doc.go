// Package script executes Lua scripts against a document engine.
//
// This package wraps the gopher-lua library to provide a restricted
// interpreter: only the base, table, string, and math libraries are
// opened. A global doc table exposes the engine to scripts:
//
//	doc.text()               -> string
//	doc.slice(start, end)    -> string
//	doc.len()                -> number
//	doc.pieces()             -> number
//	doc.revision()           -> number
//	doc.insert(offset, text) -> end offset
//	doc.append(text)         -> new length
//	doc.delete(start, end)
//	doc.delete_at(offset)
//	doc.clear()
//	doc.undo()               -> bool
//	doc.redo()               -> bool
//	doc.can_undo()           -> bool
//	doc.can_redo()           -> bool
//
// Offsets are zero-based rune positions and ranges are half-open,
// matching the engine API. Failed operations raise Lua errors, except
// undo and redo which return false when the history is exhausted.
//
// # Runner
//
// The Runner type owns the Lua state:
//
//	runner, err := script.New(eng)
//	if err != nil {
//	    return err
//	}
//	defer runner.Close()
//
//	if err := runner.Run("edit.lua"); err != nil {
//	    return err
//	}
package script
