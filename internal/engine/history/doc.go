// Package history coordinates undo and redo for a piece table.
//
// Unlike command-pattern designs, nothing here re-executes edits. A
// piecetable.Record already is the inverse of the edit that produced
// it, and replaying a record through Apply yields the record for the
// opposite direction. The coordinator only has to move records between
// two stacks:
//
//	h := history.NewHistory(1000) // keep at most 1000 edits
//
//	rec := table.InsertAt(0, []rune("hello"))
//	h.Push(rec)
//
//	h.Undo(table) // replays rec, keeps the inverse for Redo
//	h.Redo(table)
//
// # Branching
//
// Push clears the redo stack: editing after an undo abandons the
// undone future, as editors conventionally do.
//
// # Concurrency
//
// History is not safe for concurrent use. The facade that owns the
// table holds one exclusive lock around both structures, which also
// guarantees records are replayed in strict LIFO order, the only
// order in which they are valid.
package history
