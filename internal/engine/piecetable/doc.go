// Package piecetable implements an editable sequence as a piece table.
//
// A document is represented by two backing buffers and an ordered
// sequence of pieces. The original buffer is an immutable snapshot of
// the content at construction time; the append buffer grows by the
// elements of every later insertion and is never truncated or edited
// in place. Each piece references a contiguous range of exactly one
// buffer, and the concatenation of the pieces, in order, is the
// document. Edits never move existing content: they add elements to
// the append buffer and replace a contiguous span of the piece
// sequence with new pieces.
//
// Every mutation returns a Record describing its exact inverse. A
// Record can be replayed with Apply, which restores the displaced
// pieces and returns a new Record for the opposite direction, so undo
// and redo share this single primitive. The history package provides
// a stack pair that manages Records for callers that do not want to
// do so by hand.
//
// The table is generic over its element type. Text documents
// typically instantiate Table[rune]; any element type works because
// the algorithms only ever copy ranges and count lengths.
//
// # Errors
//
// Operations panic on precondition violations (indexes outside
// [0, Len()], ranges extending past the end, splits at piece
// boundaries). These are programming errors that would silently
// corrupt the size and ordering invariants if clamped. Callers that
// take positions from user input must validate them first; the engine
// package does exactly that.
//
// A Table is not safe for concurrent use. Owners serialize access;
// one exclusive lock around the table and its history is sufficient.
package piecetable
