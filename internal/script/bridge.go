package script

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tessera/internal/engine"
)

// docModule bridges the doc Lua global to an engine.
type docModule struct {
	eng *engine.Engine
}

// registerDocModule installs the doc table into the Lua state.
func registerDocModule(L *lua.LState, eng *engine.Engine) {
	m := &docModule{eng: eng}

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":      m.text,
		"slice":     m.slice,
		"len":       m.docLen,
		"pieces":    m.pieces,
		"revision":  m.revision,
		"insert":    m.insert,
		"append":    m.appendText,
		"delete":    m.delete,
		"delete_at": m.deleteAt,
		"clear":     m.clear,
		"undo":      m.undo,
		"redo":      m.redo,
		"can_undo":  m.canUndo,
		"can_redo":  m.canRedo,
	})

	L.SetGlobal("doc", mod)
}

// text() -> string
// Returns the full document content.
func (m *docModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.eng.Text()))
	return 1
}

// slice(start, end) -> string
// Returns the text in the half-open rune range [start, end).
func (m *docModule) slice(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)

	text, err := m.eng.Slice(engine.Offset(start), engine.Offset(end))
	if err != nil {
		L.RaiseError("slice: %v", err)
		return 0
	}

	L.Push(lua.LString(text))
	return 1
}

// len() -> number
// Returns the document length in runes.
func (m *docModule) docLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.Len()))
	return 1
}

// pieces() -> number
// Returns the number of pieces backing the document.
func (m *docModule) pieces(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.PieceCount()))
	return 1
}

// revision() -> number
// Returns the current document revision.
func (m *docModule) revision(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.RevisionID()))
	return 1
}

// insert(offset, text) -> end_offset
// Inserts text at the given rune offset.
func (m *docModule) insert(L *lua.LState) int {
	offset := L.CheckInt(1)
	text := L.CheckString(2)

	end, err := m.eng.Insert(engine.Offset(offset), text)
	if err != nil {
		L.RaiseError("insert: %v", err)
		return 0
	}

	L.Push(lua.LNumber(end))
	return 1
}

// append(text) -> new_len
// Adds text at the end of the document.
func (m *docModule) appendText(L *lua.LState) int {
	text := L.CheckString(1)

	n, err := m.eng.Append(text)
	if err != nil {
		L.RaiseError("append: %v", err)
		return 0
	}

	L.Push(lua.LNumber(n))
	return 1
}

// delete(start, end) -> nil
// Removes the text in the half-open rune range [start, end).
func (m *docModule) delete(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)

	if err := m.eng.Delete(engine.Offset(start), engine.Offset(end)); err != nil {
		L.RaiseError("delete: %v", err)
		return 0
	}

	return 0
}

// delete_at(offset) -> nil
// Removes the single rune at the given offset.
func (m *docModule) deleteAt(L *lua.LState) int {
	offset := L.CheckInt(1)

	if err := m.eng.DeleteAt(engine.Offset(offset)); err != nil {
		L.RaiseError("delete_at: %v", err)
		return 0
	}

	return 0
}

// clear() -> nil
// Removes all content. The clear stays undoable.
func (m *docModule) clear(L *lua.LState) int {
	if err := m.eng.Clear(); err != nil {
		L.RaiseError("clear: %v", err)
		return 0
	}

	return 0
}

// undo() -> bool
// Undoes the last edit. Returns false if there was nothing to undo.
func (m *docModule) undo(L *lua.LState) int {
	err := m.eng.Undo()
	switch {
	case err == nil:
		L.Push(lua.LTrue)
	case errors.Is(err, engine.ErrNothingToUndo):
		L.Push(lua.LFalse)
	default:
		L.RaiseError("undo: %v", err)
		return 0
	}

	return 1
}

// redo() -> bool
// Redoes the last undone edit. Returns false if there was nothing to redo.
func (m *docModule) redo(L *lua.LState) int {
	err := m.eng.Redo()
	switch {
	case err == nil:
		L.Push(lua.LTrue)
	case errors.Is(err, engine.ErrNothingToRedo):
		L.Push(lua.LFalse)
	default:
		L.RaiseError("redo: %v", err)
		return 0
	}

	return 1
}

// can_undo() -> bool
// Returns true if undo is available.
func (m *docModule) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(m.eng.CanUndo()))
	return 1
}

// can_redo() -> bool
// Returns true if redo is available.
func (m *docModule) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(m.eng.CanRedo()))
	return 1
}
