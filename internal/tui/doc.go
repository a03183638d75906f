// Package tui provides the interactive terminal pad over a document
// engine, built on tcell.
//
// The Editor draws the document with a status line showing the file
// name, cursor position, document size, piece count, and undo/redo
// depth. Every keypress is a single engine edit, so Ctrl-Z and Ctrl-Y
// step keystroke by keystroke.
//
// Key bindings:
//
//	printable rune   insert at cursor
//	Enter, Tab       insert newline or tab
//	Backspace        delete before cursor
//	Delete           delete under cursor
//	arrows           move cursor
//	Home, End        move to line start or end
//	Ctrl-Z, Ctrl-Y   undo, redo
//	Ctrl-S           write the document to its file
//	Ctrl-Q           quit
//
// Usage:
//
//	ed, err := tui.New(eng, tui.WithFileName("notes.txt"))
//	if err != nil {
//	    return err
//	}
//	if err := ed.Run(); err != nil {
//	    return err
//	}
package tui
