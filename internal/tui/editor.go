package tui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tessera/internal/diag"
	"github.com/dshills/tessera/internal/engine"
)

// Default configuration values.
const (
	DefaultTabWidth = 4
)

// Editor is an interactive pad over a document engine. It owns the
// terminal screen for the duration of Run and applies each keypress
// as a single engine edit, so undo and redo step keystroke by
// keystroke.
//
// Editor is not goroutine-safe. Run owns it until it returns.
type Editor struct {
	screen tcell.Screen
	eng    *engine.Engine
	log    *diag.Logger

	fileName   string
	tabWidth   int
	showStatus bool

	cursor   engine.Offset
	topLine  int
	modified bool
	message  string

	quit bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithScreen sets the terminal screen. When unset, New creates one.
func WithScreen(screen tcell.Screen) Option {
	return func(ed *Editor) {
		if screen != nil {
			ed.screen = screen
		}
	}
}

// WithLogger sets the diagnostic logger. A nil logger is ignored.
func WithLogger(log *diag.Logger) Option {
	return func(ed *Editor) {
		if log != nil {
			ed.log = log
		}
	}
}

// WithFileName sets the file Ctrl-S writes to.
func WithFileName(name string) Option {
	return func(ed *Editor) {
		ed.fileName = name
	}
}

// WithTabWidth sets the display width of a tab stop.
func WithTabWidth(width int) Option {
	return func(ed *Editor) {
		if width > 0 {
			ed.tabWidth = width
		}
	}
}

// WithShowStatus controls the status line at the bottom of the screen.
func WithShowStatus(show bool) Option {
	return func(ed *Editor) {
		ed.showStatus = show
	}
}

// WithCursor sets the initial cursor offset. Out-of-range values are
// clamped to the document.
func WithCursor(at engine.Offset) Option {
	return func(ed *Editor) {
		if at > 0 {
			ed.cursor = at
		}
	}
}

// New creates an Editor over the given engine.
func New(eng *engine.Engine, opts ...Option) (*Editor, error) {
	if eng == nil {
		return nil, ErrNilEngine
	}

	ed := &Editor{
		eng:        eng,
		log:        diag.NullLogger,
		tabWidth:   DefaultTabWidth,
		showStatus: true,
	}

	for _, opt := range opts {
		opt(ed)
	}

	if ed.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("create screen: %w", err)
		}
		ed.screen = screen
	}

	ed.clampCursor()

	return ed, nil
}

// Run initializes the screen and processes events until the user
// quits with Ctrl-Q. The screen is restored before Run returns.
func (ed *Editor) Run() error {
	if err := ed.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer ed.screen.Fini()

	ed.screen.EnablePaste()

	ed.log.Debug("editor started on %q", ed.fileName)
	ed.render()

	for !ed.quit {
		ev := ed.screen.PollEvent()
		switch e := ev.(type) {
		case *tcell.EventKey:
			ed.handleKey(e)
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventInterrupt:
			ed.quit = true
		case nil:
			// Screen finalized under us
			return nil
		}
		ed.render()
	}

	return nil
}

// Stop asks a running editor to exit. Safe to call from another
// goroutine.
func (ed *Editor) Stop() {
	_ = ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Cursor returns the current cursor offset.
func (ed *Editor) Cursor() engine.Offset {
	return ed.cursor
}

// FileName returns the file Ctrl-S writes to.
func (ed *Editor) FileName() string {
	return ed.fileName
}

// Modified returns true if the document changed since the last save.
func (ed *Editor) Modified() bool {
	return ed.modified
}

// handleKey applies one key event.
func (ed *Editor) handleKey(ev *tcell.EventKey) {
	ed.message = ""

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		ed.quit = true
	case tcell.KeyCtrlS:
		ed.save()
	case tcell.KeyCtrlZ:
		ed.undo()
	case tcell.KeyCtrlY:
		ed.redo()
	case tcell.KeyLeft:
		if ed.cursor > 0 {
			ed.cursor--
		}
	case tcell.KeyRight:
		if ed.cursor < ed.eng.Len() {
			ed.cursor++
		}
	case tcell.KeyUp:
		ed.moveVertical(-1)
	case tcell.KeyDown:
		ed.moveVertical(1)
	case tcell.KeyHome:
		ed.moveLineStart()
	case tcell.KeyEnd:
		ed.moveLineEnd()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.deleteBack()
	case tcell.KeyDelete:
		ed.deleteForward()
	case tcell.KeyEnter:
		ed.insertRune('\n')
	case tcell.KeyTab:
		ed.insertRune('\t')
	case tcell.KeyRune:
		ed.insertRune(ev.Rune())
	}
}

// insertRune inserts r at the cursor and advances it.
func (ed *Editor) insertRune(r rune) {
	end, err := ed.eng.InsertRuneAt(ed.cursor, r)
	if err != nil {
		ed.message = err.Error()
		return
	}
	ed.cursor = end
	ed.modified = true
}

// deleteBack removes the rune before the cursor.
func (ed *Editor) deleteBack() {
	if ed.cursor == 0 {
		return
	}
	if err := ed.eng.DeleteAt(ed.cursor - 1); err != nil {
		ed.message = err.Error()
		return
	}
	ed.cursor--
	ed.modified = true
}

// deleteForward removes the rune under the cursor.
func (ed *Editor) deleteForward() {
	if ed.cursor >= ed.eng.Len() {
		return
	}
	if err := ed.eng.DeleteAt(ed.cursor); err != nil {
		ed.message = err.Error()
		return
	}
	ed.modified = true
}

func (ed *Editor) undo() {
	if err := ed.eng.Undo(); err != nil {
		ed.message = err.Error()
		return
	}
	ed.clampCursor()
	ed.modified = true
}

func (ed *Editor) redo() {
	if err := ed.eng.Redo(); err != nil {
		ed.message = err.Error()
		return
	}
	ed.clampCursor()
	ed.modified = true
}

// save writes the document to the editor's file.
func (ed *Editor) save() {
	if ed.fileName == "" {
		ed.message = "no file name"
		return
	}

	if err := os.WriteFile(ed.fileName, []byte(ed.eng.Text()), 0o644); err != nil {
		ed.message = fmt.Sprintf("save failed: %v", err)
		ed.log.Error("save %s: %v", ed.fileName, err)
		return
	}

	ed.modified = false
	ed.message = fmt.Sprintf("wrote %s", ed.fileName)
	ed.log.Info("wrote %s (%d runes)", ed.fileName, ed.eng.Len())
}

// moveVertical moves the cursor delta lines, keeping the column when
// the target line is long enough.
func (ed *Editor) moveVertical(delta int) {
	text := []rune(ed.eng.Text())
	starts := lineStarts(text)
	line, col := position(starts, int(ed.cursor))

	target := line + delta
	if target < 0 || target >= len(starts) {
		return
	}

	start, end := lineSpan(text, starts, target)
	ed.cursor = engine.Offset(start + min(col, end-start))
}

// moveLineStart moves the cursor to the start of its line.
func (ed *Editor) moveLineStart() {
	text := []rune(ed.eng.Text())
	starts := lineStarts(text)
	line, _ := position(starts, int(ed.cursor))
	ed.cursor = engine.Offset(starts[line])
}

// moveLineEnd moves the cursor past the last rune of its line.
func (ed *Editor) moveLineEnd() {
	text := []rune(ed.eng.Text())
	starts := lineStarts(text)
	line, _ := position(starts, int(ed.cursor))
	_, end := lineSpan(text, starts, line)
	ed.cursor = engine.Offset(end)
}

// clampCursor pulls the cursor back inside the document after edits
// that shrink it.
func (ed *Editor) clampCursor() {
	if n := ed.eng.Len(); ed.cursor > n {
		ed.cursor = n
	}
}
