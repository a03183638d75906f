package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// render redraws the whole screen: document lines, the status line,
// and the cursor.
func (ed *Editor) render() {
	ed.screen.Clear()

	width, height := ed.screen.Size()
	if width <= 0 || height <= 0 {
		ed.screen.Show()
		return
	}

	textRows := height
	if ed.showStatus {
		textRows = height - 1
	}

	text := []rune(ed.eng.Text())
	starts := lineStarts(text)
	curLine, curCol := position(starts, int(ed.cursor))

	ed.scrollTo(curLine, textRows)

	style := tcell.StyleDefault
	for row := 0; row < textRows; row++ {
		li := ed.topLine + row
		if li >= len(starts) {
			break
		}
		start, end := lineSpan(text, starts, li)
		ed.drawLine(row, text[start:end], width, style)
	}

	if ed.showStatus {
		ed.drawStatus(width, height-1, curLine, curCol)
	}

	start, _ := lineSpan(text, starts, curLine)
	screenCol := displayWidth(text[start:int(ed.cursor)], ed.tabWidth)
	screenRow := curLine - ed.topLine
	if screenRow >= 0 && screenRow < textRows && screenCol < width {
		ed.screen.ShowCursor(screenCol, screenRow)
	} else {
		ed.screen.HideCursor()
	}

	ed.screen.Show()
}

// scrollTo adjusts the top visible line so the cursor line stays on
// screen.
func (ed *Editor) scrollTo(curLine, textRows int) {
	if textRows <= 0 {
		return
	}
	if curLine < ed.topLine {
		ed.topLine = curLine
	}
	if curLine >= ed.topLine+textRows {
		ed.topLine = curLine - textRows + 1
	}
}

// drawLine draws one document line at the given screen row, expanding
// tabs to the next tab stop. Long lines are clipped at the right edge.
func (ed *Editor) drawLine(row int, line []rune, width int, style tcell.Style) {
	x := 0
	for _, r := range line {
		if x >= width {
			break
		}
		if r == '\t' {
			next := x + ed.tabWidth - x%ed.tabWidth
			for ; x < next && x < width; x++ {
				ed.screen.SetContent(x, row, ' ', nil, style)
			}
			continue
		}
		ed.screen.SetContent(x, row, r, nil, style)
		x++
	}
}

// drawStatus draws the reverse-video status line: file name and
// position on the left, document stats and the last message on the
// right.
func (ed *Editor) drawStatus(width, row, curLine, curCol int) {
	name := ed.fileName
	if name == "" {
		name = "[no name]"
	}
	mark := ""
	if ed.modified {
		mark = " [+]"
	}

	left := fmt.Sprintf(" %s%s  %d,%d", name, mark, curLine+1, curCol+1)
	right := fmt.Sprintf("%d runes  %d pieces  undo %d/%d ",
		ed.eng.Len(), ed.eng.PieceCount(), ed.eng.UndoCount(), ed.eng.RedoCount())
	if ed.message != "" {
		right = ed.message + "  " + right
	}

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}
	copy(line, []rune(left))
	if r := []rune(right); len(r) <= width-len(left)-2 {
		copy(line[width-len(r):], r)
	}

	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < width; x++ {
		ed.screen.SetContent(x, row, line[x], nil, style)
	}
}

// lineStarts returns the offset of the first rune of every line.
// A document always has at least one line.
func lineStarts(text []rune) []int {
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineSpan returns the bounds [start, end) of line li with the
// trailing newline excluded.
func lineSpan(text []rune, starts []int, li int) (start, end int) {
	start = starts[li]
	end = len(text)
	if li+1 < len(starts) {
		end = starts[li+1] - 1
	}
	return start, end
}

// position returns the zero-based line and column of offset off.
func position(starts []int, off int) (line, col int) {
	line = len(starts) - 1
	for i := 1; i < len(starts); i++ {
		if starts[i] > off {
			line = i - 1
			break
		}
	}
	return line, off - starts[line]
}

// displayWidth returns the on-screen width of line, expanding tabs.
func displayWidth(line []rune, tabWidth int) int {
	w := 0
	for _, r := range line {
		if r == '\t' {
			w += tabWidth - w%tabWidth
			continue
		}
		w++
	}
	return w
}
