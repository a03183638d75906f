package tui

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tessera/internal/engine"
)

func simEditor(t *testing.T, initial string, width, height int, opts ...Option) (*Editor, tcell.SimulationScreen) {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("screen Init error = %v", err)
	}
	sim.SetSize(width, height)
	t.Cleanup(sim.Fini)

	eng := engine.New(engine.WithText(initial))
	opts = append([]Option{WithScreen(sim)}, opts...)
	ed, err := New(eng, opts...)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}

	return ed, sim
}

func screenRow(t *testing.T, sim tcell.SimulationScreen, row int) string {
	t.Helper()

	cells, width, _ := sim.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		c := cells[row*width+x]
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func TestRenderDocument(t *testing.T) {
	ed, sim := simEditor(t, "hello\nworld", 20, 5)

	ed.render()

	if got := screenRow(t, sim, 0); !strings.HasPrefix(got, "hello") {
		t.Errorf("row 0 = %q, want prefix %q", got, "hello")
	}
	if got := screenRow(t, sim, 1); !strings.HasPrefix(got, "world") {
		t.Errorf("row 1 = %q, want prefix %q", got, "world")
	}
}

func TestRenderTabExpansion(t *testing.T) {
	ed, sim := simEditor(t, "a\tb", 20, 5)

	ed.render()

	if got := screenRow(t, sim, 0); !strings.HasPrefix(got, "a   b") {
		t.Errorf("row 0 = %q, want prefix %q", got, "a   b")
	}
}

func TestRenderStatusLine(t *testing.T) {
	ed, sim := simEditor(t, "hello", 60, 5, WithFileName("notes.txt"))

	ed.render()

	status := screenRow(t, sim, 4)
	if !strings.Contains(status, "notes.txt") {
		t.Errorf("status = %q, want file name", status)
	}
	if !strings.Contains(status, "1,1") {
		t.Errorf("status = %q, want cursor position", status)
	}
	if !strings.Contains(status, "5 runes") {
		t.Errorf("status = %q, want document size", status)
	}
	if !strings.Contains(status, "1 pieces") {
		t.Errorf("status = %q, want piece count", status)
	}
	if !strings.Contains(status, "undo 0/0") {
		t.Errorf("status = %q, want history depth", status)
	}
}

func TestRenderStatusHidden(t *testing.T) {
	ed, sim := simEditor(t, "hello", 40, 2, WithShowStatus(false))

	ed.render()

	if got := screenRow(t, sim, 0); !strings.HasPrefix(got, "hello") {
		t.Errorf("row 0 = %q, want prefix %q", got, "hello")
	}
	if got := screenRow(t, sim, 1); strings.Contains(got, "runes") {
		t.Errorf("row 1 = %q, want no status content", got)
	}
}

func TestRenderScrollsToCursor(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	ed, sim := simEditor(t, b.String(), 20, 5)

	ed.cursor = ed.eng.Len()
	ed.render()

	// Four text rows above the status line; the cursor sits on the
	// empty final line, so the top shows line 17.
	if got := screenRow(t, sim, 0); !strings.HasPrefix(got, "line 17") {
		t.Errorf("row 0 = %q, want prefix %q", got, "line 17")
	}
}

func TestRenderScrollsBackUp(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	ed, sim := simEditor(t, b.String(), 20, 5)

	ed.cursor = ed.eng.Len()
	ed.render()
	ed.cursor = 0
	ed.render()

	if got := screenRow(t, sim, 0); !strings.HasPrefix(got, "line 0") {
		t.Errorf("row 0 = %q, want prefix %q", got, "line 0")
	}
}

func TestRenderCursorPosition(t *testing.T) {
	ed, sim := simEditor(t, "a\tb", 20, 5)

	ed.cursor = 2
	ed.render()

	x, y, visible := sim.GetCursor()
	if !visible {
		t.Fatal("cursor should be visible")
	}
	if x != 4 || y != 0 {
		t.Errorf("cursor = (%d,%d), want (4,0)", x, y)
	}
}

func TestLineStarts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"empty", "", []int{0}},
		{"single line", "abc", []int{0}},
		{"two lines", "ab\ncd", []int{0, 3}},
		{"trailing newline", "ab\n", []int{0, 3}},
		{"blank lines", "\n\n", []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lineStarts([]rune(tt.text))
			if !slices.Equal(got, tt.want) {
				t.Errorf("lineStarts(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestPosition(t *testing.T) {
	starts := lineStarts([]rune("ab\ncd\ne"))

	tests := []struct {
		off  int
		line int
		col  int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{5, 1, 2},
		{6, 2, 0},
		{7, 2, 1},
	}

	for _, tt := range tests {
		line, col := position(starts, tt.off)
		if line != tt.line || col != tt.col {
			t.Errorf("position(%d) = (%d,%d), want (%d,%d)", tt.off, line, col, tt.line, tt.col)
		}
	}
}

func TestLineSpan(t *testing.T) {
	text := []rune("ab\ncd\ne")
	starts := lineStarts(text)

	tests := []struct {
		li    int
		start int
		end   int
	}{
		{0, 0, 2},
		{1, 3, 5},
		{2, 6, 7},
	}

	for _, tt := range tests {
		start, end := lineSpan(text, starts, tt.li)
		if start != tt.start || end != tt.end {
			t.Errorf("lineSpan(%d) = (%d,%d), want (%d,%d)", tt.li, start, end, tt.start, tt.end)
		}
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int
	}{
		{"plain", "abc", 3},
		{"leading tab", "\tx", 5},
		{"tab at stop", "abcd\tx", 9},
		{"tab mid line", "ab\tx", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayWidth([]rune(tt.line), 4); got != tt.want {
				t.Errorf("displayWidth(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}
