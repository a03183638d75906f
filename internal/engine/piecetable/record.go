package piecetable

import "fmt"

// Record describes one structural change to the piece sequence and is
// sufficient to reverse it. The span [begin, end) is where the change
// now sits in the sequence; removed holds the pieces the change
// displaced. Replaying a Record with Apply puts removed back over the
// span and returns the inverse Record.
//
// A Record is only valid against the table state it was produced for:
// records must be replayed in stack (LIFO) order, newest first. The
// removed pieces stay valid for the table's whole lifetime because
// neither backing buffer ever shrinks.
type Record struct {
	begin, end int
	removed    []Piece
}

// IsNoop reports whether replaying the record would change nothing.
// Zero-length insertions and deletions produce such degenerate
// records.
func (r Record) IsNoop() bool {
	return r.begin == r.end && len(r.removed) == 0
}

// String returns a compact description used in diagnostics.
func (r Record) String() string {
	return fmt.Sprintf("record{span=[%d,%d) removed=%d pieces/%d elems}",
		r.begin, r.end, len(r.removed), totalLength(r.removed))
}
