package piecetable

import "fmt"

// Source identifies which backing buffer a piece references.
type Source uint8

const (
	// SourceOriginal references the immutable snapshot the table was
	// constructed with.
	SourceOriginal Source = iota
	// SourceAppended references the append-only buffer that accumulates
	// inserted content.
	SourceAppended
)

// String returns the string representation of the source tag.
func (s Source) String() string {
	switch s {
	case SourceOriginal:
		return "original"
	case SourceAppended:
		return "appended"
	default:
		return "unknown"
	}
}

// Piece describes a contiguous run of document content: the half-open
// range [Start, Start+Length) of one backing buffer. Pieces are
// immutable values; edits replace pieces, they never change one in
// place.
type Piece struct {
	Start  int
	Length int
	Source Source
}

// String returns a compact description used in diagnostics.
func (p Piece) String() string {
	return fmt.Sprintf("%s[%d:%d)", p.Source, p.Start, p.Start+p.Length)
}

// split divides a piece at off, producing the left and right halves.
// Both halves keep the piece's source. off must lie strictly inside
// the piece; a split at a boundary would create a zero-length piece,
// and positions on a boundary never need one.
func split(p Piece, off int) (left, right Piece) {
	if off <= 0 || off >= p.Length {
		panic(fmt.Sprintf("piecetable: split offset %d outside (0, %d)", off, p.Length))
	}
	left = Piece{Start: p.Start, Length: off, Source: p.Source}
	right = Piece{Start: p.Start + off, Length: p.Length - off, Source: p.Source}
	return left, right
}

// totalLength sums the lengths of a run of pieces.
func totalLength(pieces []Piece) int {
	n := 0
	for _, p := range pieces {
		n += p.Length
	}
	return n
}
