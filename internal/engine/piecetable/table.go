package piecetable

import (
	"fmt"
	"slices"

	"github.com/dshills/tessera/internal/diag"
)

// Option configures a Table during creation.
type Option func(*options)

type options struct {
	log *diag.Logger
}

// WithLogger sets the diagnostic sink the table traces operations to.
// The default is diag.NullLogger; substituting any sink has no
// functional effect.
func WithLogger(l *diag.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Table is a piece table over elements of type E. The zero value is
// not usable; create tables with New.
type Table[E any] struct {
	// original is the construction-time snapshot. Never written after New.
	original []E
	// appended accumulates the elements of every insertion, in call
	// order. It only grows; undo removes piece references, not elements.
	appended []E
	pieces   []Piece
	size     int
	log      *diag.Logger
}

// New creates a table whose initial content is a copy of original.
// A non-empty snapshot becomes one piece spanning the original buffer.
func New[E any](original []E, opts ...Option) *Table[E] {
	o := options{log: diag.NullLogger}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Table[E]{
		original: slices.Clone(original),
		log:      o.log,
	}
	if len(original) > 0 {
		t.pieces = []Piece{{Start: 0, Length: len(original), Source: SourceOriginal}}
		t.size = len(original)
	}
	return t
}

// Len returns the logical document size in elements.
func (t *Table[E]) Len() int { return t.size }

// IsEmpty reports whether the document has no content.
func (t *Table[E]) IsEmpty() bool { return t.size == 0 }

// PieceCount returns the number of pieces in the sequence.
func (t *Table[E]) PieceCount() int { return len(t.pieces) }

// At returns the element at logical index i, 0 <= i < Len().
func (t *Table[E]) At(i int) E {
	if i < 0 || i >= t.size {
		panic(fmt.Sprintf("piecetable: index %d out of range [0, %d)", i, t.size))
	}
	slot, off := t.resolve(i)
	return t.backing(t.pieces[slot])[off]
}

// Elements materializes the full document in order.
func (t *Table[E]) Elements() []E {
	out := make([]E, 0, t.size)
	for _, p := range t.pieces {
		out = append(out, t.backing(p)...)
	}
	return out
}

// CopyInto writes the document into dst, which must hold exactly Len()
// elements.
func (t *Table[E]) CopyInto(dst []E) {
	if len(dst) != t.size {
		panic(fmt.Sprintf("piecetable: destination length %d, document length %d", len(dst), t.size))
	}
	n := 0
	for _, p := range t.pieces {
		n += copy(dst[n:], t.backing(p))
	}
}

// Slice returns a copy of the count elements starting at logical
// index at. Only the pieces overlapping the range are touched.
func (t *Table[E]) Slice(at, count int) []E {
	t.checkRange(at, count)
	if count == 0 {
		return nil
	}
	out := make([]E, 0, count)
	slot, off := t.resolve(at)
	for count > 0 {
		p := t.pieces[slot]
		n := min(count, p.Length-off)
		out = append(out, t.backing(p)[off:off+n]...)
		count -= n
		off = 0
		slot++
	}
	return out
}

// backing returns the buffer range a piece references.
func (t *Table[E]) backing(p Piece) []E {
	if p.Source == SourceAppended {
		return t.appended[p.Start : p.Start+p.Length]
	}
	return t.original[p.Start : p.Start+p.Length]
}

// resolve maps a logical index to (piece slot, offset inside that
// piece); idx == size resolves to the end slot (len(pieces), 0).
// Linear in the number of pieces before the target: edits scale with
// piece count, never with document length.
func (t *Table[E]) resolve(idx int) (slot, off int) {
	for i, p := range t.pieces {
		if idx < p.Length {
			return i, idx
		}
		idx -= p.Length
	}
	return len(t.pieces), 0
}

func (t *Table[E]) checkIndex(at int) {
	if at < 0 || at > t.size {
		panic(fmt.Sprintf("piecetable: index %d out of range [0, %d]", at, t.size))
	}
}

func (t *Table[E]) checkRange(at, count int) {
	if at < 0 || count < 0 || at+count > t.size {
		panic(fmt.Sprintf("piecetable: range [%d, %d) exceeds [0, %d]", at, at+count, t.size))
	}
}

// appendToBuffer grows the append buffer by data and returns the piece
// covering the new range. Growth happens before any piece-sequence
// change so a failed allocation cannot leave a partial edit behind.
func (t *Table[E]) appendToBuffer(data []E) Piece {
	start := len(t.appended)
	t.appended = append(t.appended, data...)
	return Piece{Start: start, Length: len(data), Source: SourceAppended}
}

// InsertAt inserts data before logical index at; at == Len() appends.
// Empty data is a no-op and returns a degenerate record.
func (t *Table[E]) InsertAt(at int, data []E) Record {
	t.checkIndex(at)
	if len(data) == 0 {
		slot, _ := t.resolve(at)
		return Record{begin: slot, end: slot}
	}

	piece := t.appendToBuffer(data)
	slot, off := t.resolve(at)

	if off == 0 {
		// On a piece boundary, or at either end: the new piece slides
		// in without disturbing its neighbors.
		t.pieces = slices.Insert(t.pieces, slot, piece)
		t.size += piece.Length
		t.log.Debug("insert: at=%d len=%d slot=%d boundary", at, piece.Length, slot)
		return Record{begin: slot, end: slot + 1}
	}

	// Mid-piece: split the occupant and lay the new piece between the
	// halves. The displaced occupant is the edit's inverse.
	target := t.pieces[slot]
	left, right := split(target, off)
	t.pieces = slices.Replace(t.pieces, slot, slot+1, left, piece, right)
	t.size += piece.Length
	t.log.Debug("insert: at=%d len=%d slot=%d split", at, piece.Length, slot)
	return Record{begin: slot, end: slot + 3, removed: []Piece{target}}
}

// Append adds data at the logical end of the document.
func (t *Table[E]) Append(data []E) Record {
	if len(data) == 0 {
		return Record{begin: len(t.pieces), end: len(t.pieces)}
	}

	piece := t.appendToBuffer(data)
	slot := len(t.pieces)
	t.pieces = append(t.pieces, piece)
	t.size += piece.Length
	t.log.Debug("append: len=%d slot=%d", piece.Length, slot)
	return Record{begin: slot, end: slot + 1}
}

// InsertElementAt inserts a single element before logical index at.
func (t *Table[E]) InsertElementAt(at int, e E) Record {
	return t.InsertAt(at, []E{e})
}

// AppendElement adds a single element at the logical end.
func (t *Table[E]) AppendElement(e E) Record {
	return t.Append([]E{e})
}

// DeleteRange removes count elements starting at logical index at.
// The pieces covering the range are replaced by their surviving
// fragments: a left survivor when the range starts mid-piece, a right
// survivor when it ends mid-piece, nothing else. count == 0 is a no-op
// and returns a degenerate record without splitting anything.
func (t *Table[E]) DeleteRange(at, count int) Record {
	t.checkRange(at, count)
	slot, off := t.resolve(at)
	if count == 0 {
		return Record{begin: slot, end: slot}
	}

	var survivors []Piece
	if off > 0 {
		first := t.pieces[slot]
		survivors = append(survivors, Piece{Start: first.Start, Length: off, Source: first.Source})
	}

	// Swallow whole pieces, measuring from the start of the first
	// affected piece. Whatever the range leaves of the last piece
	// survives on the right.
	end := slot
	rem := off + count
	for rem > 0 && rem >= t.pieces[end].Length {
		rem -= t.pieces[end].Length
		end++
	}
	if rem > 0 {
		last := t.pieces[end]
		survivors = append(survivors, Piece{Start: last.Start + rem, Length: last.Length - rem, Source: last.Source})
		end++
	}

	removed := slices.Clone(t.pieces[slot:end])
	t.pieces = slices.Replace(t.pieces, slot, end, survivors...)
	t.size -= count
	t.log.Debug("delete: at=%d count=%d removed=%d survivors=%d", at, count, len(removed), len(survivors))
	return Record{begin: slot, end: slot + len(survivors), removed: removed}
}

// DeleteAt removes the single element at logical index at.
func (t *Table[E]) DeleteAt(at int) Record {
	return t.DeleteRange(at, 1)
}

// Clear removes every piece, leaving an empty document. The record
// holds the entire prior sequence, anchored at the now-empty span.
// Neither backing buffer is touched.
func (t *Table[E]) Clear() Record {
	removed := t.pieces
	prior := t.size
	t.pieces = nil
	t.size = 0
	t.log.Debug("clear: removed=%d pieces/%d elems", len(removed), prior)
	return Record{begin: 0, end: 0, removed: removed}
}

// Apply replays a record: the pieces it holds go back over the span it
// occupies, whatever currently occupies that span is extracted into
// the returned inverse record, and the logical size adjusts by the
// difference. Undoing an edit and redoing it are both exactly this
// operation; successive records for one edit alternate direction.
func (t *Table[E]) Apply(rec Record) Record {
	if rec.begin < 0 || rec.begin > rec.end || rec.end > len(t.pieces) {
		panic(fmt.Sprintf("piecetable: record span [%d, %d) invalid for %d pieces",
			rec.begin, rec.end, len(t.pieces)))
	}

	extracted := slices.Clone(t.pieces[rec.begin:rec.end])
	t.pieces = slices.Replace(t.pieces, rec.begin, rec.end, rec.removed...)

	restored := totalLength(rec.removed)
	displaced := totalLength(extracted)
	t.size += restored - displaced

	t.log.Debug("apply: span=[%d,%d) restored=%d displaced=%d", rec.begin, rec.end, restored, displaced)
	return Record{begin: rec.begin, end: rec.begin + len(rec.removed), removed: extracted}
}
