// Package undo implements the per-buffer undo log: an append-ordered,
// boundary-delimited sequence of edit records holding enough information
// to reverse edits without full buffer snapshots.
package undo

// Kind tags the variants of an undo record.
type Kind int

const (
	// KindBoundary separates logical undo groups. Boundary records are
	// empty; consecutive boundaries collapse to one.
	KindBoundary Kind = iota
	// KindInsert records that text was inserted in [Beg, End); the
	// content is not stored because the reversal is a deletion.
	KindInsert
	// KindDelete records deleted text and where to reinsert it.
	KindDelete
	// KindFirstChange records the owner's modification time at the
	// moment a clean buffer turned dirty, so playback can detect a
	// stale save timestamp.
	KindFirstChange
)

// Placement says where point was relative to a deleted range, and hence
// where playback leaves it after reinserting the text. An explicit enum
// rather than a sign bit on the position, so position 0 is unambiguous.
type Placement int

const (
	// PointBefore leaves point before the reinserted text.
	PointBefore Placement = iota
	// PointAfter leaves point after it (point was at the deletion end).
	PointAfter
)

// Record is one entry of the undo log.
type Record struct {
	Kind Kind

	// KindInsert
	Beg, End int

	// KindDelete
	Text  string
	Pos   int
	Point Placement

	// KindFirstChange
	ModTime int64
}

// List is the undo log of one buffer: a growable slice used as a stack,
// with the newest record at the top (end of the slice). A disabled list
// is a distinct sentinel state: every record call on it is a no-op.
// Truncation only ever drops the oldest tail, so references to newer
// records stay reachable.
type List struct {
	recs     []Record
	disabled bool
}

// Disabled is the sentinel "undo is off" list.
var Disabled = &List{disabled: true}

// NewList returns an empty, active undo list.
func NewList() *List {
	return &List{}
}

// Enabled reports whether records may be appended.
func (l *List) Enabled() bool {
	return l != nil && !l.disabled
}

// Len returns the number of records.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.recs)
}

// Empty reports whether the list holds no records.
func (l *List) Empty() bool {
	return l.Len() == 0
}

// Top returns the newest record, or nil on an empty list.
func (l *List) Top() *Record {
	if l.Len() == 0 {
		return nil
	}
	return &l.recs[len(l.recs)-1]
}

// Push appends a record at the top. No-op on a disabled list.
func (l *List) Push(r Record) {
	if !l.Enabled() {
		return
	}
	l.recs = append(l.recs, r)
}

// SkipBoundary removes a boundary sitting at the top. Playback treats a
// boundary as a group terminator, so a just-closed group must be uncapped
// before it can be replayed.
func (l *List) SkipBoundary() {
	if top := l.Top(); top != nil && top.Kind == KindBoundary {
		l.pop()
	}
}

// pop removes and returns the newest record.
func (l *List) pop() (Record, bool) {
	if l.Len() == 0 {
		return Record{}, false
	}
	r := l.recs[len(l.recs)-1]
	l.recs = l.recs[:len(l.recs)-1]
	return r, true
}

// Copy returns a detached copy of the list. Playback of a copy leaves the
// live list free to receive the records of the playback's own edits.
func (l *List) Copy() *List {
	if l == nil {
		return nil
	}
	out := &List{disabled: l.disabled}
	out.recs = make([]Record, len(l.recs))
	copy(out.recs, l.recs)
	return out
}

// Records returns the records oldest first, as a copy.
func (l *List) Records() []Record {
	if l.Len() == 0 {
		return nil
	}
	out := make([]Record, len(l.recs))
	copy(out, l.recs)
	return out
}
