package undo

import "github.com/kobzarvs/textspan/internal/logger"

// Buffer is the collaborator contract the undo log needs from a text
// container. Positions are 1-based; ReadRange covers [start, end).
type Buffer interface {
	Length() int
	VisibleBounds() (lo, hi int)
	ReadRange(start, end int) string
	Insert(pos int, text string)
	Delete(start, end int)
	Point() int
	SetPoint(pos int)
	// ModCount and SaveModCount implement the clean/dirty check: the
	// buffer is clean while SaveModCount >= ModCount.
	ModCount() int64
	SaveModCount() int64
	// ModTime is the save timestamp compared by first-change playback.
	ModTime() int64
	SetUnmodified()
	UndoList() *List
}

// Recorder threads the cross-buffer recording state (which buffer the
// last record went to) through the record calls, instead of keeping it in
// a package-wide variable.
type Recorder struct {
	last Buffer
}

// NewRecorder returns a Recorder with no last-touched buffer.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// prepare runs before every record push: a boundary is inserted when the
// target buffer differs from the last recorded one, and a first-change
// marker when a clean buffer is about to turn dirty.
func (r *Recorder) prepare(b Buffer) {
	if r.last != nil && r.last != b {
		r.PushBoundary(b)
	}
	r.last = b
	if b.SaveModCount() >= b.ModCount() {
		b.UndoList().Push(Record{Kind: KindFirstChange, ModTime: b.ModTime()})
	}
}

// RecordInsert records that length characters are being inserted at beg.
// A record contiguous with the previous insertion in the same buffer
// extends it instead of pushing a new one.
func (r *Recorder) RecordInsert(b Buffer, beg, length int) {
	l := b.UndoList()
	if !l.Enabled() || length <= 0 {
		return
	}
	sameBuffer := r.last == b
	r.prepare(b)
	if sameBuffer {
		if top := l.Top(); top != nil && top.Kind == KindInsert && top.End == beg {
			top.End += length
			return
		}
	}
	l.Push(Record{Kind: KindInsert, Beg: beg, End: beg + length})
}

// RecordDelete captures the text in [beg, end) before it is deleted,
// together with where point sat relative to the doomed range. It must be
// called before the mutation happens.
func (r *Recorder) RecordDelete(b Buffer, beg, end int) {
	l := b.UndoList()
	if !l.Enabled() || end <= beg {
		return
	}
	r.prepare(b)
	placement := PointBefore
	if b.Point() == end {
		placement = PointAfter
	}
	l.Push(Record{
		Kind:  KindDelete,
		Text:  b.ReadRange(beg, end),
		Pos:   beg,
		Point: placement,
	})
}

// RecordReplace records a replacement of [beg, beg+length): the old
// content is captured for reinsertion, then the same span is recorded as
// an insertion. Call before the mutation, like RecordDelete.
func (r *Recorder) RecordReplace(b Buffer, beg, length int) {
	r.RecordDelete(b, beg, beg+length)
	r.RecordInsert(b, beg, length)
}

// RecordFirstChange pushes the modification-time marker explicitly.
func (r *Recorder) RecordFirstChange(b Buffer) {
	l := b.UndoList()
	if !l.Enabled() {
		return
	}
	l.Push(Record{Kind: KindFirstChange, ModTime: b.ModTime()})
}

// PushBoundary closes the current undo group. Idempotent: a boundary is
// only pushed when the newest record is not already one, and never onto
// an empty list.
func (r *Recorder) PushBoundary(b Buffer) {
	l := b.UndoList()
	if !l.Enabled() || l.Empty() {
		return
	}
	if l.Top().Kind == KindBoundary {
		return
	}
	logger.Debug("undo boundary", "records", l.Len())
	l.Push(Record{Kind: KindBoundary})
}
