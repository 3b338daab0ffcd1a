// Package textstore provides the text container the property and undo
// subsystems annotate: a rune-addressed buffer with 1-based positions, a
// point, optional narrowing, and modification bookkeeping. The buffer
// owns its interval tree and its undo list.
package textstore

import (
	"time"

	"github.com/kobzarvs/textspan/internal/intervals"
	"github.com/kobzarvs/textspan/internal/undo"
)

// Buffer is a linear text buffer. Characters occupy positions
// [1, Length()]; position Length()+1 addresses the end of the buffer.
type Buffer struct {
	name    string
	content []rune
	point   int
	begv    int // visible lower bound
	zv      int // visible upper bound (one past the last visible char)

	modCount     int64
	saveModCount int64
	modTime      int64

	props    *intervals.Tree
	undoList *undo.List
}

// New creates a buffer holding text, with point at the start.
func New(name, text string) *Buffer {
	b := &Buffer{
		name:    name,
		content: []rune(text),
		point:   1,
	}
	b.begv = 1
	b.zv = len(b.content) + 1
	b.modTime = time.Now().UnixNano()
	b.props = intervals.NewTree(b)
	b.undoList = undo.NewList()
	return b
}

// Name returns the buffer's name.
func (b *Buffer) Name() string { return b.name }

// Length returns the number of characters in the buffer.
func (b *Buffer) Length() int { return len(b.content) }

// Bounds returns the addressable position range: 1 through Length()+1.
func (b *Buffer) Bounds() (lo, hi int) { return 1, len(b.content) + 1 }

// Intervals returns the buffer's property tree.
func (b *Buffer) Intervals() *intervals.Tree { return b.props }

// VisibleBounds returns the narrowed position range; with no narrowing in
// effect it equals Bounds.
func (b *Buffer) VisibleBounds() (lo, hi int) { return b.begv, b.zv }

// Narrow restricts the visible range to [lo, hi]. Out-of-range requests
// are clamped.
func (b *Buffer) Narrow(lo, hi int) {
	blo, bhi := b.Bounds()
	if lo < blo {
		lo = blo
	}
	if hi > bhi {
		hi = bhi
	}
	if hi < lo {
		hi = lo
	}
	b.begv, b.zv = lo, hi
	b.clampPoint()
}

// Widen removes any narrowing.
func (b *Buffer) Widen() {
	b.begv, b.zv = b.Bounds()
}

// Point returns the current point position.
func (b *Buffer) Point() int { return b.point }

// SetPoint moves point, clamped to the visible bounds.
func (b *Buffer) SetPoint(pos int) {
	b.point = pos
	b.clampPoint()
}

func (b *Buffer) clampPoint() {
	if b.point < b.begv {
		b.point = b.begv
	}
	if b.point > b.zv {
		b.point = b.zv
	}
}

// ReadRange returns the characters in [start, end). Out-of-range requests
// are clamped to the buffer.
func (b *Buffer) ReadRange(start, end int) string {
	lo, hi := b.Bounds()
	if start < lo {
		start = lo
	}
	if end > hi {
		end = hi
	}
	if end <= start {
		return ""
	}
	return string(b.content[start-1 : end-1])
}

// Contents returns the whole buffer text.
func (b *Buffer) Contents() string { return string(b.content) }

// Insert places text before pos, growing the interval tree and moving
// point and bounds that sit at or after pos.
func (b *Buffer) Insert(pos int, text string) {
	runes := []rune(text)
	if len(runes) == 0 {
		return
	}
	lo, hi := b.Bounds()
	if pos < lo {
		pos = lo
	}
	if pos > hi {
		pos = hi
	}
	idx := pos - 1
	b.content = append(b.content[:idx:idx], append(runes, b.content[idx:]...)...)
	n := len(runes)
	if b.point >= pos {
		b.point += n
	}
	if b.begv > pos {
		b.begv += n
	}
	if b.zv >= pos {
		b.zv += n
	}
	b.modCount++
	b.props.AdjustForInsert(pos, n)
}

// Delete removes the characters in [start, end), shrinking the interval
// tree and pulling back point and bounds behind the gap.
func (b *Buffer) Delete(start, end int) {
	lo, hi := b.Bounds()
	if start < lo {
		start = lo
	}
	if end > hi {
		end = hi
	}
	if end <= start {
		return
	}
	n := end - start
	b.content = append(b.content[:start-1:start-1], b.content[end-1:]...)
	b.point = pullBack(b.point, start, end)
	b.begv = pullBack(b.begv, start, end)
	b.zv = pullBack(b.zv, start, end)
	b.modCount++
	b.props.AdjustForDelete(start, n)
}

// pullBack maps a position across a deletion of [start, end).
func pullBack(pos, start, end int) int {
	switch {
	case pos <= start:
		return pos
	case pos >= end:
		return pos - (end - start)
	default:
		return start
	}
}

// ModCount returns the modification counter, bumped on every edit.
func (b *Buffer) ModCount() int64 { return b.modCount }

// SaveModCount returns the modification counter at the last save.
func (b *Buffer) SaveModCount() int64 { return b.saveModCount }

// ModTime returns the save timestamp used by first-change undo records.
func (b *Buffer) ModTime() int64 { return b.modTime }

// Modified reports whether the buffer changed since the last save.
func (b *Buffer) Modified() bool { return b.modCount > b.saveModCount }

// MarkSaved records a save: the buffer becomes clean and the save
// timestamp advances.
func (b *Buffer) MarkSaved() {
	b.saveModCount = b.modCount
	b.modTime = time.Now().UnixNano()
}

// SetUnmodified clears the dirty flag without touching the save
// timestamp; undo playback uses it when a first-change record matches.
func (b *Buffer) SetUnmodified() {
	b.saveModCount = b.modCount
}

// UndoList returns the buffer's undo log.
func (b *Buffer) UndoList() *undo.List { return b.undoList }

// SetUndoList replaces the undo log; pass undo.Disabled to turn recording
// off, or a fresh list to reset history.
func (b *Buffer) SetUndoList(l *undo.List) {
	b.undoList = l
}
