package undo

import (
	"errors"
	"fmt"
)

// ErrRange is returned when a replayed record targets a position outside
// the buffer's currently visible bounds.
var ErrRange = errors.New("undo target outside visible bounds")

// ErrDisabled is returned when playback is requested on a disabled list.
var ErrDisabled = errors.New("undo is disabled")

// Play pops and interprets count boundary-delimited groups from the top
// of l, replaying them through b's edit primitives. The recorder, when
// non-nil, records the playback's own edits into b's live undo list, which
// is how redo is expressed as undo-of-undo; l must then be a detached
// Copy of that list. The unconsumed remainder stays in l.
//
// A first-change record restores the clean flag only when its recorded
// modification time matches the buffer's current one exactly; a stale
// marker consumes the rest of its group, which is assumed inconsistent
// with the restore.
func (r *Recorder) Play(b Buffer, count int, l *List) (*List, error) {
	if !l.Enabled() {
		return l, ErrDisabled
	}
	for n := 0; n < count; n++ {
	group:
		for {
			rec, ok := l.pop()
			if !ok {
				return l, nil
			}
			switch rec.Kind {
			case KindBoundary:
				break group

			case KindFirstChange:
				if rec.ModTime == b.ModTime() {
					b.SetUnmodified()
					continue
				}
				// Stale save timestamp: drop the rest of the group.
				for {
					r2, ok := l.pop()
					if !ok || r2.Kind == KindBoundary {
						break group
					}
				}

			case KindInsert:
				lo, hi := b.VisibleBounds()
				if rec.Beg < lo || rec.End > hi {
					return l, fmt.Errorf("%w: [%d, %d)", ErrRange, rec.Beg, rec.End)
				}
				if r != nil {
					r.RecordDelete(b, rec.Beg, rec.End)
				}
				b.Delete(rec.Beg, rec.End)
				b.SetPoint(rec.Beg)

			case KindDelete:
				lo, hi := b.VisibleBounds()
				if rec.Pos < lo || rec.Pos > hi {
					return l, fmt.Errorf("%w: %d", ErrRange, rec.Pos)
				}
				length := len([]rune(rec.Text))
				if r != nil {
					r.RecordInsert(b, rec.Pos, length)
				}
				b.Insert(rec.Pos, rec.Text)
				if rec.Point == PointAfter {
					b.SetPoint(rec.Pos + length)
				} else {
					b.SetPoint(rec.Pos)
				}
			}
		}
	}
	return l, nil
}
