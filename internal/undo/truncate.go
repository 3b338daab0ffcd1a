package undo

import "github.com/kobzarvs/textspan/internal/logger"

// recordOverhead approximates the per-record link cost, in bytes, charged
// on top of any captured text.
const recordOverhead = 16

func cost(r Record) int {
	if r.Kind == KindDelete {
		return recordOverhead + len(r.Text)
	}
	return recordOverhead
}

// Truncate walks the list from the newest record accumulating an
// approximate byte cost, and cuts the oldest tail once the cost passes
// the caps. The chain up to and including the first boundary is always
// preserved. At each boundary from there on: when the size has already
// passed maxsize the list is cut at the previously noted boundary, and
// when it has passed minsize the list is cut at this one. If the walk
// ends without passing the caps the list is returned unchanged; if the
// head chain alone passes maxsize before any boundary was seen,
// everything is dropped.
func Truncate(l *List, minsize, maxsize int) *List {
	if !l.Enabled() || l.Empty() {
		return l
	}

	size := 0
	start := len(l.recs) - 1

	// A leading boundary (just-closed group) is kept and skipped.
	if l.recs[start].Kind == KindBoundary {
		size += cost(l.recs[start])
		start--
	}

	seenBoundary := false
	lastBoundary := -1
	cut := -1
	for i := start; i >= 0; i-- {
		r := l.recs[i]
		if r.Kind == KindBoundary {
			if seenBoundary && size > maxsize {
				cut = lastBoundary
				break
			}
			seenBoundary = true
			lastBoundary = i
			if size > minsize {
				cut = i
				break
			}
			size += cost(r)
			continue
		}
		size += cost(r)
		if !seenBoundary && size > maxsize {
			// The head chain alone blows the hard cap and there is
			// no boundary to preserve through.
			logger.Debug("undo truncate: dropping all", "size", size, "max", maxsize)
			l.recs = nil
			return l
		}
	}

	if cut < 0 {
		// Scanned the whole list without passing the caps.
		return l
	}
	logger.Debug("undo truncate", "kept", len(l.recs)-cut, "dropped", cut)
	l.recs = l.recs[cut:]
	return l
}
