// Package intervals implements the balanced interval tree that attaches
// property lists to contiguous ranges of a text buffer or string. The
// intervals of a tree partition the owner's full index range with no gaps
// and no overlaps; every node carries the total character count of its
// subtree, which doubles as the balance weight.
package intervals

import "github.com/kobzarvs/textspan/internal/logger"

// Interval is one node of a property tree: a maximal contiguous run of
// positions sharing one property list. The parent link is used for
// successor/predecessor walks and local rebalancing only.
type Interval struct {
	totalLength int // length of this interval plus both subtrees
	position    int // cached absolute start, set during searches
	left        *Interval
	right       *Interval
	parent      *Interval
	plist       Plist
}

func leftTotal(i *Interval) int {
	if i == nil || i.left == nil {
		return 0
	}
	return i.left.totalLength
}

func rightTotal(i *Interval) int {
	if i == nil || i.right == nil {
		return 0
	}
	return i.right.totalLength
}

// Length returns the number of positions this interval itself spans.
func (i *Interval) Length() int {
	return i.totalLength - leftTotal(i) - rightTotal(i)
}

// Position returns the absolute start position cached by the last search
// or traversal that reached this interval.
func (i *Interval) Position() int {
	return i.position
}

// End returns the position just past this interval.
func (i *Interval) End() int {
	return i.position + i.Length()
}

// Props returns the interval's property list. The returned slice is the
// live list; callers that need to hold on to it must Clone.
func (i *Interval) Props() Plist {
	return i.plist
}

// EqualProps reports whether two intervals carry equal property lists.
func (i *Interval) EqualProps(o *Interval) bool {
	return i.plist.Equal(o.plist)
}

// HasAll reports whether the interval carries every pair of query.
func (i *Interval) HasAll(query Plist) bool {
	return i.plist.HasAll(query)
}

// HasAny reports whether the interval carries any key of query.
func (i *Interval) HasAny(query Plist) bool {
	return i.plist.HasAny(query)
}

// Next returns the interval immediately after i, or nil at the end of the
// object. Because intervals partition the owner, the successor starts
// exactly where i ends; the position cache is maintained accordingly.
func (i *Interval) Next() *Interval {
	nextPos := i.position + i.Length()
	if i.right != nil {
		n := i.right
		for n.left != nil {
			n = n.left
		}
		n.position = nextPos
		return n
	}
	n := i
	for n.parent != nil {
		if n.parent.left == n {
			n.parent.position = nextPos
			return n.parent
		}
		n = n.parent
	}
	return nil
}

// Prev returns the interval immediately before i, or nil at the start.
func (i *Interval) Prev() *Interval {
	prevEnd := i.position
	if i.left != nil {
		n := i.left
		for n.right != nil {
			n = n.right
		}
		n.position = prevEnd - n.Length()
		return n
	}
	n := i
	for n.parent != nil {
		if n.parent.right == n {
			n.parent.position = prevEnd - n.parent.Length()
			return n.parent
		}
		n = n.parent
	}
	return nil
}

// AddProps merges query into the interval's plist: a present key is
// overwritten only when the value differs structurally, an absent key is
// prepended. Reports whether the plist changed.
func (i *Interval) AddProps(query Plist) bool {
	changed := false
	for _, q := range query {
		if idx := i.plist.index(q.Key); idx >= 0 {
			if !i.plist[idx].Val.Equal(q.Val) {
				i.plist[idx].Val = q.Val
				changed = true
			}
			continue
		}
		i.plist = append(Plist{q}, i.plist...)
		changed = true
	}
	return changed
}

// SetProps replaces the interval's plist with a fresh copy of query.
// Reports whether the plist changed.
func (i *Interval) SetProps(query Plist) bool {
	if i.plist.Equal(query) {
		return false
	}
	i.plist = query.Clone()
	return true
}

// RemoveProps drops the keys named in query from the interval's plist;
// values in query are ignored. Reports whether anything was removed.
func (i *Interval) RemoveProps(query Plist) bool {
	changed := false
	for _, q := range query {
		if idx := i.plist.index(q.Key); idx >= 0 {
			i.plist = append(i.plist[:idx:idx], i.plist[idx+1:]...)
			changed = true
		}
	}
	return changed
}

// ClearProps empties the interval's plist. Reports whether it was non-empty.
func (i *Interval) ClearProps() bool {
	if len(i.plist) == 0 {
		return false
	}
	i.plist = nil
	return true
}

// assertWellFormed panics on a zero-length interval, which cannot occur
// through the public contract.
func (i *Interval) assertWellFormed() {
	if i.Length() <= 0 {
		logger.Error("zero-length interval", "position", i.position, "total", i.totalLength)
		panic("intervals: zero-length interval")
	}
}
