package intervals

import "github.com/kobzarvs/textspan/internal/logger"

// DefaultBalanceThreshold is the percentage by which one child subtree may
// outweigh the other before a local rotation is attempted.
const DefaultBalanceThreshold = 8

// Owner is the container a property tree annotates: a text buffer or an
// immutable string. Bounds returns the addressable position range
// [lo, hi]; buffers are 1-based with hi = Length()+1, strings are 0-based
// with hi = Length().
type Owner interface {
	Length() int
	Bounds() (lo, hi int)
	Intervals() *Tree
}

// Tree holds the interval tree of one owner.
type Tree struct {
	owner     Owner
	root      *Interval
	threshold int // balance threshold, percent of subtree weight
}

// NewTree creates an empty property tree for owner.
func NewTree(owner Owner) *Tree {
	return &Tree{owner: owner, threshold: DefaultBalanceThreshold}
}

// SetBalanceThreshold adjusts the rebalancing threshold percentage.
// Values below 1 are clamped to 1.
func (t *Tree) SetBalanceThreshold(pct int) {
	if pct < 1 {
		pct = 1
	}
	t.threshold = pct
}

// Empty reports whether the tree has no intervals.
func (t *Tree) Empty() bool {
	return t.root == nil
}

// Clear tears the tree down; used when the owner is destroyed or emptied.
func (t *Tree) Clear() {
	t.root = nil
}

// find locates the interval containing pos, caching absolute positions on
// the way down. pos must satisfy lo <= pos < lo+total.
func (t *Tree) find(pos int) *Interval {
	lo, _ := t.owner.Bounds()
	relative := pos - lo
	i := t.root
	for {
		i.assertWellFormed()
		lt := leftTotal(i)
		switch {
		case relative < lt:
			i = i.left
		case relative >= lt+i.Length():
			relative -= lt + i.Length()
			i = i.right
		default:
			i.position = pos - relative + lt
			return i
		}
	}
}

// createRoot allocates the single interval spanning the whole owner.
func (t *Tree) createRoot() *Interval {
	t.root = &Interval{totalLength: t.owner.Length()}
	lo, _ := t.owner.Bounds()
	t.root.position = lo
	return t.root
}

// SplitRight splits i at offset, producing a new interval for the right
// part [offset, length). The original keeps [0, offset). Both halves carry
// a copy of the original plist so the walk that follows stays well formed.
func (t *Tree) SplitRight(i *Interval, offset int) *Interval {
	n := &Interval{
		position: i.position + offset,
		parent:   i,
		plist:    i.plist.Clone(),
	}
	newLength := i.Length() - offset

	if i.right == nil {
		i.right = n
		n.totalLength = newLength
	} else {
		// Insert the new node between i and its right child.
		n.right = i.right
		n.right.parent = n
		i.right = n
		n.totalLength = newLength + n.right.totalLength
		t.balance(n)
	}
	n.assertWellFormed()
	t.balancePossibleRoot(i)
	return n
}

// SplitLeft splits i at offset, producing a new interval for the left part
// [0, offset). The original keeps [offset, length) and its cached position
// moves up accordingly.
func (t *Tree) SplitLeft(i *Interval, offset int) *Interval {
	n := &Interval{
		position: i.position,
		parent:   i,
		plist:    i.plist.Clone(),
	}
	i.position += offset

	if i.left == nil {
		i.left = n
		n.totalLength = offset
	} else {
		n.left = i.left
		n.left.parent = n
		i.left = n
		n.totalLength = offset + n.left.totalLength
		t.balance(n)
	}
	n.assertWellFormed()
	t.balancePossibleRoot(i)
	return n
}

// rotateRight lifts a's left child above it, preserving subtree totals.
func (t *Tree) rotateRight(a *Interval) *Interval {
	b := a.left
	c := b.right

	if a.parent == nil {
		t.root = b
	} else if a.parent.left == a {
		a.parent.left = b
	} else {
		a.parent.right = b
	}
	b.parent = a.parent

	a.left = c
	if c != nil {
		c.parent = a
	}
	b.right = a
	a.parent = b

	oldTotal := a.totalLength
	a.totalLength -= b.totalLength
	if c != nil {
		a.totalLength += c.totalLength
	}
	b.totalLength = oldTotal
	return b
}

// rotateLeft is the mirror of rotateRight.
func (t *Tree) rotateLeft(a *Interval) *Interval {
	b := a.right
	c := b.left

	if a.parent == nil {
		t.root = b
	} else if a.parent.left == a {
		a.parent.left = b
	} else {
		a.parent.right = b
	}
	b.parent = a.parent

	a.right = c
	if c != nil {
		c.parent = a
	}
	b.left = a
	a.parent = b

	oldTotal := a.totalLength
	a.totalLength -= b.totalLength
	if c != nil {
		a.totalLength += c.totalLength
	}
	b.totalLength = oldTotal
	return b
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// balance rotates at i while one child outweighs the other by more than
// the threshold percentage of the subtree total and a rotation would
// shrink the imbalance. Returns the node now at i's place.
func (t *Tree) balance(i *Interval) *Interval {
	for {
		oldDiff := leftTotal(i) - rightTotal(i)
		if abs(oldDiff)*100 <= i.totalLength*t.threshold {
			break
		}
		if oldDiff > 0 {
			// Left is heavier, so it must exist.
			newDiff := i.totalLength - i.left.totalLength +
				rightTotal(i.left) - leftTotal(i.left)
			if abs(newDiff) >= oldDiff {
				break
			}
			i = t.rotateRight(i)
			t.balance(i.right)
		} else {
			newDiff := i.totalLength - i.right.totalLength +
				leftTotal(i.right) - rightTotal(i.right)
			if abs(newDiff) >= -oldDiff {
				break
			}
			i = t.rotateLeft(i)
			t.balance(i.left)
		}
	}
	return i
}

// balancePossibleRoot rebalances only when i is the tree root.
func (t *Tree) balancePossibleRoot(i *Interval) {
	if i == t.root && i != nil {
		t.balance(i)
	}
}

// AdjustForInsert grows the tree after length characters were inserted at
// pos. Text inserted strictly inside an interval inherits its plist; at a
// boundary it joins the preceding interval, or the following one at the
// very start of the object.
func (t *Tree) AdjustForInsert(pos, length int) {
	if t.root == nil || length <= 0 {
		return
	}
	lo, _ := t.owner.Bounds()
	probe := pos
	if probe > lo {
		probe--
	}
	i := t.find(probe)
	for n := i; n != nil; n = n.parent {
		n.totalLength += length
	}
	t.balancePossibleRoot(t.root)
}

// AdjustForDelete shrinks the tree after length characters were deleted
// starting at start, removing intervals the deletion consumed entirely.
// Deleting everything tears the tree down.
func (t *Tree) AdjustForDelete(start, length int) {
	if t.root == nil || length <= 0 {
		return
	}
	if length >= t.root.totalLength {
		t.root = nil
		return
	}
	lo, _ := t.owner.Bounds()
	left := length
	for left > 0 {
		left -= t.deletionAdjustment(t.root, start-lo, left)
		if t.root == nil {
			return
		}
		if left == t.root.totalLength {
			t.root = nil
			return
		}
	}
}

// deletionAdjustment removes up to amount characters at relative offset
// from within the subtree rooted at i, returning how many were absorbed.
// Intervals shrunk to zero length are deleted from the tree.
func (t *Tree) deletionAdjustment(i *Interval, from, amount int) int {
	if i == nil {
		return 0
	}
	lt := leftTotal(i)
	myLen := i.totalLength - lt - rightTotal(i)

	if from < lt {
		sub := t.deletionAdjustment(i.left, from, amount)
		i.totalLength -= sub
		return sub
	}
	if from >= lt+myLen {
		sub := t.deletionAdjustment(i.right, from-(lt+myLen), amount)
		i.totalLength -= sub
		return sub
	}

	// The deletion starts inside this interval.
	mine := lt + myLen - from
	if amount > mine {
		amount = mine
	}
	i.totalLength -= amount
	if i.totalLength-lt-rightTotal(i) == 0 {
		t.deleteInterval(i)
	}
	return amount
}

// deleteInterval unlinks a zero-length interval, splicing its children
// back into the tree.
func (t *Tree) deleteInterval(i *Interval) {
	child := deleteNode(i)
	if i.parent == nil {
		t.root = child
		if child != nil {
			child.parent = nil
		}
		return
	}
	p := i.parent
	if p.left == i {
		p.left = child
	} else {
		p.right = child
	}
	if child != nil {
		child.parent = p
	}
}

// deleteNode merges i's children into one subtree: the left subtree
// becomes the leftmost descendant of the right one.
func deleteNode(i *Interval) *Interval {
	if i.left == nil {
		return i.right
	}
	if i.right == nil {
		return i.left
	}
	migrate := i.left
	amount := migrate.totalLength
	n := i.right
	n.totalLength += amount
	for n.left != nil {
		n = n.left
		n.totalLength += amount
	}
	n.left = migrate
	migrate.parent = n
	return i.right
}

// CheckTotalLength panics when the tree total disagrees with the owner
// length. A violation means a mutation broke the partition invariant.
func (t *Tree) CheckTotalLength() {
	total := 0
	if t.root != nil {
		total = t.root.totalLength
	}
	if t.root != nil && total != t.owner.Length() {
		logger.Error("interval tree length mismatch",
			"tree", total, "owner", t.owner.Length())
		panic("intervals: tree total disagrees with owner length")
	}
}
