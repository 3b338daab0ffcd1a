package intervals

import (
	"errors"
	"fmt"
)

// ErrRange is returned when a begin/end pair falls outside the owner's
// addressable range.
var ErrRange = errors.New("position out of range")

// Force selects what Validate does when the owner has no tree yet.
type Force bool

const (
	// Soft returns the no-interval sentinel instead of allocating.
	Soft Force = false
	// Hard lazily allocates a root interval spanning the whole owner.
	Hard Force = true
)

// Validate normalizes a (begin, end) request against the owner's bounds
// and locates the interval containing *begin.
//
// A call passing the same variable for begin and end is a point probe;
// a range call with *begin == *end but distinct locations is an empty
// range and resolves to the nil sentinel. Reversed range bounds are
// swapped silently. The nil interval with a nil error means "nothing to
// do"; callers report a no-op.
func Validate(o Owner, begin, end *int, force Force) (*Interval, error) {
	if begin != end && *begin == *end {
		return nil, nil
	}
	if *begin > *end {
		*begin, *end = *end, *begin
	}

	lo, hi := o.Bounds()
	if *begin < lo || *end > hi {
		return nil, fmt.Errorf("%w: [%d, %d) outside [%d, %d]", ErrRange, *begin, *end, lo, hi)
	}
	if o.Length() == 0 {
		return nil, nil
	}

	t := o.Intervals()
	if t.Empty() {
		if force == Soft {
			return nil, nil
		}
		return t.createRoot(), nil
	}

	// Probing the absolute end position lands in the last interval.
	searchpos := *begin
	if searchpos == hi {
		searchpos--
	}
	return t.find(searchpos), nil
}

// Text is an immutable string owner for string properties.
type Text struct {
	runes []rune
	tree  *Tree
}

// NewText wraps a string value so a property tree can annotate it.
func NewText(s string) *Text {
	st := &Text{runes: []rune(s)}
	st.tree = NewTree(st)
	return st
}

// Length returns the character count of the string.
func (s *Text) Length() int { return len(s.runes) }

// Bounds returns the 0-based addressable range of the string.
func (s *Text) Bounds() (lo, hi int) { return 0, len(s.runes) }

// Intervals returns the string's property tree.
func (s *Text) Intervals() *Tree { return s.tree }

// String returns the underlying text.
func (s *Text) String() string { return string(s.runes) }
