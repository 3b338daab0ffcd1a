// Package textprop implements the public text-property operations over an
// interval tree: point queries, change scans, and the range mutations.
// All mutating operations share one two-phase splitting discipline: a
// possibly partial first interval is split so only its right part is
// processed, then the walk decrements a remaining-length counter and
// splits the final interval when it extends past the requested end.
// Newly adjacent intervals with equal plists are not coalesced; that is a
// compaction opportunity, not a correctness requirement.
package textprop

import (
	"github.com/kobzarvs/textspan/internal/intervals"
)

// PropertiesAt returns the property list at pos, or an empty plist when
// the owner carries no properties there. The result is a copy.
func PropertiesAt(o intervals.Owner, pos int) (intervals.Plist, error) {
	p := pos
	i, err := intervals.Validate(o, &p, &p, intervals.Soft)
	if err != nil || i == nil {
		return nil, err
	}
	return i.Props().Clone(), nil
}

// NextChange scans forward from pos for the first interval whose plist
// differs from the one at pos and returns its start position. ok is false
// when the walk exhausts the object.
func NextChange(o intervals.Owner, pos int) (next int, ok bool, err error) {
	p := pos
	i, err := intervals.Validate(o, &p, &p, intervals.Soft)
	if err != nil || i == nil {
		return 0, false, err
	}
	n := i.Next()
	for n != nil && n.EqualProps(i) {
		n = n.Next()
	}
	if n == nil {
		return 0, false, nil
	}
	return n.Position(), true, nil
}

// PreviousChange scans backward from pos and returns the position of the
// nearest property boundary before it.
func PreviousChange(o intervals.Owner, pos int) (prev int, ok bool, err error) {
	p := pos
	i, err := intervals.Validate(o, &p, &p, intervals.Soft)
	if err != nil || i == nil {
		return 0, false, err
	}
	n := i.Prev()
	for n != nil && n.EqualProps(i) {
		n = n.Prev()
	}
	if n == nil {
		return 0, false, nil
	}
	return n.Position() + n.Length(), true, nil
}

// AddProperties merges pl into every interval covering [start, end).
// Returns true iff at least one covered interval's plist changed.
func AddProperties(o intervals.Owner, start, end int, pl intervals.Plist) (bool, error) {
	if len(pl) == 0 {
		return false, nil
	}
	b, e := start, end
	i, err := intervals.Validate(o, &b, &e, intervals.Hard)
	if err != nil || i == nil {
		return false, err
	}
	t := o.Intervals()
	s := b
	length := e - s

	if i.HasAll(pl) {
		// Skip any leading run that already carries the properties.
		got := i.Length() - (s - i.Position())
		for {
			if got >= length {
				return false, nil
			}
			length -= got
			i = i.Next()
			got = i.Length()
			if !i.HasAll(pl) {
				break
			}
		}
	} else if i.Position() != s {
		i = t.SplitRight(i, s-i.Position())
	}

	changed := false
	for {
		if i.Length() >= length {
			if i.HasAll(pl) {
				return changed, nil
			}
			if i.Length() > length {
				i = t.SplitLeft(i, length)
			}
			i.AddProps(pl)
			return true, nil
		}
		length -= i.Length()
		if i.AddProps(pl) {
			changed = true
		}
		i = i.Next()
	}
}

// SetProperties wholesale-replaces the plist of every interval covering
// [start, end) with a fresh copy of pl. Returns true iff any plist
// changed; repeating the same call is a no-op.
func SetProperties(o intervals.Owner, start, end int, pl intervals.Plist) (bool, error) {
	b, e := start, end
	i, err := intervals.Validate(o, &b, &e, intervals.Hard)
	if err != nil || i == nil {
		return false, err
	}
	t := o.Intervals()
	s := b
	length := e - s

	if i.Props().Equal(pl) {
		// Skip any leading run already carrying exactly pl.
		got := i.Length() - (s - i.Position())
		for {
			if got >= length {
				return false, nil
			}
			length -= got
			i = i.Next()
			got = i.Length()
			if !i.Props().Equal(pl) {
				break
			}
		}
	} else if i.Position() != s {
		i = t.SplitRight(i, s-i.Position())
	}

	changed := false
	for {
		if i.Length() >= length {
			if i.Props().Equal(pl) {
				return changed, nil
			}
			if i.Length() > length {
				i = t.SplitLeft(i, length)
			}
			i.SetProps(pl)
			return true, nil
		}
		length -= i.Length()
		if i.SetProps(pl) {
			changed = true
		}
		i = i.Next()
	}
}

// RemoveProperties drops the keys named in pl (values ignored) from every
// interval covering [start, end). Validation is soft: when nothing in the
// region carries any named key, the call is a true no-op with no
// splitting.
func RemoveProperties(o intervals.Owner, start, end int, pl intervals.Plist) (bool, error) {
	if len(pl) == 0 {
		return false, nil
	}
	b, e := start, end
	i, err := intervals.Validate(o, &b, &e, intervals.Soft)
	if err != nil || i == nil {
		return false, err
	}
	t := o.Intervals()
	s := b
	length := e - s

	if i.Position() != s {
		if !i.HasAny(pl) {
			got := i.Length() - (s - i.Position())
			if got >= length {
				return false, nil
			}
			length -= got
			i = i.Next()
		} else {
			i = t.SplitRight(i, s-i.Position())
		}
	}

	changed := false
	for {
		if i.Length() >= length {
			if !i.HasAny(pl) {
				return changed, nil
			}
			if i.Length() > length {
				i = t.SplitLeft(i, length)
			}
			i.RemoveProps(pl)
			return true, nil
		}
		length -= i.Length()
		if i.RemoveProps(pl) {
			changed = true
		}
		i = i.Next()
	}
}

// EraseProperties empties the plist of every interval covering
// [start, end). Intervals that are already empty are left untouched, so
// no splitting happens when nothing changes.
func EraseProperties(o intervals.Owner, start, end int) (bool, error) {
	b, e := start, end
	i, err := intervals.Validate(o, &b, &e, intervals.Soft)
	if err != nil || i == nil {
		return false, err
	}
	t := o.Intervals()
	s := b
	length := e - s

	if i.Position() != s {
		if len(i.Props()) == 0 {
			got := i.Length() - (s - i.Position())
			if got >= length {
				return false, nil
			}
			length -= got
			i = i.Next()
		} else {
			i = t.SplitRight(i, s-i.Position())
		}
	}

	changed := false
	for {
		if i.Length() >= length {
			if len(i.Props()) == 0 {
				return changed, nil
			}
			if i.Length() > length {
				i = t.SplitLeft(i, length)
			}
			i.ClearProps()
			return true, nil
		}
		length -= i.Length()
		if i.ClearProps() {
			changed = true
		}
		i = i.Next()
	}
}
