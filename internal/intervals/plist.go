package intervals

import (
	"errors"
	"fmt"
)

// ErrOddPlist is returned when a flat key/value list has odd length.
var ErrOddPlist = errors.New("property list has odd length")

// Value is a property value. Values compare by structure, not identity.
type Value interface {
	Equal(Value) bool
	isValue()
}

// Str is a string property value.
type Str string

// Num is a numeric property value.
type Num float64

// Sym is a symbolic property value (face names, flags and the like).
type Sym string

// Seq is a nested list of property values.
type Seq []Value

func (v Str) isValue() {}
func (v Num) isValue() {}
func (v Sym) isValue() {}
func (v Seq) isValue() {}

func (v Str) Equal(o Value) bool {
	w, ok := o.(Str)
	return ok && v == w
}

func (v Num) Equal(o Value) bool {
	w, ok := o.(Num)
	return ok && v == w
}

func (v Sym) Equal(o Value) bool {
	w, ok := o.(Sym)
	return ok && v == w
}

func (v Seq) Equal(o Value) bool {
	w, ok := o.(Seq)
	if !ok || len(v) != len(w) {
		return false
	}
	for i := range v {
		if !v[i].Equal(w[i]) {
			return false
		}
	}
	return true
}

// Prop is a single property: a key bound to a value.
type Prop struct {
	Key string
	Val Value
}

// Plist is an insertion-ordered property list with unique keys.
type Plist []Prop

// NewPlist builds a plist from a flat key/value sequence. Keys must be
// strings and values must be Value implementations.
func NewPlist(kv ...any) (Plist, error) {
	if len(kv)%2 != 0 {
		return nil, ErrOddPlist
	}
	pl := make(Plist, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("property key %v is not a string", kv[i])
		}
		v, ok := kv[i+1].(Value)
		if !ok {
			return nil, fmt.Errorf("property value for %q is not a Value", k)
		}
		pl = pl.put(k, v)
	}
	return pl, nil
}

// MustPlist is NewPlist for literals known to be well formed.
func MustPlist(kv ...any) Plist {
	pl, err := NewPlist(kv...)
	if err != nil {
		panic(err)
	}
	return pl
}

func (pl Plist) index(key string) int {
	for i := range pl {
		if pl[i].Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value bound to key.
func (pl Plist) Get(key string) (Value, bool) {
	if i := pl.index(key); i >= 0 {
		return pl[i].Val, true
	}
	return nil, false
}

// Has reports whether key is present, regardless of value.
func (pl Plist) Has(key string) bool {
	return pl.index(key) >= 0
}

// put binds key to val, overwriting an existing binding in place or
// appending a new one. Returns the possibly reallocated plist.
func (pl Plist) put(key string, val Value) Plist {
	if i := pl.index(key); i >= 0 {
		pl[i].Val = val
		return pl
	}
	return append(pl, Prop{Key: key, Val: val})
}

// Clone returns an independent copy of the plist.
func (pl Plist) Clone() Plist {
	if pl == nil {
		return nil
	}
	out := make(Plist, len(pl))
	copy(out, pl)
	return out
}

// Equal reports whether two plists bind the same keys to structurally
// equal values. Order is not significant.
func (pl Plist) Equal(other Plist) bool {
	if len(pl) != len(other) {
		return false
	}
	for _, p := range pl {
		v, ok := other.Get(p.Key)
		if !ok || !p.Val.Equal(v) {
			return false
		}
	}
	return true
}

// HasAll reports whether every key/value pair of query appears in pl
// with a structurally equal value.
func (pl Plist) HasAll(query Plist) bool {
	for _, q := range query {
		v, ok := pl.Get(q.Key)
		if !ok || !q.Val.Equal(v) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one key of query appears in pl,
// regardless of value.
func (pl Plist) HasAny(query Plist) bool {
	for _, q := range query {
		if pl.Has(q.Key) {
			return true
		}
	}
	return false
}
