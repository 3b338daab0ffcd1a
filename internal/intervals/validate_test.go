package intervals

import (
	"errors"
	"testing"
)

func TestValidatePointProbeSoftOnBareOwner(t *testing.T) {
	s := NewText("hello")
	p := 2
	i, err := Validate(s, &p, &p, Soft)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if i != nil {
		t.Fatal("soft probe allocated an interval")
	}
}

func TestValidateHardAllocatesRoot(t *testing.T) {
	s := NewText("hello")
	b, e := 0, 5
	i, err := Validate(s, &b, &e, Hard)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if i == nil || i.Position() != 0 || i.Length() != 5 {
		t.Fatalf("root = %+v, want [0, 5)", i)
	}
}

func TestValidateEmptyRange(t *testing.T) {
	s := NewText("hello")
	b, e := 3, 3
	i, err := Validate(s, &b, &e, Hard)
	if err != nil || i != nil {
		t.Fatalf("empty range = %v, %v; want nil, nil", i, err)
	}
	if !s.Intervals().Empty() {
		t.Fatal("empty range allocated a tree")
	}
}

func TestValidateSwapsReversedRange(t *testing.T) {
	s := NewText("hello")
	b, e := 4, 1
	if _, err := Validate(s, &b, &e, Hard); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if b != 1 || e != 4 {
		t.Fatalf("bounds = (%d, %d), want (1, 4)", b, e)
	}
}

func TestValidateRangeError(t *testing.T) {
	s := NewText("hello")
	b, e := 0, 6
	if _, err := Validate(s, &b, &e, Hard); !errors.Is(err, ErrRange) {
		t.Fatalf("err = %v, want ErrRange", err)
	}
	b, e = -1, 3
	if _, err := Validate(s, &b, &e, Hard); !errors.Is(err, ErrRange) {
		t.Fatalf("err = %v, want ErrRange", err)
	}
}

func TestValidateEmptyOwner(t *testing.T) {
	s := NewText("")
	b, e := 0, 0
	i, err := Validate(s, &b, &e, Hard)
	if err != nil || i != nil {
		t.Fatalf("empty owner = %v, %v; want nil, nil", i, err)
	}
}

func TestValidateEndPositionProbe(t *testing.T) {
	s := NewText("hello")
	b, e := 0, 5
	if _, err := Validate(s, &b, &e, Hard); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	s.Intervals().SplitRight(s.Intervals().find(0), 3)

	p := 5
	i, err := Validate(s, &p, &p, Soft)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if i == nil || i.Position() != 3 {
		t.Fatalf("end probe landed at %+v, want the last interval", i)
	}
}

func TestTextOwner(t *testing.T) {
	s := NewText("héllo")
	if s.Length() != 5 {
		t.Fatalf("Length = %d, want 5 characters", s.Length())
	}
	lo, hi := s.Bounds()
	if lo != 0 || hi != 5 {
		t.Fatalf("Bounds = (%d, %d), want (0, 5)", lo, hi)
	}
	if s.String() != "héllo" {
		t.Fatalf("String = %q", s.String())
	}
}
