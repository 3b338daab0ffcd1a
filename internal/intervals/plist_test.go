package intervals

import "testing"

func TestNewPlistOddLength(t *testing.T) {
	if _, err := NewPlist("face", Sym("keyword"), "dangling"); err != ErrOddPlist {
		t.Fatalf("err = %v, want %v", err, ErrOddPlist)
	}
}

func TestNewPlistRejectsBadKinds(t *testing.T) {
	if _, err := NewPlist(42, Sym("x")); err == nil {
		t.Fatal("non-string key accepted")
	}
	if _, err := NewPlist("k", "raw string"); err == nil {
		t.Fatal("non-Value value accepted")
	}
}

func TestNewPlistDeduplicatesKeys(t *testing.T) {
	pl := MustPlist("face", Sym("keyword"), "face", Sym("comment"))
	if len(pl) != 1 {
		t.Fatalf("len = %d, want 1", len(pl))
	}
	v, ok := pl.Get("face")
	if !ok || !v.Equal(Sym("comment")) {
		t.Fatalf("Get(face) = %v, %v; want comment", v, ok)
	}
}

func TestPlistGetHas(t *testing.T) {
	pl := MustPlist("face", Sym("string"), "weight", Num(2))
	if !pl.Has("weight") {
		t.Fatal("Has(weight) = false")
	}
	if pl.Has("missing") {
		t.Fatal("Has(missing) = true")
	}
	if _, ok := pl.Get("missing"); ok {
		t.Fatal("Get(missing) ok = true")
	}
}

func TestPlistEqualIgnoresOrder(t *testing.T) {
	a := MustPlist("face", Sym("string"), "weight", Num(2))
	b := MustPlist("weight", Num(2), "face", Sym("string"))
	if !a.Equal(b) {
		t.Fatal("order-swapped plists unequal")
	}
	c := MustPlist("face", Sym("string"))
	if a.Equal(c) {
		t.Fatal("different lengths compare equal")
	}
	d := MustPlist("face", Sym("comment"), "weight", Num(2))
	if a.Equal(d) {
		t.Fatal("different values compare equal")
	}
}

func TestValueEqualAcrossKinds(t *testing.T) {
	if Str("x").Equal(Sym("x")) {
		t.Fatal("Str equals Sym")
	}
	if !(Seq{Num(1), Str("a")}).Equal(Seq{Num(1), Str("a")}) {
		t.Fatal("equal Seqs unequal")
	}
	if (Seq{Num(1)}).Equal(Seq{Num(1), Num(2)}) {
		t.Fatal("Seqs of different lengths equal")
	}
}

func TestPlistHasAllHasAny(t *testing.T) {
	pl := MustPlist("face", Sym("string"), "weight", Num(2))
	if !pl.HasAll(MustPlist("face", Sym("string"))) {
		t.Fatal("HasAll subset = false")
	}
	if pl.HasAll(MustPlist("face", Sym("comment"))) {
		t.Fatal("HasAll with wrong value = true")
	}
	if !pl.HasAny(MustPlist("face", Sym("whatever"), "other", Num(0))) {
		t.Fatal("HasAny matching key = false")
	}
	if pl.HasAny(MustPlist("other", Num(0))) {
		t.Fatal("HasAny missing keys = true")
	}
}

func TestPlistCloneIsIndependent(t *testing.T) {
	a := MustPlist("face", Sym("string"))
	b := a.Clone()
	b[0].Val = Sym("comment")
	if v, _ := a.Get("face"); !v.Equal(Sym("string")) {
		t.Fatalf("clone mutation leaked: %v", v)
	}
}
