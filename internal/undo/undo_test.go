package undo_test

import (
	"errors"
	"testing"

	"github.com/kobzarvs/textspan/internal/textstore"
	"github.com/kobzarvs/textspan/internal/undo"
)

func TestRecordInsertPlayback(t *testing.T) {
	b := textstore.New("t", "hello world")
	r := undo.NewRecorder()

	b.SetPoint(6)
	r.RecordInsert(b, 6, 3)
	b.Insert(6, "XYZ")
	if got := b.Contents(); got != "hello XYZworld" {
		t.Fatalf("Contents = %q", got)
	}

	if _, err := r.Play(b, 1, b.UndoList().Copy()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := b.Contents(); got != "hello world" {
		t.Fatalf("Contents after undo = %q", got)
	}
	if b.Point() != 6 {
		t.Fatalf("Point after undo = %d, want 6", b.Point())
	}
}

func TestRecordInsertCoalesces(t *testing.T) {
	b := textstore.New("t", "")
	r := undo.NewRecorder()

	r.RecordInsert(b, 1, 3)
	b.Insert(1, "abc")
	r.RecordInsert(b, 4, 3)
	b.Insert(4, "def")

	var inserts int
	for _, rec := range b.UndoList().Records() {
		if rec.Kind == undo.KindInsert {
			inserts++
			if rec.Beg != 1 || rec.End != 7 {
				t.Fatalf("coalesced record = [%d, %d), want [1, 7)", rec.Beg, rec.End)
			}
		}
	}
	if inserts != 1 {
		t.Fatalf("insert records = %d, want 1", inserts)
	}
}

func TestRecordInsertNoCoalesceAcrossGap(t *testing.T) {
	b := textstore.New("t", "0123456789")
	r := undo.NewRecorder()

	r.RecordInsert(b, 1, 2)
	b.Insert(1, "ab")
	r.RecordInsert(b, 7, 2)
	b.Insert(7, "cd")

	var inserts int
	for _, rec := range b.UndoList().Records() {
		if rec.Kind == undo.KindInsert {
			inserts++
		}
	}
	if inserts != 2 {
		t.Fatalf("insert records = %d, want 2", inserts)
	}
}

func TestRecordDeletePlaybackPointBefore(t *testing.T) {
	b := textstore.New("t", "abcxyzdef")
	r := undo.NewRecorder()

	b.SetPoint(1)
	r.RecordDelete(b, 4, 7)
	b.Delete(4, 7)
	if got := b.Contents(); got != "abcdef" {
		t.Fatalf("Contents = %q", got)
	}

	if _, err := r.Play(b, 1, b.UndoList().Copy()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := b.Contents(); got != "abcxyzdef" {
		t.Fatalf("Contents after undo = %q", got)
	}
	if b.Point() != 4 {
		t.Fatalf("Point after undo = %d, want 4", b.Point())
	}
}

func TestRecordDeletePlaybackPointAfter(t *testing.T) {
	b := textstore.New("t", "abcxyzdef")
	r := undo.NewRecorder()

	b.SetPoint(7)
	r.RecordDelete(b, 4, 7)
	b.Delete(4, 7)

	if _, err := r.Play(b, 1, b.UndoList().Copy()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if b.Point() != 7 {
		t.Fatalf("Point after undo = %d, want 7", b.Point())
	}
}

func TestPushBoundaryCollapses(t *testing.T) {
	b := textstore.New("t", "hello")
	r := undo.NewRecorder()

	r.PushBoundary(b)
	if !b.UndoList().Empty() {
		t.Fatal("boundary pushed onto empty list")
	}

	r.RecordInsert(b, 1, 1)
	b.Insert(1, "x")
	r.PushBoundary(b)
	r.PushBoundary(b)
	r.PushBoundary(b)

	var boundaries int
	for _, rec := range b.UndoList().Records() {
		if rec.Kind == undo.KindBoundary {
			boundaries++
		}
	}
	if boundaries != 1 {
		t.Fatalf("boundary records = %d, want 1", boundaries)
	}
}

func TestSkipBoundary(t *testing.T) {
	b := textstore.New("t", "hello")
	r := undo.NewRecorder()
	r.RecordInsert(b, 6, 1)
	b.Insert(6, "!")
	r.PushBoundary(b)

	c := b.UndoList().Copy()
	c.SkipBoundary()
	if c.Top().Kind == undo.KindBoundary {
		t.Fatal("boundary survived SkipBoundary")
	}
	before := c.Len()
	c.SkipBoundary()
	if c.Len() != before {
		t.Fatal("SkipBoundary removed a non-boundary record")
	}
}

func TestPlayGroups(t *testing.T) {
	b := textstore.New("t", "base")
	r := undo.NewRecorder()

	r.RecordInsert(b, 5, 4)
	b.Insert(5, "-one")
	r.PushBoundary(b)
	r.RecordInsert(b, 9, 4)
	b.Insert(9, "-two")

	if got := b.Contents(); got != "base-one-two" {
		t.Fatalf("Contents = %q", got)
	}

	rest, err := r.Play(b, 1, b.UndoList().Copy())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := b.Contents(); got != "base-one" {
		t.Fatalf("Contents after one group = %q", got)
	}
	if _, err := r.Play(b, 1, rest); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := b.Contents(); got != "base" {
		t.Fatalf("Contents after two groups = %q", got)
	}
}

func TestPlayRecordsRedo(t *testing.T) {
	b := textstore.New("t", "hello")
	r := undo.NewRecorder()

	b.SetPoint(6)
	r.RecordInsert(b, 6, 6)
	b.Insert(6, " world")
	r.PushBoundary(b)

	// Undo through a detached copy; the inverse delete lands on the
	// live list.
	pending := b.UndoList().Copy()
	pending.SkipBoundary()
	if _, err := r.Play(b, 1, pending); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := b.Contents(); got != "hello" {
		t.Fatalf("Contents after undo = %q", got)
	}
	r.PushBoundary(b)

	// Undoing the newest group of the live list redoes the insertion.
	redo := b.UndoList().Copy()
	redo.SkipBoundary()
	if _, err := r.Play(b, 1, redo); err != nil {
		t.Fatalf("redo Play: %v", err)
	}
	if got := b.Contents(); got != "hello world" {
		t.Fatalf("Contents after redo = %q", got)
	}
}

func TestFirstChangeRestoresCleanFlag(t *testing.T) {
	b := textstore.New("t", "hello")
	b.MarkSaved()
	r := undo.NewRecorder()

	r.RecordInsert(b, 6, 1)
	b.Insert(6, "!")
	if !b.Modified() {
		t.Fatal("buffer not modified after edit")
	}

	if _, err := r.Play(b, 1, b.UndoList().Copy()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if b.Modified() {
		t.Fatal("clean flag not restored by first-change record")
	}
	if got := b.Contents(); got != "hello" {
		t.Fatalf("Contents = %q", got)
	}
}

func TestFirstChangeStaleTimestamp(t *testing.T) {
	b := textstore.New("t", "hello")
	b.MarkSaved()
	r := undo.NewRecorder()

	r.RecordInsert(b, 6, 1)
	b.Insert(6, "!")

	// Saving again leaves the first-change record holding an outdated
	// timestamp, so playback must not restore the clean flag.
	b.MarkSaved()

	if _, err := r.Play(b, 1, b.UndoList().Copy()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := b.Contents(); got != "hello" {
		t.Fatalf("Contents = %q", got)
	}
	if !b.Modified() {
		t.Fatal("stale first-change record restored the clean flag")
	}
}

func TestDisabledList(t *testing.T) {
	b := textstore.New("t", "hello")
	b.SetUndoList(undo.Disabled)
	r := undo.NewRecorder()

	r.RecordInsert(b, 1, 3)
	r.PushBoundary(b)
	if undo.Disabled.Len() != 0 {
		t.Fatalf("disabled list grew to %d records", undo.Disabled.Len())
	}
	if _, err := r.Play(b, 1, b.UndoList()); !errors.Is(err, undo.ErrDisabled) {
		t.Fatalf("Play on disabled list = %v, want ErrDisabled", err)
	}
}

func TestPlayOutsideVisibleBounds(t *testing.T) {
	b := textstore.New("t", "hello world")
	r := undo.NewRecorder()

	r.RecordInsert(b, 6, 3)
	b.Insert(6, "XYZ")
	b.Narrow(1, 4)

	if _, err := r.Play(b, 1, b.UndoList().Copy()); !errors.Is(err, undo.ErrRange) {
		t.Fatalf("Play outside narrowing = %v, want ErrRange", err)
	}
}

func TestCopyIsDetached(t *testing.T) {
	b := textstore.New("t", "hello")
	r := undo.NewRecorder()
	r.RecordInsert(b, 1, 2)
	b.Insert(1, "ab")

	c := b.UndoList().Copy()
	r.RecordInsert(b, 4, 2)
	b.Insert(4, "cd")
	if c.Len() == b.UndoList().Len() {
		t.Fatal("copy tracks the live list")
	}
}

func TestTruncateUnchangedUnderCaps(t *testing.T) {
	b := textstore.New("t", "hello")
	r := undo.NewRecorder()
	r.RecordInsert(b, 1, 2)
	b.Insert(1, "ab")
	r.PushBoundary(b)

	before := b.UndoList().Len()
	got := undo.Truncate(b.UndoList(), 1<<20, 1<<21)
	if got.Len() != before {
		t.Fatalf("Truncate dropped records under the caps: %d -> %d", before, got.Len())
	}
}

func TestTruncateCutsOldGroups(t *testing.T) {
	b := textstore.New("t", "")
	r := undo.NewRecorder()

	// Many groups, each one insert plus a boundary.
	pos := 1
	for g := 0; g < 50; g++ {
		r.RecordInsert(b, pos, 3)
		b.Insert(pos, "abc")
		pos += 3
		r.PushBoundary(b)
	}

	before := b.UndoList().Len()
	got := undo.Truncate(b.UndoList(), 64, 1<<20)
	if got.Len() >= before {
		t.Fatalf("Truncate kept all %d records", before)
	}
	if got.Empty() {
		t.Fatal("Truncate dropped everything")
	}
	// The newest group must always survive.
	recs := got.Records()
	var newestInserts int
	for _, rec := range recs {
		if rec.Kind == undo.KindInsert {
			newestInserts++
		}
	}
	if newestInserts == 0 {
		t.Fatal("newest group lost its insert record")
	}
	// The cut lands on a boundary, so the oldest kept record is one.
	if recs[0].Kind != undo.KindBoundary {
		t.Fatalf("oldest kept record = %v, want boundary", recs[0].Kind)
	}
}

func TestTruncateDropsUnboundedHeadChain(t *testing.T) {
	l := undo.NewList()
	// One giant delete record and no boundary anywhere.
	l.Push(undo.Record{Kind: undo.KindDelete, Text: string(make([]byte, 4096)), Pos: 1})

	got := undo.Truncate(l, 16, 64)
	if !got.Empty() {
		t.Fatalf("unbounded head chain survived with %d records", got.Len())
	}
}

func TestTruncateKeepsFirstGroupOverMinsize(t *testing.T) {
	l := undo.NewList()
	l.Push(undo.Record{Kind: undo.KindBoundary})
	l.Push(undo.Record{Kind: undo.KindDelete, Text: string(make([]byte, 512)), Pos: 1})
	l.Push(undo.Record{Kind: undo.KindBoundary})

	got := undo.Truncate(l, 16, 1<<20)
	var deletes int
	for _, rec := range got.Records() {
		if rec.Kind == undo.KindDelete {
			deletes++
		}
	}
	if deletes != 1 {
		t.Fatalf("first group not preserved: %v records", got.Len())
	}
}
