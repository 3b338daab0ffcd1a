package session

import (
	"testing"
)

func TestSessionRoundTrip(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.SetFileState("/tmp/a.go", FileState{Point: 42, Scroll: 7})
	m.Stop()

	m2, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m2.Stop()

	st, ok := m2.GetFileState("/tmp/a.go")
	if !ok {
		t.Fatal("file state not persisted")
	}
	if st.Point != 42 || st.Scroll != 7 {
		t.Fatalf("state = %+v, want Point 42 Scroll 7", st)
	}
	if m2.GetActiveFile() != "/tmp/a.go" {
		t.Fatalf("ActiveFile = %q", m2.GetActiveFile())
	}
}

func TestGetFileStateUnknown(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Stop()

	if _, ok := m.GetFileState("/nowhere"); ok {
		t.Fatal("unknown file reported a state")
	}
}

func TestSaveSkipsWhenClean(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Stop()

	if err := m.Save(); err != nil {
		t.Fatalf("Save on clean session: %v", err)
	}
}
