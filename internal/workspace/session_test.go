package workspace

import (
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/deskswap/internal/platform"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestEditSessionExclusive(t *testing.T) {
	m := NewManager(Options{Backend: platform.NewMockBackend()})

	s, err := m.BeginEdit("tui")
	if err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if s.Token == "" || s.Owner != "tui" {
		t.Errorf("unexpected session: %+v", s)
	}
	if _, err := m.BeginEdit("other"); !errors.Is(err, ErrEditInProgress) {
		t.Errorf("second BeginEdit: expected ErrEditInProgress, got %v", err)
	}
	if err := m.EndEdit("wrong"); !errors.Is(err, ErrNoEditSession) {
		t.Errorf("EndEdit(wrong): expected ErrNoEditSession, got %v", err)
	}
	if active, ok := m.ActiveEdit(); !ok || active.Token != s.Token {
		t.Errorf("ActiveEdit = %+v, %v", active, ok)
	}
	if err := m.EndEdit(s.Token); err != nil {
		t.Fatalf("EndEdit: %v", err)
	}
	if _, ok := m.ActiveEdit(); ok {
		t.Error("session should be closed")
	}
}

func TestEditSessionExpires(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(Options{
		Backend:            platform.NewMockBackend(),
		EditSessionTimeout: time.Minute,
		Now:                clock.Now,
	})

	s, err := m.BeginEdit("tui")
	if err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}

	clock.Advance(50 * time.Second)
	if err := m.TouchEdit(s.Token); err != nil {
		t.Fatalf("TouchEdit: %v", err)
	}

	clock.Advance(50 * time.Second)
	if _, ok := m.ActiveEdit(); !ok {
		t.Fatal("touched session should still be live")
	}

	clock.Advance(11 * time.Second)
	if _, ok := m.ActiveEdit(); ok {
		t.Fatal("idle session should expire")
	}
	if err := m.TouchEdit(s.Token); !errors.Is(err, ErrNoEditSession) {
		t.Errorf("TouchEdit after expiry: expected ErrNoEditSession, got %v", err)
	}
	if _, err := m.BeginEdit("again"); err != nil {
		t.Errorf("BeginEdit after expiry: %v", err)
	}
}
