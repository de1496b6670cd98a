package workspace

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/deskswap/internal/platform"
)

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := NewFileStorage(path)

	if _, err := s.Load(); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load on missing file: expected ErrStateNotFound, got %v", err)
	}

	mon := newMonitor(0)
	mon.DisplayHandle = 42
	work := newWorkspace("Work")
	work.Windows = []platform.WindowID{7, 8}
	mon.Workspaces = append(mon.Workspaces, work)
	mon.ActiveWorkspaceID = work.ID
	want := Collection{mon, newMonitor(1)}

	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("state file mode = %o, want 600", perm)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d monitors, want 2", len(got))
	}
	if got[0].ActiveWorkspaceID != work.ID || got[0].DisplayHandle != 42 {
		t.Errorf("monitor 0 = %+v", got[0])
	}
	_, ws := got.FindWorkspace(work.ID)
	if ws == nil || ws.Name != "Work" || !sameWindows(ws.Windows, []platform.WindowID{7, 8}) {
		t.Errorf("Work workspace = %+v", ws)
	}
	if got[1].Workspaces[0].Windows == nil {
		t.Error("empty window lists should decode as empty slices")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the state file, found %d entries", len(entries))
	}
}

func TestFileStorageSaveOfLoadIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStorage(path)

	mon := newMonitor(0)
	mon.DisplayHandle = 7
	chat := newWorkspace("Chat")
	chat.Windows = []platform.WindowID{3, 1, 2}
	mon.Workspaces = append(mon.Workspaces, chat)
	if err := s.Save(Collection{mon, newMonitor(1)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Save(loaded); err != nil {
		t.Fatalf("Save loaded: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("re-saving loaded state changed the file:\n%s\nvs\n%s", first, second)
	}
}

func TestFileStorageCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := NewFileStorage(path).Load()
	if !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
	var corrupt *CorruptStateError
	if !errors.As(err, &corrupt) || corrupt.Path != path {
		t.Errorf("expected *CorruptStateError for %s, got %v", path, err)
	}
}

func TestFileStorageRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "monitors": []}`), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := NewFileStorage(path).Load(); !errors.Is(err, ErrCorruptState) {
		t.Errorf("expected ErrCorruptState, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	shared := newWorkspace("shared")

	tests := []struct {
		name    string
		build   func() Collection
		wantErr bool
	}{
		{"empty", func() Collection { return nil }, false},
		{"fresh", func() Collection { return Collection{newMonitor(0), newMonitor(1)} }, false},
		{"id out of position", func() Collection { return Collection{newMonitor(1)} }, true},
		{"no workspaces", func() Collection {
			m := newMonitor(0)
			m.Workspaces = nil
			return Collection{m}
		}, true},
		{"dangling active", func() Collection {
			m := newMonitor(0)
			m.ActiveWorkspaceID = newWorkspace("x").ID
			return Collection{m}
		}, true},
		{"duplicate workspace id", func() Collection {
			a, b := newMonitor(0), newMonitor(1)
			a.Workspaces = append(a.Workspaces, shared)
			b.Workspaces = append(b.Workspaces, shared)
			return Collection{a, b}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.build())
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
