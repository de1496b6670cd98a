package workspace

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/1broseidon/deskswap/internal/platform"
)

func TestAddWorkspaceNaming(t *testing.T) {
	f := initialized(t)

	first := f.addWorkspace(t, 0, "")
	second := f.addWorkspace(t, 0, "  ")
	named := f.addWorkspace(t, 0, "Mail")

	tests := []struct {
		id   uuid.UUID
		want string
	}{
		{first, "Workspace 1"},
		{second, "Workspace 2"},
		{named, "Mail"},
	}
	for _, tt := range tests {
		if got := f.workspace(t, tt.id).Name; got != tt.want {
			t.Errorf("workspace %s: name %q, want %q", tt.id, got, tt.want)
		}
	}

	if first == second || second == named {
		t.Error("workspace ids should be unique")
	}
	if got := len(f.manager.Monitors()[0].Workspaces); got != 4 {
		t.Errorf("expected 4 workspaces, got %d", got)
	}
}

func TestAddWorkspaceUnknownMonitor(t *testing.T) {
	f := initialized(t)

	for _, id := range []int{-1, 2, 10} {
		if _, err := f.manager.AddWorkspaceToMonitor(id, "x"); !errors.Is(err, ErrMonitorNotFound) {
			t.Errorf("monitor %d: expected ErrMonitorNotFound, got %v", id, err)
		}
	}
}

func TestAddWorkspaceToFocusedMonitor(t *testing.T) {
	f := initialized(t)

	f.backend.SetCursor(onRight, false)
	id, ok, err := f.manager.AddWorkspaceToFocusedMonitor("")
	if err != nil || !ok {
		t.Fatalf("AddWorkspaceToFocusedMonitor: ok=%v err=%v", ok, err)
	}
	mon, ws := f.manager.Monitors().FindWorkspace(id)
	if mon == nil || mon.ID != 1 {
		t.Fatalf("workspace added to wrong monitor: %+v", mon)
	}
	if ws.Name != "Workspace 1" {
		t.Errorf("name = %q, want %q", ws.Name, "Workspace 1")
	}

	saves := f.storage.Saves()
	f.backend.SetCursor(offGrid, false)
	id, ok, err = f.manager.AddWorkspaceToFocusedMonitor("ignored")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || id != uuid.Nil {
		t.Errorf("expected no-op without a focused monitor, got ok=%v id=%s", ok, id)
	}
	if f.storage.Saves() != saves {
		t.Error("no-op add should not persist")
	}
}

func TestRenameWorkspace(t *testing.T) {
	f := initialized(t)
	id := f.addWorkspace(t, 1, "Old")

	ok, err := f.manager.RenameWorkspace(id, "New")
	if err != nil || !ok {
		t.Fatalf("RenameWorkspace: ok=%v err=%v", ok, err)
	}
	if got := f.workspace(t, id).Name; got != "New" {
		t.Errorf("name = %q, want New", got)
	}

	ok, err = f.manager.RenameWorkspace(uuid.New(), "Nope")
	if err != nil || ok {
		t.Errorf("unknown id: ok=%v err=%v, want false, nil", ok, err)
	}
}

func TestRemoveActiveWorkspaceReassignsAndReveals(t *testing.T) {
	f := initialized(t)
	f.backend.AddWindow(appWindow(1, leftDisplay))
	f.backend.AddWindow(appWindow(2, leftDisplay))

	work := f.addWorkspace(t, 0, "Work")
	f.addWorkspace(t, 0, "Play")

	// Default -> Work: windows 1 and 2 go into Default and are hidden.
	f.switchNext(t)
	defaultID := f.manager.Monitors()[0].Workspaces[0].ID

	// Work is active; remove it, then remove Default which holds the windows.
	ok, err := f.manager.RemoveWorkspace(work)
	if err != nil || !ok {
		t.Fatalf("RemoveWorkspace(Work): ok=%v err=%v", ok, err)
	}
	mon := f.manager.Monitors()[0]
	if mon.ActiveWorkspaceID != defaultID {
		t.Errorf("active = %s, want first remaining workspace %s", mon.ActiveWorkspaceID, defaultID)
	}

	ok, err = f.manager.RemoveWorkspace(defaultID)
	if err != nil || !ok {
		t.Fatalf("RemoveWorkspace(Default): ok=%v err=%v", ok, err)
	}
	mon = f.manager.Monitors()[0]
	if len(mon.Workspaces) != 1 || mon.Workspaces[0].Name != "Play" {
		t.Fatalf("unexpected workspaces: %+v", mon.Workspaces)
	}
	if mon.ActiveWorkspaceID != mon.Workspaces[0].ID {
		t.Error("active pointer should move to Play")
	}
	for _, w := range []platform.WindowID{1, 2} {
		if !f.visible(t, w) {
			t.Errorf("window %d should be revealed when its workspace is removed", w)
		}
	}
	if err := Validate(f.manager.Monitors()); err != nil {
		t.Errorf("invariants violated: %v", err)
	}
}

func TestRemoveLastWorkspaceRefused(t *testing.T) {
	f := initialized(t)
	only := f.manager.Monitors()[0].Workspaces[0].ID
	saves := f.storage.Saves()

	ok, err := f.manager.RemoveWorkspace(only)
	if !errors.Is(err, ErrLastWorkspace) || ok {
		t.Fatalf("expected ErrLastWorkspace, got ok=%v err=%v", ok, err)
	}
	if len(f.manager.Monitors()[0].Workspaces) != 1 {
		t.Error("workspace should not have been removed")
	}
	if f.storage.Saves() != saves {
		t.Error("refused removal should not persist")
	}

	ok, err = f.manager.RemoveWorkspace(uuid.New())
	if ok || err != nil {
		t.Errorf("unknown id: ok=%v err=%v, want false, nil", ok, err)
	}
}

func TestResetRevealsEverything(t *testing.T) {
	f := initialized(t)
	for i := platform.WindowID(1); i <= 3; i++ {
		f.backend.AddWindow(appWindow(i, leftDisplay))
	}
	f.backend.AddWindow(appWindow(4, rightDisplay))
	f.addWorkspace(t, 0, "")
	f.addWorkspace(t, 1, "")

	f.switchNext(t)
	f.backend.SetCursor(onRight, false)
	f.switchNext(t)

	for i := platform.WindowID(1); i <= 4; i++ {
		if f.visible(t, i) {
			t.Fatalf("window %d should be hidden before reset", i)
		}
	}

	saves := f.storage.Saves()
	if err := f.manager.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	for i := platform.WindowID(1); i <= 4; i++ {
		w, _ := f.backend.Window(i)
		if !w.Visible || !w.Enabled {
			t.Errorf("window %d not revealed: %+v", i, w)
		}
	}
	for _, mon := range f.manager.Monitors() {
		for _, ws := range mon.Workspaces {
			if len(ws.Windows) != 0 {
				t.Errorf("workspace %q not cleared: %v", ws.Name, ws.Windows)
			}
		}
	}
	if got := f.storage.Saves() - saves; got != 1 {
		t.Errorf("Reset persisted %d times, want 1", got)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	f := initialized(t)
	f.backend.AddWindow(appWindow(1, leftDisplay))
	f.backend.AddWindow(appWindow(2, rightDisplay))
	f.addWorkspace(t, 0, "Mail")
	f.addWorkspace(t, 1, "Chat")
	f.switchNext(t)
	f.backend.SetCursor(onRight, false)
	f.switchNext(t)

	if err := f.manager.Reset(); err != nil {
		t.Fatalf("first Reset: %v", err)
	}
	first := f.storage.Raw()

	if err := f.manager.Reset(); err != nil {
		t.Fatalf("second Reset: %v", err)
	}
	if second := f.storage.Raw(); !bytes.Equal(first, second) {
		t.Errorf("second Reset changed stored state:\n%s\nvs\n%s", first, second)
	}
	for i := platform.WindowID(1); i <= 2; i++ {
		w, _ := f.backend.Window(i)
		if !w.Visible || !w.Enabled {
			t.Errorf("window %d not revealed: %+v", i, w)
		}
	}
}

func TestPruneStaleWindows(t *testing.T) {
	f := initialized(t)
	f.backend.AddWindow(appWindow(1, leftDisplay))
	f.backend.AddWindow(appWindow(2, leftDisplay))
	f.addWorkspace(t, 0, "")
	f.switchNext(t)

	saves := f.storage.Saves()
	n, err := f.manager.PruneStaleWindows()
	if err != nil || n != 0 {
		t.Fatalf("nothing to prune: n=%d err=%v", n, err)
	}
	if f.storage.Saves() != saves {
		t.Error("prune without changes should not persist")
	}

	f.backend.CloseWindow(2)
	n, err = f.manager.PruneStaleWindows()
	if err != nil || n != 1 {
		t.Fatalf("PruneStaleWindows: n=%d err=%v, want 1", n, err)
	}
	if got := f.manager.Monitors()[0].Workspaces[0].Windows; !sameWindows(got, []platform.WindowID{1}) {
		t.Errorf("windows = %v, want [1]", got)
	}
	if f.storage.Saves() != saves+1 {
		t.Error("prune should persist once")
	}
}

func TestMutationsPersist(t *testing.T) {
	f := initialized(t)

	steps := []struct {
		name string
		run  func() error
	}{
		{"add", func() error { _, err := f.manager.AddWorkspaceToMonitor(0, "a"); return err }},
		{"rename", func() error {
			_, err := f.manager.RenameWorkspace(f.manager.Monitors()[0].Workspaces[1].ID, "b")
			return err
		}},
		{"switch", func() error { _, err := f.manager.SwitchToNextWorkspace(); return err }},
		{"remove", func() error {
			_, err := f.manager.RemoveWorkspace(f.manager.Monitors()[0].Workspaces[1].ID)
			return err
		}},
		{"reset", f.manager.Reset},
	}

	for _, step := range steps {
		before := f.storage.Saves()
		if err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if f.storage.Saves() != before+1 {
			t.Errorf("%s: expected one save, got %d", step.name, f.storage.Saves()-before)
		}

		loaded, err := f.storage.Load()
		if err != nil {
			t.Fatalf("%s: Load: %v", step.name, err)
		}
		if err := Validate(loaded); err != nil {
			t.Errorf("%s: persisted state invalid: %v", step.name, err)
		}
	}
}

func TestMonitorsReturnsCopy(t *testing.T) {
	f := initialized(t)

	snapshot := f.manager.Monitors()
	snapshot[0].Workspaces[0].Name = "mutated"
	snapshot[0].Workspaces = nil

	if got := f.manager.Monitors()[0].Workspaces[0].Name; got != DefaultWorkspaceName {
		t.Errorf("Monitors leaked internal state: name = %q", got)
	}
}
