package workspace

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/1broseidon/deskswap/internal/platform"
)

func TestSwitchRoundTrip(t *testing.T) {
	f := initialized(t)
	f.backend.AddWindow(appWindow(1, leftDisplay))
	f.backend.AddWindow(appWindow(2, leftDisplay))
	work := f.addWorkspace(t, 0, "Work")
	defaultID := f.manager.Monitors()[0].Workspaces[0].ID

	res := f.switchNext(t)
	if res.NoOp || res.MonitorID != 0 || res.From != defaultID || res.To != work {
		t.Fatalf("unexpected first switch result: %+v", res)
	}
	if !sameWindows(res.Hidden, []platform.WindowID{1, 2}) {
		t.Errorf("hidden = %v, want [1 2]", res.Hidden)
	}
	if !sameWindows(f.workspace(t, defaultID).Windows, []platform.WindowID{1, 2}) {
		t.Errorf("Default windows = %v, want [1 2]", f.workspace(t, defaultID).Windows)
	}
	for _, w := range []platform.WindowID{1, 2} {
		got, _ := f.backend.Window(w)
		if got.Visible || got.Enabled {
			t.Errorf("window %d should be hidden and disabled: %+v", w, got)
		}
	}

	f.backend.AddWindow(appWindow(3, leftDisplay))
	res = f.switchNext(t)
	if res.From != work || res.To != defaultID {
		t.Fatalf("unexpected second switch result: %+v", res)
	}
	if !sameWindows(f.workspace(t, work).Windows, []platform.WindowID{3}) {
		t.Errorf("Work windows = %v, want [3]", f.workspace(t, work).Windows)
	}
	if !sameWindows(res.Shown, []platform.WindowID{1, 2}) {
		t.Errorf("shown = %v, want [1 2]", res.Shown)
	}
	if f.visible(t, 3) || !f.visible(t, 1) || !f.visible(t, 2) {
		t.Error("expected 3 hidden and 1, 2 visible after switching back")
	}
	if got := f.manager.Monitors()[0].ActiveWorkspaceID; got != defaultID {
		t.Errorf("active = %s, want Default", got)
	}
}

func TestSwitchCyclesInOrder(t *testing.T) {
	f := initialized(t)
	ids := []uuid.UUID{
		f.manager.Monitors()[0].Workspaces[0].ID,
		f.addWorkspace(t, 0, "b"),
		f.addWorkspace(t, 0, "c"),
	}

	for i := 1; i <= 6; i++ {
		res := f.switchNext(t)
		if want := ids[i%len(ids)]; res.To != want {
			t.Fatalf("switch %d: to = %s, want %s", i, res.To, want)
		}
	}
}

func TestSwitchOnlyTouchesCursorDisplay(t *testing.T) {
	f := initialized(t)
	f.backend.AddWindow(appWindow(1, leftDisplay))
	f.backend.AddWindow(appWindow(2, rightDisplay))
	f.addWorkspace(t, 0, "")
	f.addWorkspace(t, 1, "")

	f.switchNext(t)

	if f.visible(t, 1) {
		t.Error("left window should be hidden")
	}
	if !f.visible(t, 2) {
		t.Error("right window should be untouched")
	}
	right := f.manager.Monitors()[1]
	if right.ActiveWorkspaceID != right.Workspaces[0].ID {
		t.Error("right monitor's active workspace should not change")
	}
}

func TestSwitchSingleWorkspaceReshows(t *testing.T) {
	f := initialized(t)
	f.backend.AddWindow(appWindow(1, leftDisplay))

	res := f.switchNext(t)
	if res.From != res.To {
		t.Fatalf("single workspace should switch to itself: %+v", res)
	}
	want := []string{"hide:1", "disable:1", "show:1", "enable:1"}
	if len(f.backend.Calls) != len(want) {
		t.Fatalf("calls = %v, want %v", f.backend.Calls, want)
	}
	for i := range want {
		if f.backend.Calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", f.backend.Calls, want)
		}
	}
	if !f.visible(t, 1) {
		t.Error("window should end visible")
	}
}

func TestSwitchWithoutFocusedMonitorIsNoOp(t *testing.T) {
	f := initialized(t)
	f.backend.AddWindow(appWindow(1, leftDisplay))
	f.addWorkspace(t, 0, "")
	before := f.manager.Monitors()
	saves := f.storage.Saves()

	f.backend.SetCursor(offGrid, false)
	res := f.switchNext(t)
	if !res.NoOp {
		t.Errorf("expected NoOp, got %+v", res)
	}
	if len(f.backend.Calls) != 0 {
		t.Errorf("expected no window actions, got %v", f.backend.Calls)
	}
	if f.storage.Saves() != saves {
		t.Error("no-op switch should not persist")
	}
	if f.manager.Monitors()[0].ActiveWorkspaceID != before[0].ActiveWorkspaceID {
		t.Error("active workspace changed on no-op")
	}
}

func TestSwitchToleratesClosedWindows(t *testing.T) {
	f := initialized(t)
	f.backend.AddWindow(appWindow(1, leftDisplay))
	f.backend.AddWindow(appWindow(2, leftDisplay))
	f.addWorkspace(t, 0, "")

	f.switchNext(t)
	f.backend.CloseWindow(2)

	res := f.switchNext(t)
	if !sameWindows(res.Shown, []platform.WindowID{1}) {
		t.Errorf("shown = %v, want [1]", res.Shown)
	}
}

func TestSwitchRefusedDuringEdit(t *testing.T) {
	f := initialized(t)
	f.addWorkspace(t, 0, "")
	session, err := f.manager.BeginEdit("tui")
	if err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}

	before := f.manager.Monitors()[0].ActiveWorkspaceID
	if _, err := f.manager.SwitchToNextWorkspace(); !errors.Is(err, ErrEditInProgress) {
		t.Fatalf("expected ErrEditInProgress, got %v", err)
	}
	if f.manager.Monitors()[0].ActiveWorkspaceID != before {
		t.Error("switch should not change state during an edit session")
	}

	if err := f.manager.EndEdit(session.Token); err != nil {
		t.Fatalf("EndEdit: %v", err)
	}
	if res := f.switchNext(t); res.NoOp {
		t.Error("switch should work after the session ends")
	}
}

// A window hidden by one workspace and revealed outside the app is captured
// again by whichever workspace is active. By default it stays tracked by
// both; with StealTrackedWindows it moves.
func TestSwitchDuplicateTracking(t *testing.T) {
	tests := []struct {
		name       string
		steal      bool
		wantOwners int
	}{
		{"default keeps both", false, 2},
		{"steal moves window", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := initialized(t)
			f.manager.SetStealTrackedWindows(tt.steal)
			f.backend.AddWindow(appWindow(1, leftDisplay))
			f.addWorkspace(t, 0, "")

			f.switchNext(t)
			if err := f.backend.SetWindowVisible(1, true); err != nil {
				t.Fatalf("SetWindowVisible: %v", err)
			}
			f.switchNext(t)

			owners := f.manager.Monitors().Owners(1)
			if len(owners) != tt.wantOwners {
				t.Errorf("window tracked by %d workspaces, want %d", len(owners), tt.wantOwners)
			}
			if err := Validate(f.manager.Monitors()); err != nil {
				t.Errorf("invariants violated: %v", err)
			}
		})
	}
}
