package workspace

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/1broseidon/deskswap/internal/platform"
)

const (
	leftDisplay  platform.DisplayHandle = 10
	rightDisplay platform.DisplayHandle = 20
)

var (
	onLeft  = platform.Point{X: 100, Y: 100}
	onRight = platform.Point{X: 2000, Y: 100}
	offGrid = platform.Point{X: -50, Y: -50}
)

func twoDisplays() []platform.Display {
	return []platform.Display{
		{Handle: leftDisplay, Name: "DP-1", Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{Handle: rightDisplay, Name: "DP-2", Bounds: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}},
	}
}

func appWindow(id platform.WindowID, display platform.DisplayHandle) platform.MockWindow {
	return platform.MockWindow{
		ID:      id,
		Title:   "window",
		Visible: true,
		Enabled: true,
		Display: display,
	}
}

type fixture struct {
	manager *Manager
	backend *platform.MockBackend
	storage *MemoryStorage
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	backend := opts.Backend.(*platform.MockBackend)
	storage, ok := opts.Persistence.(*MemoryStorage)
	if !ok {
		storage = NewMemoryStorage()
		opts.Persistence = storage
	}
	return &fixture{
		manager: NewManager(opts),
		backend: backend,
		storage: storage,
	}
}

// initialized returns a manager over two displays with the cursor on the
// left one.
func initialized(t *testing.T) *fixture {
	t.Helper()

	backend := platform.NewMockBackend(twoDisplays()...)
	backend.SetCursor(onLeft, false)
	f := newFixture(t, Options{Backend: backend})
	if err := f.manager.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	backend.ResetCalls()
	return f
}

func (f *fixture) addWorkspace(t *testing.T, monitor int, name string) uuid.UUID {
	t.Helper()
	id, err := f.manager.AddWorkspaceToMonitor(monitor, name)
	if err != nil {
		t.Fatalf("AddWorkspaceToMonitor(%d, %q): %v", monitor, name, err)
	}
	return id
}

func (f *fixture) switchNext(t *testing.T) SwitchResult {
	t.Helper()
	res, err := f.manager.SwitchToNextWorkspace()
	if err != nil {
		t.Fatalf("SwitchToNextWorkspace: %v", err)
	}
	return res
}

func (f *fixture) visible(t *testing.T, id platform.WindowID) bool {
	t.Helper()
	w, ok := f.backend.Window(id)
	if !ok {
		t.Fatalf("window %d not found", id)
	}
	return w.Visible
}

func (f *fixture) workspace(t *testing.T, id uuid.UUID) *Workspace {
	t.Helper()
	_, ws := f.manager.Monitors().FindWorkspace(id)
	if ws == nil {
		t.Fatalf("workspace %s not found", id)
	}
	return ws
}

func sameWindows(a, b []platform.WindowID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
