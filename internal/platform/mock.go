package platform

import (
	"fmt"
	"sync"
)

// MockWindow is the state MockBackend keeps per window.
type MockWindow struct {
	ID       WindowID
	Title    string
	Visible  bool
	Enabled  bool
	Desktop  bool
	Display  DisplayHandle
	TitleBar Rect
}

// MockBackend is an in-memory Backend used by tests and dry runs.
type MockBackend struct {
	mu sync.Mutex

	displays []Display
	windows  map[WindowID]*MockWindow
	order    []WindowID

	cursor     Point
	buttonDown bool

	// Calls records every visibility/input action as "show:<id>", "hide:<id>",
	// "enable:<id>" or "disable:<id>".
	Calls []string
}

var _ Backend = (*MockBackend)(nil)

// NewMockBackend creates a mock backend with the given displays.
func NewMockBackend(displays ...Display) *MockBackend {
	return &MockBackend{
		displays: append([]Display(nil), displays...),
		windows:  make(map[WindowID]*MockWindow),
	}
}

// AddWindow registers a window. Windows are enumerated in insertion order.
func (m *MockBackend) AddWindow(w MockWindow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[w.ID]; !ok {
		m.order = append(m.order, w.ID)
	}
	copied := w
	m.windows[w.ID] = &copied
}

// CloseWindow removes a window as if the application exited.
func (m *MockBackend) CloseWindow(id WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, id)
	for i, wid := range m.order {
		if wid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// MoveWindow reassigns a window to another display.
func (m *MockBackend) MoveWindow(id WindowID, display DisplayHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[id]; ok {
		w.Display = display
	}
}

// SetDisplays replaces the attached displays.
func (m *MockBackend) SetDisplays(displays ...Display) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.displays = append([]Display(nil), displays...)
}

// SetCursor moves the pointer and sets the primary button state.
func (m *MockBackend) SetCursor(p Point, buttonDown bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = p
	m.buttonDown = buttonDown
}

// Window returns a copy of a window's state.
func (m *MockBackend) Window(id WindowID) (MockWindow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return MockWindow{}, false
	}
	return *w, true
}

// ResetCalls clears the recorded action log.
func (m *MockBackend) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
}

func (m *MockBackend) Displays() ([]Display, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Display(nil), m.displays...), nil
}

func (m *MockBackend) TopLevelWindows() ([]WindowID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]WindowID(nil), m.order...), nil
}

func (m *MockBackend) WindowExists(id WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.windows[id]
	return ok
}

func (m *MockBackend) WindowVisible(id WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	return ok && w.Visible
}

func (m *MockBackend) WindowTitle(id WindowID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[id]; ok {
		return w.Title
	}
	return ""
}

func (m *MockBackend) IsDesktopShell(id WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	return ok && w.Desktop
}

func (m *MockBackend) TitleBarRect(id WindowID) (Rect, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok || w.TitleBar.Empty() {
		return Rect{}, false
	}
	return w.TitleBar, true
}

func (m *MockBackend) WindowDisplay(id WindowID) (DisplayHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return 0, fmt.Errorf("window %d not found", id)
	}
	return w.Display, nil
}

func (m *MockBackend) SetWindowVisible(id WindowID, visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("window %d not found", id)
	}
	w.Visible = visible
	if visible {
		m.Calls = append(m.Calls, fmt.Sprintf("show:%d", id))
	} else {
		m.Calls = append(m.Calls, fmt.Sprintf("hide:%d", id))
	}
	return nil
}

func (m *MockBackend) SetWindowInputEnabled(id WindowID, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("window %d not found", id)
	}
	w.Enabled = enabled
	if enabled {
		m.Calls = append(m.Calls, fmt.Sprintf("enable:%d", id))
	} else {
		m.Calls = append(m.Calls, fmt.Sprintf("disable:%d", id))
	}
	return nil
}

func (m *MockBackend) CursorPosition() (Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor, nil
}

func (m *MockBackend) DisplayAt(p Point) (DisplayHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.displays {
		if d.Bounds.Contains(p) {
			return d.Handle, nil
		}
	}
	return 0, ErrNoDisplay
}

func (m *MockBackend) PrimaryButtonDown() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buttonDown, nil
}
