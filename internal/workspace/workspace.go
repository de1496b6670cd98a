package workspace

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/1broseidon/deskswap/internal/platform"
)

// DefaultWorkspaceName names the workspace every monitor gets on first discovery.
const DefaultWorkspaceName = "Default"

// Workspace is a named set of windows. The list is overwritten with the
// monitor's visible windows when the workspace is switched away from and is
// kept, now visible, when the workspace becomes active again.
type Workspace struct {
	ID      uuid.UUID           `json:"id"`
	Name    string              `json:"name"`
	Windows []platform.WindowID `json:"windows"`
}

// Monitor is the model of one display and its workspaces.
type Monitor struct {
	// ID is the monitor's position in the collection and the ordinal of the
	// display it binds to.
	ID                int                    `json:"id"`
	DisplayHandle     platform.DisplayHandle `json:"display_handle"`
	ActiveWorkspaceID uuid.UUID              `json:"active_workspace_id"`
	Workspaces        []*Workspace           `json:"workspaces"`
}

// Collection is the full ordered set of monitors.
type Collection []*Monitor

func newWorkspace(name string) *Workspace {
	return &Workspace{
		ID:      uuid.New(),
		Name:    name,
		Windows: []platform.WindowID{},
	}
}

func newMonitor(id int) *Monitor {
	ws := newWorkspace(DefaultWorkspaceName)
	return &Monitor{
		ID:                id,
		ActiveWorkspaceID: ws.ID,
		Workspaces:        []*Workspace{ws},
	}
}

// Detached reports whether the monitor has no display bound this run.
func (m *Monitor) Detached() bool {
	return m.DisplayHandle == 0
}

// Active returns the active workspace, or nil if the pointer dangles.
func (m *Monitor) Active() *Workspace {
	if i := m.indexOf(m.ActiveWorkspaceID); i >= 0 {
		return m.Workspaces[i]
	}
	return nil
}

// Next returns the workspace after the active one, wrapping to the first.
// A single-workspace monitor returns its only workspace.
func (m *Monitor) Next() *Workspace {
	if len(m.Workspaces) == 0 {
		return nil
	}
	i := m.indexOf(m.ActiveWorkspaceID)
	return m.Workspaces[(i+1)%len(m.Workspaces)]
}

func (m *Monitor) indexOf(id uuid.UUID) int {
	for i, ws := range m.Workspaces {
		if ws.ID == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) clone() *Workspace {
	out := *w
	out.Windows = append([]platform.WindowID{}, w.Windows...)
	return &out
}

func (m *Monitor) clone() *Monitor {
	out := *m
	out.Workspaces = make([]*Workspace, len(m.Workspaces))
	for i, ws := range m.Workspaces {
		out.Workspaces[i] = ws.clone()
	}
	return &out
}

// Clone returns a deep copy.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, m := range c {
		out[i] = m.clone()
	}
	return out
}

// FindWorkspace returns the workspace with the given id and its monitor.
func (c Collection) FindWorkspace(id uuid.UUID) (*Monitor, *Workspace) {
	for _, m := range c {
		if i := m.indexOf(id); i >= 0 {
			return m, m.Workspaces[i]
		}
	}
	return nil, nil
}

// ForDisplay returns the monitor bound to the display handle.
func (c Collection) ForDisplay(handle platform.DisplayHandle) *Monitor {
	if handle == 0 {
		return nil
	}
	for _, m := range c {
		if m.DisplayHandle == handle {
			return m
		}
	}
	return nil
}

// Owners returns the ids of every workspace tracking the window.
func (c Collection) Owners(window platform.WindowID) []uuid.UUID {
	var out []uuid.UUID
	for _, m := range c {
		for _, ws := range m.Workspaces {
			for _, w := range ws.Windows {
				if w == window {
					out = append(out, ws.ID)
					break
				}
			}
		}
	}
	return out
}

// untrack removes the windows from every workspace except keep.
func (c Collection) untrack(windows []platform.WindowID, keep *Workspace) int {
	drop := make(map[platform.WindowID]struct{}, len(windows))
	for _, w := range windows {
		drop[w] = struct{}{}
	}

	removed := 0
	for _, m := range c {
		for _, ws := range m.Workspaces {
			if ws == keep {
				continue
			}
			kept := ws.Windows[:0]
			for _, w := range ws.Windows {
				if _, ok := drop[w]; ok {
					removed++
					continue
				}
				kept = append(kept, w)
			}
			ws.Windows = kept
		}
	}
	return removed
}

// Validate checks the structural invariants of a collection: monitor ids
// match their positions, every monitor has at least one workspace, active
// pointers resolve, and workspace ids are unique.
func Validate(c Collection) error {
	seen := make(map[uuid.UUID]int)
	for i, m := range c {
		if m == nil {
			return fmt.Errorf("monitor %d: missing", i)
		}
		if m.ID != i {
			return fmt.Errorf("monitor %d: id %d does not match its position", i, m.ID)
		}
		if len(m.Workspaces) == 0 {
			return fmt.Errorf("monitor %d: has no workspaces", i)
		}
		for _, ws := range m.Workspaces {
			if ws == nil {
				return fmt.Errorf("monitor %d: nil workspace", i)
			}
			if ws.ID == uuid.Nil {
				return fmt.Errorf("monitor %d: workspace %q has no id", i, ws.Name)
			}
			if owner, dup := seen[ws.ID]; dup {
				return fmt.Errorf("monitor %d: workspace id %s already used on monitor %d", i, ws.ID, owner)
			}
			seen[ws.ID] = i
		}
		if m.Active() == nil {
			return fmt.Errorf("monitor %d: active workspace %s is not one of its workspaces", i, m.ActiveWorkspaceID)
		}
	}
	return nil
}
