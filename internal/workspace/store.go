package workspace

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AddWorkspaceToMonitor appends a workspace to the monitor with the given id.
// An empty name becomes "Workspace N" where N is the count before adding.
func (m *Manager) AddWorkspaceToMonitor(monitorID int, name string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ready(); err != nil {
		return uuid.Nil, err
	}
	if monitorID < 0 || monitorID >= len(m.monitors) {
		return uuid.Nil, fmt.Errorf("%w: %d", ErrMonitorNotFound, monitorID)
	}
	return m.addWorkspace(m.monitors[monitorID], name)
}

// AddWorkspaceToFocusedMonitor appends a workspace to the monitor under the
// cursor. ok is false when no monitor is under the cursor.
func (m *Manager) AddWorkspaceToFocusedMonitor(name string) (id uuid.UUID, ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ready(); err != nil {
		return uuid.Nil, false, err
	}
	mon := m.focusedMonitor()
	if mon == nil {
		return uuid.Nil, false, nil
	}
	id, err = m.addWorkspace(mon, name)
	if err != nil {
		return id, true, err
	}
	return id, true, nil
}

func (m *Manager) addWorkspace(mon *Monitor, name string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Workspace %d", len(mon.Workspaces))
	}

	ws := newWorkspace(name)
	mon.Workspaces = append(mon.Workspaces, ws)
	m.logger.Info("workspace added", "monitor", mon.ID, "workspace", ws.ID, "name", ws.Name)
	return ws.ID, m.save()
}

// RenameWorkspace renames a workspace in place. It reports false when no
// workspace has the id.
func (m *Manager) RenameWorkspace(id uuid.UUID, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ready(); err != nil {
		return false, err
	}
	_, ws := m.monitors.FindWorkspace(id)
	if ws == nil {
		return false, nil
	}
	ws.Name = name
	m.logger.Info("workspace renamed", "workspace", id, "name", name)
	return true, m.save()
}

// RemoveWorkspace reveals a workspace's windows and deletes it. Removing the
// active workspace makes the monitor's first remaining workspace active.
func (m *Manager) RemoveWorkspace(id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ready(); err != nil {
		return false, err
	}
	mon, ws := m.monitors.FindWorkspace(id)
	if ws == nil {
		return false, nil
	}
	if len(mon.Workspaces) == 1 {
		return false, ErrLastWorkspace
	}

	for _, w := range ws.Windows {
		m.reveal(w)
	}

	i := mon.indexOf(id)
	mon.Workspaces = append(mon.Workspaces[:i], mon.Workspaces[i+1:]...)
	if mon.ActiveWorkspaceID == id {
		mon.ActiveWorkspaceID = mon.Workspaces[0].ID
	}

	m.logger.Info("workspace removed",
		"monitor", mon.ID,
		"workspace", id,
		"revealed", len(ws.Windows),
		"active", mon.ActiveWorkspaceID,
	)
	return true, m.save()
}

// Reset reveals every tracked window and clears all window lists.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ready(); err != nil {
		return err
	}
	return m.resetLocked()
}

func (m *Manager) resetLocked() error {
	revealed := 0
	for _, mon := range m.monitors {
		for _, ws := range mon.Workspaces {
			for _, w := range ws.Windows {
				if m.reveal(w) {
					revealed++
				}
			}
			ws.Windows = ws.Windows[:0]
		}
	}
	m.logger.Info("workspaces reset", "revealed", revealed)
	return m.save()
}

// PruneStaleWindows drops windows that no longer exist from every workspace.
// State is only saved when something was removed.
func (m *Manager) PruneStaleWindows() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ready(); err != nil {
		return 0, err
	}

	removed := 0
	for _, mon := range m.monitors {
		for _, ws := range mon.Workspaces {
			removed += pruneWindows(ws, m.backend.WindowExists)
		}
	}
	if removed == 0 {
		return 0, nil
	}
	m.logger.Debug("pruned stale windows", "count", removed)
	return removed, m.save()
}
