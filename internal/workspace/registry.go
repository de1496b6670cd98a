package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/1broseidon/deskswap/internal/platform"
)

// Initialize loads persisted state, binds monitors to the current displays
// and reveals every tracked window. A missing state file starts empty; a
// corrupt one is returned as an error matching ErrCorruptState.
func (m *Manager) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	persisted, err := m.storage.Load()
	switch {
	case errors.Is(err, ErrStateNotFound):
		m.logger.Info("no saved workspace state, starting fresh")
		persisted = nil
	case err != nil:
		return err
	}

	displays, err := m.backend.Displays()
	if err != nil {
		return fmt.Errorf("failed to enumerate displays: %w", err)
	}

	var pruned int
	m.monitors, pruned = bindDisplays(persisted, displays, m.backend.WindowExists)
	m.initialized = true

	m.logger.Info("monitors bound",
		"displays", len(displays),
		"monitors", len(m.monitors),
		"pruned_windows", pruned,
	)
	for _, mon := range m.monitors {
		if mon.Detached() {
			m.logger.Warn("monitor has no display", "monitor", mon.ID, "workspaces", len(mon.Workspaces))
		}
	}

	return m.resetLocked()
}

// bindDisplays binds monitors to displays by position. Displays beyond the
// persisted count get a fresh monitor; persisted monitors beyond the display
// count are kept detached. Closed windows are dropped.
func bindDisplays(persisted Collection, displays []platform.Display, exists func(platform.WindowID) bool) (Collection, int) {
	monitors := persisted.Clone()
	for i := len(monitors); i < len(displays); i++ {
		monitors = append(monitors, newMonitor(i))
	}

	pruned := 0
	for i, mon := range monitors {
		mon.ID = i
		if i < len(displays) {
			mon.DisplayHandle = displays[i].Handle
		} else {
			mon.DisplayHandle = 0
		}
		for _, ws := range mon.Workspaces {
			pruned += pruneWindows(ws, exists)
		}
	}
	return monitors, pruned
}

func pruneWindows(ws *Workspace, exists func(platform.WindowID) bool) int {
	kept := ws.Windows[:0]
	for _, w := range ws.Windows {
		if exists(w) {
			kept = append(kept, w)
		}
	}
	removed := len(ws.Windows) - len(kept)
	ws.Windows = kept
	return removed
}
