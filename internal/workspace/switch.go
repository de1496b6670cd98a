package workspace

import (
	"github.com/google/uuid"

	"github.com/1broseidon/deskswap/internal/platform"
)

// SwitchResult describes what a switch did.
type SwitchResult struct {
	MonitorID int                 `json:"monitor_id"`
	From      uuid.UUID           `json:"from"`
	To        uuid.UUID           `json:"to"`
	Hidden    []platform.WindowID `json:"hidden"`
	Shown     []platform.WindowID `json:"shown"`
	// NoOp is set when no monitor was under the cursor.
	NoOp bool `json:"no_op"`
}

// SwitchToNextWorkspace advances the workspace of the monitor under the
// cursor. The windows currently on that display become the outgoing
// workspace's window list and are hidden; the incoming workspace's windows
// are shown. A monitor with one workspace hides and re-shows its windows.
func (m *Manager) SwitchToNextWorkspace() (SwitchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ready(); err != nil {
		return SwitchResult{}, err
	}
	if m.sessionLive() {
		return SwitchResult{NoOp: true}, ErrEditInProgress
	}

	mon := m.focusedMonitor()
	if mon == nil {
		return SwitchResult{NoOp: true}, nil
	}

	captured, err := CaptureWindows(m.backend, mon.DisplayHandle)
	if err != nil {
		return SwitchResult{MonitorID: mon.ID, NoOp: true}, err
	}

	from := mon.Active()
	if from == nil {
		// Repair a dangling pointer rather than refusing to switch.
		from = mon.Workspaces[0]
		mon.ActiveWorkspaceID = from.ID
	}
	to := mon.Next()

	if m.steal {
		if n := m.monitors.untrack(captured, from); n > 0 {
			m.logger.Debug("untracked captured windows from other workspaces", "count", n)
		}
	}
	from.Windows = captured

	result := SwitchResult{
		MonitorID: mon.ID,
		From:      from.ID,
		To:        to.ID,
		Hidden:    make([]platform.WindowID, 0, len(captured)),
		Shown:     make([]platform.WindowID, 0, len(to.Windows)),
	}

	for _, w := range captured {
		if m.conceal(w) {
			result.Hidden = append(result.Hidden, w)
		}
	}

	mon.ActiveWorkspaceID = to.ID

	for _, w := range to.Windows {
		if m.reveal(w) {
			result.Shown = append(result.Shown, w)
		}
	}

	m.logger.Info("switched workspace",
		"monitor", mon.ID,
		"from", from.Name,
		"to", to.Name,
		"hidden", len(result.Hidden),
		"shown", len(result.Shown),
	)
	return result, m.save()
}
