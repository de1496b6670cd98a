package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/1broseidon/deskswap/internal/config"
	"github.com/1broseidon/deskswap/internal/ipc"
	"github.com/1broseidon/deskswap/internal/workspace"
)

type fakeClient struct {
	monitors []ipc.MonitorInfo
	touches  int
	reloads  int
	tokens   []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{monitors: []ipc.MonitorInfo{
		{ID: 0, DisplayHandle: 1, Workspaces: []ipc.WorkspaceInfo{
			{ID: uuid.New(), Name: workspace.DefaultWorkspaceName, Active: true},
		}},
		{ID: 1, DisplayHandle: 2, Workspaces: []ipc.WorkspaceInfo{
			{ID: uuid.New(), Name: workspace.DefaultWorkspaceName, Active: true},
			{ID: uuid.New(), Name: "Chat"},
		}},
	}}
}

func (f *fakeClient) ListMonitors() (*ipc.MonitorsData, error) {
	out := make([]ipc.MonitorInfo, len(f.monitors))
	for i, mon := range f.monitors {
		mon.Workspaces = append([]ipc.WorkspaceInfo(nil), mon.Workspaces...)
		out[i] = mon
	}
	return &ipc.MonitorsData{Monitors: out}, nil
}

func (f *fakeClient) AddWorkspace(monitorID *int, name, token string) (*ipc.AddWorkspaceData, error) {
	f.tokens = append(f.tokens, token)
	if monitorID == nil || *monitorID >= len(f.monitors) {
		return nil, workspace.ErrMonitorNotFound
	}
	id := uuid.New()
	f.monitors[*monitorID].Workspaces = append(f.monitors[*monitorID].Workspaces, ipc.WorkspaceInfo{ID: id, Name: name})
	return &ipc.AddWorkspaceData{ID: id, Added: true}, nil
}

func (f *fakeClient) RenameWorkspace(id uuid.UUID, name, token string) (bool, error) {
	f.tokens = append(f.tokens, token)
	for _, mon := range f.monitors {
		for i := range mon.Workspaces {
			if mon.Workspaces[i].ID == id {
				mon.Workspaces[i].Name = name
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeClient) RemoveWorkspace(id uuid.UUID, token string) (bool, error) {
	f.tokens = append(f.tokens, token)
	for m, mon := range f.monitors {
		for i, ws := range mon.Workspaces {
			if ws.ID != id {
				continue
			}
			if len(mon.Workspaces) == 1 {
				return false, workspace.ErrLastWorkspace
			}
			f.monitors[m].Workspaces = append(mon.Workspaces[:i], mon.Workspaces[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClient) TouchEdit(token string) error {
	f.touches++
	return nil
}

func (f *fakeClient) Reload() error {
	f.reloads++
	return nil
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func newTestModel(t *testing.T, client *fakeClient) model {
	t.Helper()
	m := newModel(client, "tok", filepath.Join(t.TempDir(), "config.yaml"), nil)
	m.refresh()
	return m
}

func TestRefreshFlattensWorkspaces(t *testing.T) {
	m := newTestModel(t, newFakeClient())
	if !m.daemonConnected {
		t.Fatal("expected daemon connected")
	}
	if len(m.rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(m.rows))
	}
	if m.rows[2].monitor != 1 || m.rows[2].ws.Name != "Chat" {
		t.Fatalf("unexpected last row: %+v", m.rows[2])
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	m := newTestModel(t, newFakeClient())
	m = send(t, m, keyMsg("up"))
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}
	m = send(t, m, keyMsg("down"), keyMsg("j"), keyMsg("j"), keyMsg("j"))
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	client := newFakeClient()
	m := newTestModel(t, client)
	m = send(t, m, keyMsg("j"), keyMsg("j"), keyMsg("d"))
	if m.mode != modeConfirmRemove {
		t.Fatalf("expected confirm mode, got %v", m.mode)
	}
	m = send(t, m, keyMsg("n"))
	if len(m.rows) != 3 {
		t.Fatal("remove should have been cancelled")
	}

	m = send(t, m, keyMsg("d"), keyMsg("y"))
	if len(m.rows) != 2 {
		t.Fatalf("expected 2 rows after remove, got %d", len(m.rows))
	}
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want clamped to 1", m.cursor)
	}
	if client.tokens[len(client.tokens)-1] != "tok" {
		t.Fatal("mutation should carry the edit token")
	}
}

func TestRemoveLastWorkspaceReportsMessage(t *testing.T) {
	m := newTestModel(t, newFakeClient())
	m = send(t, m, keyMsg("d"), keyMsg("y"))
	if len(m.rows) != 3 {
		t.Fatalf("expected rows unchanged, got %d", len(m.rows))
	}
	if m.isError || !strings.Contains(m.message, "at least one workspace") {
		t.Fatalf("unexpected message %q (error=%v)", m.message, m.isError)
	}
}

func TestAddAndRenameSelectsResult(t *testing.T) {
	client := newFakeClient()
	m := newTestModel(t, client)
	m = send(t, m, keyMsg("j"))

	m.addWorkspace("Music")
	if len(m.rows) != 4 || m.rows[m.cursor].ws.Name != "Music" {
		t.Fatalf("expected cursor on new workspace, rows=%+v cursor=%d", m.rows, m.cursor)
	}
	if m.rows[m.cursor].monitor != 1 {
		t.Fatalf("workspace added to monitor %d, want 1", m.rows[m.cursor].monitor)
	}

	m.renameSelected("Audio")
	if m.rows[m.cursor].ws.Name != "Audio" {
		t.Fatalf("rename not reflected: %+v", m.rows[m.cursor])
	}
}

func TestSaveHotkeysWritesConfigAndReloads(t *testing.T) {
	client := newFakeClient()
	m := newTestModel(t, client)

	m.saveHotkeys("Mod4-Tab", "", "Control-Mod1-r", "Mod4-space")
	if m.isError {
		t.Fatalf("unexpected error: %s", m.message)
	}
	if client.reloads != 1 {
		t.Fatalf("reloads = %d, want 1", client.reloads)
	}

	res, err := config.LoadFromPath(m.configPath)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if res.Config.Hotkeys.NextWorkspace != "Mod4-Tab" || res.Config.Hotkeys.NewWorkspace != "" || res.Config.Hotkeys.Palette != "Mod4-space" {
		t.Fatalf("unexpected hotkeys on disk: %+v", res.Config.Hotkeys)
	}
}

func TestSaveHotkeysRejectsDuplicates(t *testing.T) {
	client := newFakeClient()
	m := newTestModel(t, client)

	m.saveHotkeys("Mod4-Tab", "Mod4-Tab", "", "")
	if !m.isError {
		t.Fatal("expected duplicate binding error")
	}
	if client.reloads != 0 {
		t.Fatal("daemon must not reload after a failed save")
	}
	if m.cfg.Hotkeys.NextWorkspace != config.DefaultNextWorkspaceHotkey {
		t.Fatalf("config mutated on failure: %+v", m.cfg.Hotkeys)
	}
}

func TestTouchKeepsSessionAlive(t *testing.T) {
	client := newFakeClient()
	m := newTestModel(t, client)
	_, cmd := m.Update(touchMsg{})
	if client.touches != 1 {
		t.Fatalf("touches = %d, want 1", client.touches)
	}
	if cmd == nil {
		t.Fatal("expected the next touch to be scheduled")
	}
}

func TestViewRendersMonitors(t *testing.T) {
	m := newTestModel(t, newFakeClient())
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	for _, want := range []string{"Monitor 0", "Monitor 1", "Chat", "daemon connected"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHelpBarFollowsMode(t *testing.T) {
	if got := helpLine(bindingsFor(modeBrowse)); !strings.Contains(got, "d: remove") || !strings.Contains(got, "q: quit") {
		t.Fatalf("browse help = %q", got)
	}
	if got := helpLine(bindingsFor(modeRename)); got != "enter: submit  esc: cancel" {
		t.Fatalf("form help = %q", got)
	}
}
