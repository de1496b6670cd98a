package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/1broseidon/deskswap/internal/config"
	"github.com/1broseidon/deskswap/internal/ipc"
	"github.com/1broseidon/deskswap/internal/workspace"
)

const touchInterval = time.Minute

// daemonClient is the part of ipc.Client the editor needs.
type daemonClient interface {
	ListMonitors() (*ipc.MonitorsData, error)
	AddWorkspace(monitorID *int, name, token string) (*ipc.AddWorkspaceData, error)
	RenameWorkspace(id uuid.UUID, name, token string) (bool, error)
	RemoveWorkspace(id uuid.UUID, token string) (bool, error)
	TouchEdit(token string) error
	Reload() error
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeRename
	modeConfirmRemove
	modeHotkeys
)

// row is one selectable workspace line.
type row struct {
	monitor int
	ws      ipc.WorkspaceInfo
}

type touchMsg struct{}

type formValues struct {
	name    string
	next    string
	newWS   string
	reset   string
	palette string
}

// model is the root bubbletea model for the TUI.
type model struct {
	client     daemonClient
	token      string
	configPath string
	cfg        *config.Config

	monitors []ipc.MonitorInfo
	rows     []row
	cursor   int

	mode mode
	form *huh.Form

	// Form values live behind a pointer so huh keeps writing to them
	// across model copies.
	fields *formValues

	message string
	isError bool

	daemonConnected bool

	width  int
	height int
}

func newModel(client daemonClient, token, configPath string, cfg *config.Config) model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return model{
		client:     client,
		token:      token,
		configPath: configPath,
		cfg:        cfg,
		fields:     &formValues{},
	}
}

func (m *model) refresh() {
	data, err := m.client.ListMonitors()
	if err != nil {
		m.daemonConnected = false
		m.setError(err)
		return
	}
	m.daemonConnected = true
	m.monitors = data.Monitors
	m.rows = nil
	for _, mon := range data.Monitors {
		for _, ws := range mon.Workspaces {
			m.rows = append(m.rows, row{monitor: mon.ID, ws: ws})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *model) setInfo(format string, args ...any) {
	m.message = fmt.Sprintf(format, args...)
	m.isError = false
}

func (m *model) setError(err error) {
	m.message = err.Error()
	m.isError = true
}

func touchCmd() tea.Cmd {
	return tea.Tick(touchInterval, func(time.Time) tea.Msg { return touchMsg{} })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return touchCmd()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case touchMsg:
		if err := m.client.TouchEdit(m.token); err != nil {
			m.setError(fmt.Errorf("edit session lost: %w", err))
		}
		return m, touchCmd()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.mode == modeConfirmRemove {
		if key.Matches(km, keys.Confirm) {
			m.removeSelected()
		} else {
			m.setInfo("remove cancelled")
		}
		m.mode = modeBrowse
		return m, nil
	}

	switch {
	case key.Matches(km, keys.Quit):
		return m, tea.Quit
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(km, keys.Refresh):
		m.refresh()
	case key.Matches(km, keys.Add):
		if _, ok := m.selected(); ok {
			m.fields.name = ""
			m.mode = modeAdd
			return m, m.startNameForm("New workspace")
		}
	case key.Matches(km, keys.Rename):
		if sel, ok := m.selected(); ok {
			m.fields.name = sel.ws.Name
			m.mode = modeRename
			return m, m.startNameForm("Rename workspace")
		}
	case key.Matches(km, keys.Remove):
		if sel, ok := m.selected(); ok {
			m.mode = modeConfirmRemove
			m.setInfo("remove %q? (y/n)", sel.ws.Name)
		}
	case key.Matches(km, keys.Hotkeys):
		m.fields.next = m.cfg.Hotkeys.NextWorkspace
		m.fields.newWS = m.cfg.Hotkeys.NewWorkspace
		m.fields.reset = m.cfg.Hotkeys.Reset
		m.fields.palette = m.cfg.Hotkeys.Palette
		m.mode = modeHotkeys
		return m, m.startHotkeyForm()
	}
	return m, nil
}

func (m model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case km.String() == "ctrl+c":
			return m, tea.Quit
		case key.Matches(km, keys.Cancel):
			m.form = nil
			m.mode = modeBrowse
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.applyForm()
		m.form = nil
		m.mode = modeBrowse
		return m, nil
	}
	return m, cmd
}

func (m *model) applyForm() {
	switch m.mode {
	case modeAdd:
		m.addWorkspace(m.fields.name)
	case modeRename:
		m.renameSelected(m.fields.name)
	case modeHotkeys:
		m.saveHotkeys(m.fields.next, m.fields.newWS, m.fields.reset, m.fields.palette)
	}
}

func (m *model) addWorkspace(name string) {
	sel, ok := m.selected()
	if !ok {
		return
	}
	monitor := sel.monitor
	data, err := m.client.AddWorkspace(&monitor, name, m.token)
	if err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	for i, r := range m.rows {
		if r.ws.ID == data.ID {
			m.cursor = i
			m.setInfo("added %q to monitor %d", r.ws.Name, monitor)
		}
	}
}

func (m *model) renameSelected(name string) {
	sel, ok := m.selected()
	if !ok {
		return
	}
	found, err := m.client.RenameWorkspace(sel.ws.ID, name, m.token)
	if err != nil {
		m.setError(err)
		return
	}
	if !found {
		m.setInfo("workspace no longer exists")
	} else {
		m.setInfo("renamed to %q", name)
	}
	m.refresh()
}

func (m *model) removeSelected() {
	sel, ok := m.selected()
	if !ok {
		return
	}
	_, err := m.client.RemoveWorkspace(sel.ws.ID, m.token)
	switch {
	case errors.Is(err, workspace.ErrLastWorkspace):
		m.setInfo("monitor %d needs at least one workspace", sel.monitor)
	case err != nil:
		m.setError(err)
	default:
		m.setInfo("removed %q", sel.ws.Name)
	}
	m.refresh()
}

// saveHotkeys writes the new bindings and asks the daemon to pick them up.
// The in-memory config is left untouched when validation fails.
func (m *model) saveHotkeys(next, newWS, reset, palette string) {
	updated := *m.cfg
	for trigger, keys := range map[string]string{
		"next_workspace": next,
		"new_workspace":  newWS,
		"reset":          reset,
		"palette":        palette,
	} {
		if err := updated.SetHotkey(trigger, keys); err != nil {
			m.setError(err)
			return
		}
	}
	if err := updated.SaveTo(m.configPath); err != nil {
		m.setError(err)
		return
	}
	m.cfg = &updated

	if err := m.client.Reload(); err != nil {
		m.setError(fmt.Errorf("saved, but daemon reload failed: %w", err))
		return
	}
	m.setInfo("hotkeys saved to %s", m.configPath)
}

func (m *model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	return w
}

func (m *model) startNameForm(title string) tea.Cmd {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title(title).
				Description("Leave empty for an automatic name").
				Value(&m.fields.name),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true).WithShowErrors(true)
	return m.form.Init()
}

func (m *model) startHotkeyForm() tea.Cmd {
	required := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("required")
		}
		return nil
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("next_workspace").
				Title("Next workspace").
				Description("xgbutil key sequence, e.g. Mod4-grave").
				Validate(required).
				Value(&m.fields.next),
			huh.NewInput().
				Key("new_workspace").
				Title("New workspace").
				Description("Empty leaves it unbound").
				Value(&m.fields.newWS),
			huh.NewInput().
				Key("reset").
				Title("Reset").
				Description("Empty leaves it unbound").
				Value(&m.fields.reset),
			huh.NewInput().
				Key("palette").
				Title("Action menu").
				Description("Opens rofi/dmenu with workspace actions; empty leaves it unbound").
				Value(&m.fields.palette),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true).WithShowErrors(true)
	return m.form.Init()
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.daemonConnected, len(m.monitors), len(m.rows), m.width)
	helpBar := renderHelpBar(m.mode, m.width)
	messageBar := renderMessage(m.message, m.isError, m.width)

	var content string
	if m.form != nil {
		content = lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	} else {
		content = m.renderMonitors()
	}

	used := lipgloss.Height(statusBar) + lipgloss.Height(helpBar) + lipgloss.Height(messageBar)
	contentHeight := m.height - used
	if contentHeight < 1 {
		contentHeight = 1
	}
	content = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		content,
		messageBar,
		helpBar,
	)
}
