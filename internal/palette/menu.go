package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/1broseidon/deskswap/internal/ipc"
	"github.com/1broseidon/deskswap/internal/workspace"
)

// ActionKind identifies what a menu entry does.
type ActionKind string

const (
	ActionNext   ActionKind = "next"
	ActionReset  ActionKind = "reset"
	ActionAdd    ActionKind = "add"
	ActionRemove ActionKind = "remove"
)

// Action is a parsed menu selection.
type Action struct {
	Kind      ActionKind
	Monitor   int
	Workspace uuid.UUID
}

func (a Action) String() string {
	switch a.Kind {
	case ActionAdd:
		return fmt.Sprintf("%s:%d", a.Kind, a.Monitor)
	case ActionRemove:
		return fmt.Sprintf("%s:%s", a.Kind, a.Workspace)
	default:
		return string(a.Kind)
	}
}

// ParseAction decodes an item's Action field.
func ParseAction(s string) (Action, error) {
	kind, arg, _ := strings.Cut(s, ":")
	switch ActionKind(kind) {
	case ActionNext, ActionReset:
		return Action{Kind: ActionKind(kind)}, nil
	case ActionAdd:
		monitor, err := strconv.Atoi(arg)
		if err != nil || monitor < 0 {
			return Action{}, fmt.Errorf("palette: bad monitor in %q", s)
		}
		return Action{Kind: ActionAdd, Monitor: monitor}, nil
	case ActionRemove:
		id, err := uuid.Parse(arg)
		if err != nil {
			return Action{}, fmt.Errorf("palette: bad workspace id in %q", s)
		}
		return Action{Kind: ActionRemove, Workspace: id}, nil
	default:
		return Action{}, fmt.Errorf("palette: unknown action %q", s)
	}
}

// Client is the subset of the IPC client the menu drives.
type Client interface {
	ListMonitors() (*ipc.MonitorsData, error)
	NextWorkspace() (*workspace.SwitchResult, error)
	Reset() error
	AddWorkspace(monitorID *int, name, token string) (*ipc.AddWorkspaceData, error)
	RemoveWorkspace(id uuid.UUID, token string) (bool, error)
}

// BuildMenu lists the global actions followed by one section per monitor.
func BuildMenu(data *ipc.MonitorsData) []Item {
	items := []Item{
		{Label: "Next workspace", Action: Action{Kind: ActionNext}.String(), Icon: "go-next"},
		{Label: "Show all windows (reset)", Action: Action{Kind: ActionReset}.String(), Icon: "view-restore"},
	}
	if data == nil {
		return items
	}

	for _, mon := range data.Monitors {
		title := fmt.Sprintf("Monitor %d", mon.ID)
		if mon.Detached {
			title += " (detached)"
		}
		items = append(items, Item{Label: title, IsHeader: true})
		items = append(items, Item{
			Label:  fmt.Sprintf("Add workspace to monitor %d", mon.ID),
			Action: Action{Kind: ActionAdd, Monitor: mon.ID}.String(),
			Icon:   "list-add",
		})
		if len(mon.Workspaces) < 2 {
			continue
		}
		for _, ws := range mon.Workspaces {
			items = append(items, Item{
				Label:    fmt.Sprintf("Remove %s (%d windows)", ws.Name, ws.WindowCount),
				Action:   Action{Kind: ActionRemove, Workspace: ws.ID}.String(),
				Icon:     "list-remove",
				IsActive: ws.Active,
			})
		}
	}
	return items
}

// Run shows the menu and performs the chosen action. It returns a short
// description of what happened.
func Run(backend Backend, client Client) (string, error) {
	data, err := client.ListMonitors()
	if err != nil {
		return "", err
	}

	item, err := backend.Show("deskswap", BuildMenu(data), "")
	if err != nil {
		return "", err
	}
	action, err := ParseAction(item.Action)
	if err != nil {
		return "", err
	}
	return Perform(client, action)
}

// Perform executes a single action against the daemon.
func Perform(client Client, action Action) (string, error) {
	switch action.Kind {
	case ActionNext:
		res, err := client.NextWorkspace()
		if err != nil {
			return "", err
		}
		if res.NoOp {
			return "no monitor under the cursor", nil
		}
		return fmt.Sprintf("monitor %d switched", res.MonitorID), nil
	case ActionReset:
		if err := client.Reset(); err != nil {
			return "", err
		}
		return "all windows restored", nil
	case ActionAdd:
		monitor := action.Monitor
		data, err := client.AddWorkspace(&monitor, "", "")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("added workspace %s to monitor %d", data.ID, monitor), nil
	case ActionRemove:
		found, err := client.RemoveWorkspace(action.Workspace, "")
		if err != nil {
			return "", err
		}
		if !found {
			return "", errors.New("workspace no longer exists")
		}
		return "workspace removed", nil
	default:
		return "", fmt.Errorf("palette: unknown action %q", action.Kind)
	}
}
