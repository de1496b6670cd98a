package ipc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/1broseidon/deskswap/internal/workspace"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload          CommandType = "RELOAD"
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandListMonitors    CommandType = "LIST_MONITORS"
	CommandNextWorkspace   CommandType = "NEXT_WORKSPACE"
	CommandReset           CommandType = "RESET"
	CommandAddWorkspace    CommandType = "ADD_WORKSPACE"
	CommandRenameWorkspace CommandType = "RENAME_WORKSPACE"
	CommandRemoveWorkspace CommandType = "REMOVE_WORKSPACE"
	CommandBeginEdit       CommandType = "BEGIN_EDIT"
	CommandTouchEdit       CommandType = "TOUCH_EDIT"
	CommandEndEdit         CommandType = "END_EDIT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	// Code identifies well-known failures so clients can match them.
	Code string `json:"code,omitempty"`
}

// Error codes carried in Response.Code.
const (
	CodeEditInProgress  = "edit_in_progress"
	CodeNoEditSession   = "no_edit_session"
	CodeLastWorkspace   = "last_workspace"
	CodeMonitorNotFound = "monitor_not_found"
	CodeNotInitialized  = "not_initialized"
)

var codeErrors = map[string]error{
	CodeEditInProgress:  workspace.ErrEditInProgress,
	CodeNoEditSession:   workspace.ErrNoEditSession,
	CodeLastWorkspace:   workspace.ErrLastWorkspace,
	CodeMonitorNotFound: workspace.ErrMonitorNotFound,
	CodeNotInitialized:  workspace.ErrNotInitialized,
}

func codeFor(err error) string {
	for code, target := range codeErrors {
		if errors.Is(err, target) {
			return code
		}
	}
	return ""
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	UptimeSeconds int64                  `json:"uptime_seconds"`
	DaemonRunning bool                   `json:"daemon_running"`
	Monitors      int                    `json:"monitors"`
	Workspaces    int                    `json:"workspaces"`
	HiddenWindows int                    `json:"hidden_windows"`
	EditSession   *workspace.EditSession `json:"edit_session,omitempty"`
}

// WorkspaceInfo describes one workspace.
type WorkspaceInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	WindowCount int       `json:"window_count"`
}

// MonitorInfo describes one monitor and its workspaces.
type MonitorInfo struct {
	ID            int             `json:"id"`
	DisplayHandle uint32          `json:"display_handle"`
	Detached      bool            `json:"detached"`
	Workspaces    []WorkspaceInfo `json:"workspaces"`
}

// MonitorsData represents the data returned by LIST_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// AddWorkspacePayload adds a workspace. A nil MonitorID targets the monitor
// under the cursor.
type AddWorkspacePayload struct {
	MonitorID *int   `json:"monitor_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Token     string `json:"token,omitempty"`
}

type AddWorkspaceData struct {
	ID    uuid.UUID `json:"id"`
	Added bool      `json:"added"`
}

type RenameWorkspacePayload struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Token string    `json:"token,omitempty"`
}

type RemoveWorkspacePayload struct {
	ID    uuid.UUID `json:"id"`
	Token string    `json:"token,omitempty"`
}

// FoundData reports whether the target of a rename or remove existed.
type FoundData struct {
	Found bool `json:"found"`
}

type BeginEditPayload struct {
	Owner string `json:"owner"`
}

type EditTokenPayload struct {
	Token string `json:"token"`
}

// MonitorsFromCollection flattens a collection for the wire.
func MonitorsFromCollection(c workspace.Collection) MonitorsData {
	out := MonitorsData{Monitors: make([]MonitorInfo, 0, len(c))}
	for _, mon := range c {
		info := MonitorInfo{
			ID:            mon.ID,
			DisplayHandle: uint32(mon.DisplayHandle),
			Detached:      mon.Detached(),
			Workspaces:    make([]WorkspaceInfo, 0, len(mon.Workspaces)),
		}
		for _, ws := range mon.Workspaces {
			info.Workspaces = append(info.Workspaces, WorkspaceInfo{
				ID:          ws.ID,
				Name:        ws.Name,
				Active:      ws.ID == mon.ActiveWorkspaceID,
				WindowCount: len(ws.Windows),
			})
		}
		out.Monitors = append(out.Monitors, info)
	}
	return out
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// newErrorResponseFor carries the error code of well-known failures.
func newErrorResponseFor(err error) *Response {
	resp := NewErrorResponse(err.Error())
	resp.Code = codeFor(err)
	return resp
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
