package mcp

// ListWorkspacesInput is the input for the list_workspaces tool.
type ListWorkspacesInput struct{}

// WorkspaceInfo describes one workspace.
type WorkspaceInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Active      bool   `json:"active"`
	WindowCount int    `json:"window_count"`
}

// MonitorInfo describes one monitor and its workspaces.
type MonitorInfo struct {
	ID         int             `json:"id"`
	Detached   bool            `json:"detached"`
	Workspaces []WorkspaceInfo `json:"workspaces"`
}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// AddWorkspaceInput is the input for the add_workspace tool.
type AddWorkspaceInput struct {
	MonitorID *int   `json:"monitor_id,omitempty" jsonschema:"Monitor to add the workspace to (default: the monitor under the mouse cursor)"`
	Name      string `json:"name,omitempty" jsonschema:"Workspace name (default: Workspace N)"`
}

// AddWorkspaceOutput is the output for the add_workspace tool.
type AddWorkspaceOutput struct {
	ID    string `json:"id,omitempty"`
	Added bool   `json:"added"`
}

// RenameWorkspaceInput is the input for the rename_workspace tool.
type RenameWorkspaceInput struct {
	ID   string `json:"id" jsonschema:"Workspace id as returned by list_workspaces"`
	Name string `json:"name" jsonschema:"New workspace name"`
}

// RemoveWorkspaceInput is the input for the remove_workspace tool.
type RemoveWorkspaceInput struct {
	ID string `json:"id" jsonschema:"Workspace id as returned by list_workspaces. Its windows are shown again."`
}

// FoundOutput reports whether the targeted workspace existed.
type FoundOutput struct {
	Found bool `json:"found"`
}

// NextWorkspaceInput is the input for the next_workspace tool.
type NextWorkspaceInput struct{}

// NextWorkspaceOutput is the output for the next_workspace tool.
type NextWorkspaceOutput struct {
	Switched  bool   `json:"switched"`
	MonitorID int    `json:"monitor_id"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Hidden    int    `json:"hidden"`
	Shown     int    `json:"shown"`
}

// ResetInput is the input for the reset tool.
type ResetInput struct{}

// ResetOutput is the output for the reset tool.
type ResetOutput struct {
	OK bool `json:"ok"`
}
