package mcp

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskswap/internal/ipc"
	"github.com/1broseidon/deskswap/internal/workspace"
)

const (
	ServerName    = "deskswap"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools call into.
type Daemon interface {
	ListMonitors() (*ipc.MonitorsData, error)
	NextWorkspace() (*workspace.SwitchResult, error)
	Reset() error
	AddWorkspace(monitorID *int, name, token string) (*ipc.AddWorkspaceData, error)
	RenameWorkspace(id uuid.UUID, name, token string) (bool, error)
	RemoveWorkspace(id uuid.UUID, token string) (bool, error)
}

// Server exposes the running daemon's workspaces as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates a new MCP server that forwards tool calls to the daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if daemon == nil {
		daemon = ipc.NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		daemon: daemon,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_workspaces",
		Description: "List every monitor with its workspaces, which one is active, and how many hidden windows each tracks.",
	}, s.handleListWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_workspace",
		Description: "Add an empty workspace to a monitor. Defaults to the monitor under the mouse cursor; returns added=false when the cursor is not over any monitor.",
	}, s.handleAddWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "rename_workspace",
		Description: "Rename a workspace by id.",
	}, s.handleRenameWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_workspace",
		Description: "Remove a workspace by id and show the windows it was hiding. A monitor's last workspace cannot be removed.",
	}, s.handleRemoveWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "next_workspace",
		Description: "Switch the monitor under the mouse cursor to its next workspace, exactly like the next-workspace hotkey.",
	}, s.handleNextWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reset",
		Description: "Show every hidden window and clear the window lists of all workspaces. Workspaces and their names are kept.",
	}, s.handleReset)
}
