package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func parseWorkspaceID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid workspace id %q: %w", raw, err)
	}
	return id, nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWorkspacesInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	data, err := s.daemon.ListMonitors()
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}

	out := ListWorkspacesOutput{Monitors: make([]MonitorInfo, 0, len(data.Monitors))}
	for _, mon := range data.Monitors {
		info := MonitorInfo{
			ID:         mon.ID,
			Detached:   mon.Detached,
			Workspaces: make([]WorkspaceInfo, 0, len(mon.Workspaces)),
		}
		for _, ws := range mon.Workspaces {
			info.Workspaces = append(info.Workspaces, WorkspaceInfo{
				ID:          ws.ID.String(),
				Name:        ws.Name,
				Active:      ws.Active,
				WindowCount: ws.WindowCount,
			})
		}
		out.Monitors = append(out.Monitors, info)
	}
	return nil, out, nil
}

func (s *Server) handleAddWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args AddWorkspaceInput) (*mcpsdk.CallToolResult, AddWorkspaceOutput, error) {
	data, err := s.daemon.AddWorkspace(args.MonitorID, args.Name, "")
	if err != nil {
		return nil, AddWorkspaceOutput{}, err
	}
	if !data.Added {
		return nil, AddWorkspaceOutput{}, nil
	}
	s.logger.Info("mcp: workspace added", "id", data.ID, "name", args.Name)
	return nil, AddWorkspaceOutput{ID: data.ID.String(), Added: true}, nil
}

func (s *Server) handleRenameWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args RenameWorkspaceInput) (*mcpsdk.CallToolResult, FoundOutput, error) {
	id, err := parseWorkspaceID(args.ID)
	if err != nil {
		return nil, FoundOutput{}, err
	}
	found, err := s.daemon.RenameWorkspace(id, args.Name, "")
	if err != nil {
		return nil, FoundOutput{}, err
	}
	return nil, FoundOutput{Found: found}, nil
}

func (s *Server) handleRemoveWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args RemoveWorkspaceInput) (*mcpsdk.CallToolResult, FoundOutput, error) {
	id, err := parseWorkspaceID(args.ID)
	if err != nil {
		return nil, FoundOutput{}, err
	}
	found, err := s.daemon.RemoveWorkspace(id, "")
	if err != nil {
		return nil, FoundOutput{}, err
	}
	if found {
		s.logger.Info("mcp: workspace removed", "id", id)
	}
	return nil, FoundOutput{Found: found}, nil
}

func (s *Server) handleNextWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, _ NextWorkspaceInput) (*mcpsdk.CallToolResult, NextWorkspaceOutput, error) {
	res, err := s.daemon.NextWorkspace()
	if err != nil {
		return nil, NextWorkspaceOutput{}, err
	}
	if res.NoOp {
		return nil, NextWorkspaceOutput{}, nil
	}
	return nil, NextWorkspaceOutput{
		Switched:  true,
		MonitorID: res.MonitorID,
		From:      res.From.String(),
		To:        res.To.String(),
		Hidden:    len(res.Hidden),
		Shown:     len(res.Shown),
	}, nil
}

func (s *Server) handleReset(_ context.Context, _ *mcpsdk.CallToolRequest, _ ResetInput) (*mcpsdk.CallToolResult, ResetOutput, error) {
	if err := s.daemon.Reset(); err != nil {
		return nil, ResetOutput{}, err
	}
	s.logger.Info("mcp: workspaces reset")
	return nil, ResetOutput{OK: true}, nil
}
