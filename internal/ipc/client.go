package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/deskswap/internal/runtimepath"
	"github.com/1broseidon/deskswap/internal/workspace"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientForSocket(socketPath)
}

// NewClientForSocket creates a client for an explicit socket path.
func NewClientForSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(command CommandType, payload any) (*Response, error) {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		if target, ok := codeErrors[resp.Code]; ok {
			return nil, fmt.Errorf("daemon error: %w", target)
		}
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) call(command CommandType, payload any, out any) error {
	resp, err := c.sendRequest(command, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", command, err)
	}
	return nil
}

// Reload asks the daemon to reload its configuration.
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListMonitors retrieves monitors and their workspaces.
func (c *Client) ListMonitors() (*MonitorsData, error) {
	var data MonitorsData
	if err := c.call(CommandListMonitors, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// NextWorkspace switches the workspace of the monitor under the cursor.
func (c *Client) NextWorkspace() (*workspace.SwitchResult, error) {
	var res workspace.SwitchResult
	if err := c.call(CommandNextWorkspace, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Reset reveals every window and clears all workspaces.
func (c *Client) Reset() error {
	return c.call(CommandReset, nil, nil)
}

// AddWorkspace adds a workspace to a monitor, or to the monitor under the
// cursor when monitorID is nil.
func (c *Client) AddWorkspace(monitorID *int, name, token string) (*AddWorkspaceData, error) {
	var data AddWorkspaceData
	payload := AddWorkspacePayload{MonitorID: monitorID, Name: name, Token: token}
	if err := c.call(CommandAddWorkspace, payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) RenameWorkspace(id uuid.UUID, name, token string) (bool, error) {
	var data FoundData
	payload := RenameWorkspacePayload{ID: id, Name: name, Token: token}
	if err := c.call(CommandRenameWorkspace, payload, &data); err != nil {
		return false, err
	}
	return data.Found, nil
}

func (c *Client) RemoveWorkspace(id uuid.UUID, token string) (bool, error) {
	var data FoundData
	if err := c.call(CommandRemoveWorkspace, RemoveWorkspacePayload{ID: id, Token: token}, &data); err != nil {
		return false, err
	}
	return data.Found, nil
}

// BeginEdit opens an edit session; switching is refused until EndEdit.
func (c *Client) BeginEdit(owner string) (*workspace.EditSession, error) {
	var session workspace.EditSession
	if err := c.call(CommandBeginEdit, BeginEditPayload{Owner: owner}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) TouchEdit(token string) error {
	return c.call(CommandTouchEdit, EditTokenPayload{Token: token}, nil)
}

func (c *Client) EndEdit(token string) error {
	return c.call(CommandEndEdit, EditTokenPayload{Token: token}, nil)
}
