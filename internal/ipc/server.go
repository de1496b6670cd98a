package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/deskswap/internal/runtimepath"
	"github.com/1broseidon/deskswap/internal/workspace"
)

// ServerOptions configures a Server.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	Logger     *slog.Logger
	// Reload is run for RELOAD requests.
	Reload func() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	manager      *workspace.Manager
	reload       func() error
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server
func NewServer(manager *workspace.Manager, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		socketPath: socketPath,
		manager:    manager,
		reload:     opts.Reload,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one request per connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send IPC response", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListMonitors:
		return ok(MonitorsFromCollection(s.manager.Monitors()))
	case CommandNextWorkspace:
		res, err := s.manager.SwitchToNextWorkspace()
		if err != nil {
			return newErrorResponseFor(err)
		}
		return ok(res)
	case CommandReset:
		if err := s.manager.Reset(); err != nil {
			return newErrorResponseFor(err)
		}
		return ok(nil)
	case CommandAddWorkspace:
		return s.handleAddWorkspace(req.Payload)
	case CommandRenameWorkspace:
		return s.handleRenameWorkspace(req.Payload)
	case CommandRemoveWorkspace:
		return s.handleRemoveWorkspace(req.Payload)
	case CommandBeginEdit:
		return s.handleBeginEdit(req.Payload)
	case CommandTouchEdit:
		return s.handleEditToken(req.Payload, s.manager.TouchEdit)
	case CommandEndEdit:
		return s.handleEditToken(req.Payload, s.manager.EndEdit)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decodePayload(payload json.RawMessage, out any) *Response {
	if len(payload) == 0 {
		return NewErrorResponse("Missing payload")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	return nil
}

// touch keeps the caller's edit session alive. A stale token is not an
// error for the mutation itself.
func (s *Server) touch(token string) {
	if token == "" {
		return
	}
	if err := s.manager.TouchEdit(token); err != nil {
		s.logger.Debug("edit session touch failed", "error", err)
	}
}

func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD")
	if s.reload == nil {
		return NewErrorResponse("reload not supported")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	return ok(nil)
}

func (s *Server) handleGetStatus() *Response {
	monitors := s.manager.Monitors()
	status := StatusData{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		Monitors:      len(monitors),
	}
	for _, mon := range monitors {
		status.Workspaces += len(mon.Workspaces)
		for _, ws := range mon.Workspaces {
			if ws.ID != mon.ActiveWorkspaceID {
				status.HiddenWindows += len(ws.Windows)
			}
		}
	}
	if session, live := s.manager.ActiveEdit(); live {
		session.Token = ""
		status.EditSession = &session
	}
	return ok(status)
}

func (s *Server) handleAddWorkspace(payload json.RawMessage) *Response {
	var p AddWorkspacePayload
	if len(payload) > 0 {
		if resp := decodePayload(payload, &p); resp != nil {
			return resp
		}
	}
	s.touch(p.Token)

	if p.MonitorID != nil {
		id, err := s.manager.AddWorkspaceToMonitor(*p.MonitorID, p.Name)
		if err != nil {
			return newErrorResponseFor(err)
		}
		return ok(AddWorkspaceData{ID: id, Added: true})
	}

	id, added, err := s.manager.AddWorkspaceToFocusedMonitor(p.Name)
	if err != nil {
		return newErrorResponseFor(err)
	}
	return ok(AddWorkspaceData{ID: id, Added: added})
}

func (s *Server) handleRenameWorkspace(payload json.RawMessage) *Response {
	var p RenameWorkspacePayload
	if resp := decodePayload(payload, &p); resp != nil {
		return resp
	}
	s.touch(p.Token)

	found, err := s.manager.RenameWorkspace(p.ID, p.Name)
	if err != nil {
		return newErrorResponseFor(err)
	}
	return ok(FoundData{Found: found})
}

func (s *Server) handleRemoveWorkspace(payload json.RawMessage) *Response {
	var p RemoveWorkspacePayload
	if resp := decodePayload(payload, &p); resp != nil {
		return resp
	}
	s.touch(p.Token)

	found, err := s.manager.RemoveWorkspace(p.ID)
	if err != nil {
		return newErrorResponseFor(err)
	}
	return ok(FoundData{Found: found})
}

func (s *Server) handleBeginEdit(payload json.RawMessage) *Response {
	var p BeginEditPayload
	if len(payload) > 0 {
		if resp := decodePayload(payload, &p); resp != nil {
			return resp
		}
	}
	if p.Owner == "" {
		p.Owner = "ipc"
	}

	session, err := s.manager.BeginEdit(p.Owner)
	if err != nil {
		return newErrorResponseFor(err)
	}
	return ok(session)
}

func (s *Server) handleEditToken(payload json.RawMessage, fn func(string) error) *Response {
	var p EditTokenPayload
	if resp := decodePayload(payload, &p); resp != nil {
		return resp
	}
	if err := fn(p.Token); err != nil {
		return newErrorResponseFor(err)
	}
	return ok(nil)
}

// Stop closes the listener and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
