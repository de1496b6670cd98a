//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/deskswap/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection. An empty display
// uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// QuitEventLoop makes a running EventLoop return.
func (b *LinuxBackend) QuitEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns active CRTCs in RandR order.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	return displays, nil
}

func (b *LinuxBackend) TopLevelWindows() ([]WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ClientWindows()
	if err != nil {
		return nil, err
	}

	out := make([]WindowID, 0, len(clients))
	for _, w := range clients {
		out = append(out, WindowID(w))
	}
	return out, nil
}

func (b *LinuxBackend) WindowExists(id WindowID) bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	return conn.WindowExists(xproto.Window(id))
}

func (b *LinuxBackend) WindowVisible(id WindowID) bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	return conn.IsViewable(xproto.Window(id))
}

func (b *LinuxBackend) WindowTitle(id WindowID) string {
	conn, err := b.connection()
	if err != nil {
		return ""
	}
	return conn.WindowTitle(xproto.Window(id))
}

func (b *LinuxBackend) IsDesktopShell(id WindowID) bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	return conn.IsDesktopWindow(xproto.Window(id))
}

func (b *LinuxBackend) TitleBarRect(id WindowID) (Rect, bool) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, false
	}
	g, ok := conn.TitleBar(xproto.Window(id))
	if !ok {
		return Rect{}, false
	}
	return rectFromGeometry(g), true
}

// WindowDisplay returns the display containing the window's center.
func (b *LinuxBackend) WindowDisplay(id WindowID) (DisplayHandle, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	g, err := conn.WindowGeometry(xproto.Window(id))
	if err != nil {
		return 0, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return 0, err
	}

	mon, ok := x11.MonitorAt(monitors, g.X+g.Width/2, g.Y+g.Height/2)
	if !ok {
		return 0, ErrNoDisplay
	}
	return DisplayHandle(mon.Handle), nil
}

func (b *LinuxBackend) SetWindowVisible(id WindowID, visible bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	win := xproto.Window(id)
	if !conn.WindowExists(win) {
		return fmt.Errorf("window %d no longer exists", id)
	}
	if visible {
		conn.MapWindow(win)
	} else {
		conn.UnmapWindow(win)
	}
	return nil
}

func (b *LinuxBackend) SetWindowInputEnabled(id WindowID, enabled bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	win := xproto.Window(id)
	if !conn.WindowExists(win) {
		return fmt.Errorf("window %d no longer exists", id)
	}
	return conn.SetAcceptsInput(win, enabled)
}

func (b *LinuxBackend) CursorPosition() (Point, error) {
	conn, err := b.connection()
	if err != nil {
		return Point{}, err
	}
	p, err := conn.QueryPointer()
	if err != nil {
		return Point{}, err
	}
	return Point{X: p.X, Y: p.Y}, nil
}

func (b *LinuxBackend) DisplayAt(p Point) (DisplayHandle, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return 0, err
	}

	mon, ok := x11.MonitorAt(monitors, p.X, p.Y)
	if !ok {
		return 0, ErrNoDisplay
	}
	return DisplayHandle(mon.Handle), nil
}

func (b *LinuxBackend) PrimaryButtonDown() (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	p, err := conn.QueryPointer()
	if err != nil {
		return false, err
	}
	return p.PrimaryButton, nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		Handle: DisplayHandle(m.Handle),
		Name:   m.Name,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
	}
}

func rectFromGeometry(g x11.Geometry) Rect {
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}
