package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Geometry is a window rectangle in root coordinates.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ClientWindows returns the managed top-level windows. It prefers the EWMH
// client list and falls back to the root's children when no EWMH window
// manager is running.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err == nil {
		return clients, nil
	}

	tree, treeErr := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if treeErr != nil {
		return nil, fmt.Errorf("failed to list client windows: %w", err)
	}
	return tree.Children, nil
}

// WindowExists reports whether the X server still knows the window.
func (c *Connection) WindowExists(windowID xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

// IsViewable reports whether the window and all its ancestors are mapped.
func (c *Connection) IsViewable(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// WindowTitle returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// IsDesktopWindow reports whether the window is the desktop/shell background.
func (c *Connection) IsDesktopWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" {
			return true
		}
	}
	return false
}

// WindowGeometry returns the client area of a window in root coordinates.
func (c *Connection) WindowGeometry(windowID xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	return Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// TitleBar returns the decoration strip above the client area, derived from
// _NET_FRAME_EXTENTS. ok is false for undecorated windows.
func (c *Connection) TitleBar(windowID xproto.Window) (Geometry, bool) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil || int(extents.Top) <= 0 {
		return Geometry{}, false
	}
	left, right, top := int(extents.Left), int(extents.Right), int(extents.Top)

	client, err := c.WindowGeometry(windowID)
	if err != nil {
		return Geometry{}, false
	}

	return Geometry{
		X:      client.X - left,
		Y:      client.Y - top,
		Width:  client.Width + left + right,
		Height: top,
	}, true
}

// MapWindow shows a window.
func (c *Connection) MapWindow(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Map()
}

// UnmapWindow hides a window. EWMH window managers treat this as a withdraw
// and drop the window from the client list until it is mapped again.
func (c *Connection) UnmapWindow(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Unmap()
}

// SetAcceptsInput toggles the ICCCM input hint so the window manager stops
// (or resumes) giving the window keyboard focus.
func (c *Connection) SetAcceptsInput(windowID xproto.Window, accepts bool) error {
	hints, err := icccm.WmHintsGet(c.XUtil, windowID)
	if err != nil || hints == nil {
		hints = &icccm.Hints{}
	}

	hints.Flags |= icccm.HintInput
	if accepts {
		hints.Input = 1
	} else {
		hints.Input = 0
	}

	if err := icccm.WmHintsSet(c.XUtil, windowID, hints); err != nil {
		return fmt.Errorf("failed to set WM_HINTS: %w", err)
	}
	return nil
}
