package platform

import "errors"

// WindowID is a platform-neutral top-level window identifier.
type WindowID uint32

// DisplayHandle is an opaque display identifier. It is only stable within one
// process run; the zero value means "no display".
type DisplayHandle uint32

// Point is a position in root/screen coordinates.
type Point struct {
	X int
	Y int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Display describes a physical display in enumeration order.
type Display struct {
	Handle DisplayHandle
	Name   string
	Bounds Rect
}

// ErrNoDisplay is returned when no display contains the requested point or window.
var ErrNoDisplay = errors.New("no display at position")

// Backend abstracts the window-system operations the workspace switcher needs.
//
// Handles passed in may refer to windows that closed since they were
// enumerated; implementations report that through WindowExists and treat
// actions on such handles as errors the caller is free to ignore.
type Backend interface {
	// Displays returns the attached displays in ordinal order.
	Displays() ([]Display, error)
	// TopLevelWindows enumerates top-level windows in the window system's order.
	TopLevelWindows() ([]WindowID, error)

	WindowExists(id WindowID) bool
	WindowVisible(id WindowID) bool
	WindowTitle(id WindowID) string
	IsDesktopShell(id WindowID) bool
	// TitleBarRect returns the window's title bar in screen coordinates.
	// ok is false when the window has no decoration the backend can measure.
	TitleBarRect(id WindowID) (r Rect, ok bool)
	// WindowDisplay returns the display the window currently belongs to.
	WindowDisplay(id WindowID) (DisplayHandle, error)

	SetWindowVisible(id WindowID, visible bool) error
	SetWindowInputEnabled(id WindowID, enabled bool) error

	CursorPosition() (Point, error)
	DisplayAt(p Point) (DisplayHandle, error)
	PrimaryButtonDown() (bool, error)
}
