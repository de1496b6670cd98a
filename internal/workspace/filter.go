package workspace

import (
	"fmt"

	"github.com/1broseidon/deskswap/internal/platform"
)

// CaptureWindows returns the top-level windows that belong to the display
// and should follow the current workspace: existing, titled, visible, not the
// desktop shell, not being dragged by the title bar, and on the display.
func CaptureWindows(b platform.Backend, display platform.DisplayHandle) ([]platform.WindowID, error) {
	windows, err := b.TopLevelWindows()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate windows: %w", err)
	}

	// A failed pointer query means no drag can be detected.
	cursor, cursorErr := b.CursorPosition()
	dragging, buttonErr := b.PrimaryButtonDown()
	dragging = dragging && cursorErr == nil && buttonErr == nil

	captured := make([]platform.WindowID, 0, len(windows))
	for _, w := range windows {
		if !b.WindowExists(w) {
			continue
		}
		if b.WindowTitle(w) == "" {
			continue
		}
		if !b.WindowVisible(w) {
			continue
		}
		if b.IsDesktopShell(w) {
			continue
		}
		if dragging {
			if bar, ok := b.TitleBarRect(w); ok && bar.Contains(cursor) {
				continue
			}
		}
		on, err := b.WindowDisplay(w)
		if err != nil || on != display {
			continue
		}
		captured = append(captured, w)
	}
	return captured, nil
}
