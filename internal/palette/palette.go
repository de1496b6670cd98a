package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single selectable entry in a palette menu.
type Item struct {
	Label    string // Display text
	Action   string // Action identifier returned on selection
	Icon     string // Icon name for rofi -show-icons
	IsHeader bool   // Non-selectable section header
	IsActive bool   // Highlighted as current
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	Show(prompt string, items []Item, message string) (Item, error)
}

// DetectBackend returns the first launcher found in PATH: rofi, then dmenu.
func DetectBackend() (string, error) {
	for _, name := range []string{"rofi", "dmenu"} {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: rofi, dmenu)")
}

// NewBackend creates a backend by name. Supported names: auto, rofi, dmenu.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	switch name {
	case "rofi", "dmenu":
		if _, err := exec.LookPath(name); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", name)
		}
		return newLauncher(name), nil
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, rofi, dmenu)", name)
	}
}
