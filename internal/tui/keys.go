package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Rename  key.Binding
	Remove  key.Binding
	Hotkeys key.Binding
	Refresh key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Submit  key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Rename:  key.NewBinding(key.WithKeys("r", "enter"), key.WithHelp("r", "rename")),
	Remove:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
	Hotkeys: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hotkeys")),
	Refresh: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

// bindingsFor lists the keys shown in the help bar for a mode.
func bindingsFor(m mode) []key.Binding {
	switch m {
	case modeConfirmRemove:
		return []key.Binding{keys.Confirm}
	case modeAdd, modeRename, modeHotkeys:
		return []key.Binding{keys.Submit, keys.Cancel}
	default:
		return []key.Binding{keys.Down, keys.Up, keys.Add, keys.Rename, keys.Remove, keys.Hotkeys, keys.Refresh, keys.Quit}
	}
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
