package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/deskswap/internal/config"
	"github.com/1broseidon/deskswap/internal/ipc"
)

const editOwner = "tui"

// Run opens the workspace editor. It holds a daemon edit session for its
// whole lifetime so hotkey switching cannot reshuffle windows mid-edit.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	if configPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = path
	}
	res, err := config.LoadFromPath(configPath)
	if err != nil {
		return err
	}

	client := ipc.NewClient()
	session, err := client.BeginEdit(editOwner)
	if err != nil {
		return fmt.Errorf("failed to open edit session: %w", err)
	}
	defer client.EndEdit(session.Token)

	m := newModel(client, session.Token, configPath, res.Config)
	m.refresh()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
