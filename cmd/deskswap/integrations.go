package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskswap/internal/ipc"
	"github.com/1broseidon/deskswap/internal/mcp"
	"github.com/1broseidon/deskswap/internal/palette"
	"github.com/1broseidon/deskswap/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive workspace editor",
	Long: `Open the interactive workspace editor. Switching is paused while the
editor is open.

Keybindings:
  j/k, ↑/↓  Move between workspaces
  a         Add a workspace to the selected monitor
  r, Enter  Rename the selected workspace
  d         Remove the selected workspace
  h         Edit hotkeys
  g         Refresh
  q         Quit`,
	Args:    cobra.NoArgs,
	GroupID: "integrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(configPath)
	},
}

var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Model Context Protocol integration",
	GroupID: "integrations",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server (stdio transport)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol; logs go to stderr.
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return mcp.NewServer(ipc.NewClient(), logger).Run(ctx)
	},
}

var paletteCmd = &cobra.Command{
	Use:     "palette",
	Short:   "Open the workspace action menu (rofi or dmenu)",
	Args:    cobra.NoArgs,
	GroupID: "integrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		backend, err := palette.NewBackend(res.Config.PaletteBackend)
		if err != nil {
			return err
		}
		msg, err := palette.Run(backend, ipc.NewClient())
		if errors.Is(err, palette.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		PrintSuccess(msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(paletteCmd)
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(mcpCmd)
}
