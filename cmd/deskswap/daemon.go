package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskswap/internal/config"
	"github.com/1broseidon/deskswap/internal/daemon"
	"github.com/1broseidon/deskswap/internal/hotkeys"
	"github.com/1broseidon/deskswap/internal/ipc"
	"github.com/1broseidon/deskswap/internal/platform"
	"github.com/1broseidon/deskswap/internal/runtimepath"
	"github.com/1broseidon/deskswap/internal/workspace"
)

var daemonCmd = &cobra.Command{
	Use:     "daemon",
	Short:   "Start the deskswap daemon (foreground)",
	Args:    cobra.NoArgs,
	GroupID: "daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		return runDaemon(path)
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

// daemonApp owns the long-lived components and applies config changes to
// them.
type daemonApp struct {
	configPath string
	logger     *slog.Logger
	level      *slog.LevelVar
	manager    *workspace.Manager
	hotkeys    *hotkeys.Handler

	mu  sync.Mutex
	cfg *config.Config
}

// hotkeyBindings converts the config section into trigger bindings.
func hotkeyBindings(cfg *config.Config) map[hotkeys.Trigger]string {
	out := make(map[hotkeys.Trigger]string)
	for name, keys := range cfg.HotkeyBindings() {
		out[hotkeys.Trigger(name)] = keys
	}
	return out
}

// statePath returns the configured state file or the XDG default.
func statePath(cfg *config.Config) (string, error) {
	if p := cfg.ResolvedStateFile(); p != "" {
		return p, nil
	}
	return runtimepath.StatePath()
}

func (d *daemonApp) apply(cfg *config.Config) error {
	d.level.Set(cfg.SlogLevel())
	d.manager.SetStealTrackedWindows(cfg.StealTrackedWindows)
	d.manager.SetEditSessionTimeout(cfg.EditSessionIdle())

	d.mu.Lock()
	prev := d.cfg
	d.cfg = cfg
	d.mu.Unlock()

	if prev != nil {
		if prev.Display != cfg.Display || prev.StateFile != cfg.StateFile || prev.ReconcileInterval != cfg.ReconcileInterval {
			d.logger.Warn("display, state_file and reconcile_interval changes take effect after a restart")
		}
	}

	return d.hotkeys.Rebind(hotkeyBindings(cfg))
}

// reload re-reads the config file. A broken file keeps the running config.
func (d *daemonApp) reload() error {
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		d.logger.Error("config reload failed", "path", d.configPath, "error", err)
		return err
	}
	if err := d.apply(res.Config); err != nil {
		return fmt.Errorf("config loaded but hotkeys failed to bind: %w", err)
	}
	d.logger.Info("config reloaded", "path", d.configPath)
	return nil
}

// editBlocked reports whether an open edit session suppresses the trigger.
// Switching is refused by the manager itself.
func (d *daemonApp) editBlocked(trigger hotkeys.Trigger) bool {
	session, open := d.manager.ActiveEdit()
	if open {
		d.logger.Info("hotkey ignored while editing", "trigger", trigger, "owner", session.Owner)
	}
	return open
}

func (d *daemonApp) registerActions() {
	d.hotkeys.Handle(hotkeys.NextWorkspace, func() {
		if _, err := d.manager.SwitchToNextWorkspace(); err != nil {
			d.logger.Warn("workspace switch refused", "error", err)
		}
	})
	d.hotkeys.Handle(hotkeys.NewWorkspace, func() {
		if d.editBlocked(hotkeys.NewWorkspace) {
			return
		}
		id, ok, err := d.manager.AddWorkspaceToFocusedMonitor("")
		switch {
		case err != nil:
			d.logger.Error("failed to add workspace", "error", err)
		case !ok:
			d.logger.Debug("no monitor under cursor, workspace not added")
		default:
			d.logger.Info("workspace added from hotkey", "id", id)
		}
	})
	d.hotkeys.Handle(hotkeys.Reset, func() {
		if d.editBlocked(hotkeys.Reset) {
			return
		}
		if err := d.manager.Reset(); err != nil {
			d.logger.Error("reset failed", "error", err)
		}
	})
	// The menu talks back over IPC, so it must not run on the event loop.
	d.hotkeys.Handle(hotkeys.Palette, func() {
		if d.editBlocked(hotkeys.Palette) {
			return
		}
		exe, err := os.Executable()
		if err != nil {
			d.logger.Error("palette: failed to find executable", "error", err)
			return
		}
		args := []string{"palette"}
		if d.configPath != "" {
			args = append(args, "--config", d.configPath)
		}
		cmd := exec.Command(exe, args...)
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			d.logger.Error("palette: failed to launch", "error", err)
			return
		}
		go cmd.Wait()
	})
}

func runDaemon(path string) error {
	res, err := config.LoadFromPath(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	var disconnect sync.Once
	defer disconnect.Do(backend.Disconnect)

	state, err := statePath(cfg)
	if err != nil {
		return fmt.Errorf("failed to resolve state path: %w", err)
	}

	manager := workspace.NewManager(workspace.Options{
		Backend:             backend,
		Persistence:         workspace.NewFileStorage(state),
		Logger:              logger,
		StealTrackedWindows: cfg.StealTrackedWindows,
		EditSessionTimeout:  cfg.EditSessionIdle(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Initialize(ctx); err != nil {
		if errors.Is(err, workspace.ErrCorruptState) {
			return fmt.Errorf("%w (move the file aside to start fresh)", err)
		}
		return fmt.Errorf("failed to initialize workspaces: %w", err)
	}

	app := &daemonApp{
		configPath: path,
		logger:     logger,
		level:      level,
		manager:    manager,
		hotkeys:    hotkeys.NewHandler(backend, logger),
	}
	app.registerActions()
	if err := app.apply(cfg); err != nil {
		if _, bound := app.hotkeys.Bindings()[hotkeys.NextWorkspace]; !bound {
			return fmt.Errorf("failed to register hotkeys: %w", err)
		}
		logger.Warn("some hotkeys could not be bound", "error", err)
	}
	logger.Info("hotkeys registered", "bindings", app.hotkeys.Bindings())

	ipcServer, err := ipc.NewServer(manager, ipc.ServerOptions{
		Logger: logger,
		Reload: app.reload,
	})
	if err != nil {
		return fmt.Errorf("failed to create IPC server: %w", err)
	}
	if err := ipcServer.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}

	if interval := cfg.ReconcileEvery(); interval > 0 {
		reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
			Interval: interval,
			Logger:   logger,
		}, manager)
		go reconciler.Run(ctx)
	}

	go func() {
		if err := config.Watch(ctx, path, logger, func() { _ = app.reload() }); err != nil {
			logger.Warn("config file watching disabled", "error", err)
		}
	}()

	var shutdown sync.Once
	stop := func() {
		shutdown.Do(func() {
			logger.Info("shutting down deskswap daemon")
			if err := manager.Reset(); err != nil {
				logger.Error("final reset failed", "error", err)
			}
			ipcServer.Stop()
			cancel()
			backend.QuitEventLoop()
			// Unblocks the event loop while it waits for the next event.
			disconnect.Do(backend.Disconnect)
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading config")
					_ = app.reload()
					continue
				}
				stop()
				return
			}
		}
	}()

	logger.Info("deskswap daemon started", "state", state, "socket", ipcServer.SocketPath())
	backend.EventLoop()
	stop()
	return nil
}
