package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultNextWorkspaceHotkey = "Mod4-grave"
	DefaultNewWorkspaceHotkey  = "Mod1-z"
	DefaultResetHotkey         = "Control-Mod1-q"

	DefaultReconcileInterval  = 30
	DefaultEditSessionTimeout = 600
)

// Hotkeys maps each trigger to an xgbutil key sequence. An empty sequence
// leaves the trigger unbound.
type Hotkeys struct {
	NextWorkspace string `yaml:"next_workspace"`
	NewWorkspace  string `yaml:"new_workspace"`
	Reset         string `yaml:"reset"`
	// Palette opens the workspace action menu.
	Palette string `yaml:"palette"`
}

// Config is the effective daemon configuration.
type Config struct {
	Include []string `yaml:"include,omitempty"`

	// Display is the X11 display to connect to, e.g. ":0". Empty uses $DISPLAY.
	Display  string `yaml:"display,omitempty"`
	LogLevel string `yaml:"log_level"`
	// StateFile overrides the workspace state location.
	StateFile string `yaml:"state_file,omitempty"`

	Hotkeys Hotkeys `yaml:"hotkeys"`

	// ReconcileInterval is how often closed windows are pruned, in seconds.
	// Zero disables the reconciler.
	ReconcileInterval int `yaml:"reconcile_interval"`
	// EditSessionTimeout expires an idle configuration session, in seconds.
	// Zero keeps sessions open until closed.
	EditSessionTimeout int `yaml:"edit_session_timeout"`

	// StealTrackedWindows moves a captured window out of any other workspace
	// that still tracks it.
	StealTrackedWindows bool `yaml:"steal_tracked_windows"`

	// PaletteBackend selects the menu program: auto, rofi or dmenu.
	PaletteBackend string `yaml:"palette_backend"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Hotkeys: Hotkeys{
			NextWorkspace: DefaultNextWorkspaceHotkey,
			NewWorkspace:  DefaultNewWorkspaceHotkey,
			Reset:         DefaultResetHotkey,
		},
		ReconcileInterval:  DefaultReconcileInterval,
		EditSessionTimeout: DefaultEditSessionTimeout,
		PaletteBackend:     "auto",
	}
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) ReconcileEvery() time.Duration {
	return time.Duration(c.ReconcileInterval) * time.Second
}

func (c *Config) EditSessionIdle() time.Duration {
	return time.Duration(c.EditSessionTimeout) * time.Second
}

// HotkeyBindings returns trigger name -> key sequence.
func (c *Config) HotkeyBindings() map[string]string {
	return map[string]string{
		"next_workspace": c.Hotkeys.NextWorkspace,
		"new_workspace":  c.Hotkeys.NewWorkspace,
		"reset":          c.Hotkeys.Reset,
		"palette":        c.Hotkeys.Palette,
	}
}

// SetHotkey updates the sequence for a trigger name.
func (c *Config) SetHotkey(trigger, keys string) error {
	keys = strings.TrimSpace(keys)
	switch trigger {
	case "next_workspace":
		c.Hotkeys.NextWorkspace = keys
	case "new_workspace":
		c.Hotkeys.NewWorkspace = keys
	case "reset":
		c.Hotkeys.Reset = keys
	case "palette":
		c.Hotkeys.Palette = keys
	default:
		return fmt.Errorf("unknown hotkey %q (want next_workspace, new_workspace, reset or palette)", trigger)
	}
	return nil
}

// Save writes the config to the default location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the config to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if strings.TrimSpace(c.Hotkeys.NextWorkspace) == "" {
		return &ValidationError{Path: "hotkeys.next_workspace", Err: fmt.Errorf("next_workspace hotkey is required")}
	}

	seen := make(map[string]string)
	for _, name := range []string{"next_workspace", "new_workspace", "reset", "palette"} {
		keys := c.HotkeyBindings()[name]
		if keys == "" {
			continue
		}
		if other, dup := seen[keys]; dup {
			return &ValidationError{Path: "hotkeys." + name, Err: fmt.Errorf("%q is already bound to %s", keys, other)}
		}
		seen[keys] = name
	}

	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}
	if c.EditSessionTimeout < 0 {
		return &ValidationError{Path: "edit_session_timeout", Err: fmt.Errorf("edit_session_timeout must be >= 0")}
	}
	switch c.PaletteBackend {
	case "", "auto", "rofi", "dmenu":
	default:
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, rofi, dmenu")}
	}
	if c.StateFile != "" && !filepath.IsAbs(expandHome(c.StateFile)) {
		return &ValidationError{Path: "state_file", Err: fmt.Errorf("state_file must be an absolute path")}
	}
	return nil
}

// ResolvedStateFile returns state_file with a leading ~ expanded.
func (c *Config) ResolvedStateFile() string {
	return expandHome(c.StateFile)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
