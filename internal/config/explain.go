package config

import (
	"fmt"
)

// Explain returns the effective value at the given YAML path and where it
// came from.
//
// Supported paths:
//
//	display
//	log_level
//	state_file
//	hotkeys.next_workspace
//	hotkeys.new_workspace
//	hotkeys.reset
//	hotkeys.palette
//	reconcile_interval
//	edit_session_timeout
//	steal_tracked_windows
//	palette_backend
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "display":
		return cfg.Display, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "state_file":
		return cfg.StateFile, nil
	case "hotkeys":
		return cfg.Hotkeys, nil
	case "hotkeys.next_workspace":
		return cfg.Hotkeys.NextWorkspace, nil
	case "hotkeys.new_workspace":
		return cfg.Hotkeys.NewWorkspace, nil
	case "hotkeys.reset":
		return cfg.Hotkeys.Reset, nil
	case "hotkeys.palette":
		return cfg.Hotkeys.Palette, nil
	case "palette_backend":
		return cfg.PaletteBackend, nil
	case "reconcile_interval":
		return cfg.ReconcileInterval, nil
	case "edit_session_timeout":
		return cfg.EditSessionTimeout, nil
	case "steal_tracked_windows":
		return cfg.StealTrackedWindows, nil
	case "include":
		return cfg.Include, nil
	default:
		return nil, fmt.Errorf("unknown config path %q", path)
	}
}

// Describe formats a source for display.
func (s Source) Describe() string {
	switch s.Kind {
	case SourceFile:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	case SourceDefault:
		return "default"
	default:
		return string(s.Kind)
	}
}
