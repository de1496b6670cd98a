package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies a merged raw layer over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Include != nil {
		cfg.Include = append([]string(nil), raw.Include...)
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.StateFile != nil {
		cfg.StateFile = *raw.StateFile
	}
	if raw.Hotkeys != nil {
		if raw.Hotkeys.NextWorkspace != nil {
			cfg.Hotkeys.NextWorkspace = *raw.Hotkeys.NextWorkspace
		}
		if raw.Hotkeys.NewWorkspace != nil {
			cfg.Hotkeys.NewWorkspace = *raw.Hotkeys.NewWorkspace
		}
		if raw.Hotkeys.Reset != nil {
			cfg.Hotkeys.Reset = *raw.Hotkeys.Reset
		}
		if raw.Hotkeys.Palette != nil {
			cfg.Hotkeys.Palette = *raw.Hotkeys.Palette
		}
	}
	cfg.ReconcileInterval = derefInt(raw.ReconcileInterval, cfg.ReconcileInterval)
	cfg.EditSessionTimeout = derefInt(raw.EditSessionTimeout, cfg.EditSessionTimeout)
	if raw.StealTrackedWindows != nil {
		cfg.StealTrackedWindows = *raw.StealTrackedWindows
	}
	if raw.PaletteBackend != nil {
		cfg.PaletteBackend = *raw.PaletteBackend
	}
	return cfg
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
