package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawHotkeys struct {
	NextWorkspace *string `yaml:"next_workspace"`
	NewWorkspace  *string `yaml:"new_workspace"`
	Reset         *string `yaml:"reset"`
	Palette       *string `yaml:"palette"`
}

// RawConfig mirrors Config with pointer fields so a file only overrides the
// keys it sets.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Display   *string `yaml:"display"`
	LogLevel  *string `yaml:"log_level"`
	StateFile *string `yaml:"state_file"`

	Hotkeys *RawHotkeys `yaml:"hotkeys"`

	ReconcileInterval   *int  `yaml:"reconcile_interval"`
	EditSessionTimeout  *int  `yaml:"edit_session_timeout"`
	StealTrackedWindows *bool   `yaml:"steal_tracked_windows"`
	PaletteBackend      *string `yaml:"palette_backend"`
}

func (r RawConfig) merge(overlay RawConfig) RawConfig {
	out := r
	if overlay.Include != nil {
		out.Include = overlay.Include
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.StateFile != nil {
		out.StateFile = overlay.StateFile
	}
	if overlay.Hotkeys != nil {
		merged := RawHotkeys{}
		if out.Hotkeys != nil {
			merged = *out.Hotkeys
		}
		if overlay.Hotkeys.NextWorkspace != nil {
			merged.NextWorkspace = overlay.Hotkeys.NextWorkspace
		}
		if overlay.Hotkeys.NewWorkspace != nil {
			merged.NewWorkspace = overlay.Hotkeys.NewWorkspace
		}
		if overlay.Hotkeys.Reset != nil {
			merged.Reset = overlay.Hotkeys.Reset
		}
		if overlay.Hotkeys.Palette != nil {
			merged.Palette = overlay.Hotkeys.Palette
		}
		out.Hotkeys = &merged
	}
	if overlay.ReconcileInterval != nil {
		out.ReconcileInterval = overlay.ReconcileInterval
	}
	if overlay.EditSessionTimeout != nil {
		out.EditSessionTimeout = overlay.EditSessionTimeout
	}
	if overlay.StealTrackedWindows != nil {
		out.StealTrackedWindows = overlay.StealTrackedWindows
	}
	if overlay.PaletteBackend != nil {
		out.PaletteBackend = overlay.PaletteBackend
	}
	return out
}
