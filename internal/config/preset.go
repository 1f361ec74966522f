package config

import "fmt"

// Preset represents a named search-strength level.
type Preset string

const (
	PresetFast     Preset = "fast"
	PresetBalanced Preset = "balanced"
	PresetStrong   Preset = "strong"
)

// Presets lists the known presets, weakest first.
var Presets = []Preset{PresetFast, PresetBalanced, PresetStrong}

// ParsePreset validates a preset name. The empty string parses as no preset.
func ParsePreset(name string) (Preset, error) {
	switch p := Preset(name); p {
	case "", PresetFast, PresetBalanced, PresetStrong:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown preset %q (use fast, balanced or strong)", ErrInvalid, name)
	}
}

// ApplyPreset modifies the agent configuration based on a preset.
func ApplyPreset(cfg *Config, preset Preset) {
	switch preset {
	case PresetFast:
		cfg.Agent.Depth = 2
		cfg.Agent.Repetitions = 5
	case PresetBalanced:
		cfg.Agent.Depth = 3
		cfg.Agent.Repetitions = 10
	case PresetStrong:
		cfg.Agent.Depth = 4
		cfg.Agent.Repetitions = 30
		cfg.Agent.Workers = 0
	}
}
