package config

import "sort"

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"lines": func() *Config {
		cfg := DefaultConfig()
		cfg.Scene.Geometry = "lines"
		cfg.Scene.Thickness = 2
		return cfg
	},
	"quality": func() *Config {
		cfg := DefaultConfig()
		cfg.Scene.Geometry = "cylinders"
		cfg.Scene.SphereSegments = 32
		cfg.Scene.CylinderSegments = 16
		return cfg
	},
	"explore": func() *Config {
		cfg := DefaultConfig()
		cfg.Scene.GhostOpacity = 0.05
		cfg.Selection.DrawConnectionLines = true
		cfg.Playback.Loop = true
		return cfg
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
