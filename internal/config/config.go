package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vizsync/internal/control"
	"github.com/san-kum/vizsync/internal/factory"
	"github.com/san-kum/vizsync/internal/hierarchy"
)

const (
	DefaultLineThreshold    = 2000
	DefaultThickness        = 1.0
	DefaultSphereSegments   = 20
	DefaultCylinderSegments = 6
	DefaultColor            = 0x6495ed
	DefaultGhostOpacity     = 0.1
	DefaultIntervalMs       = 100
)

// ErrInvalidConfig indicates a configuration value out of range.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Scene     SceneConfig     `yaml:"scene"`
	Selection SelectionConfig `yaml:"selection"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type SceneConfig struct {
	Geometry         string  `yaml:"geometry"`
	LineThreshold    int     `yaml:"line_threshold"`
	Thickness        float32 `yaml:"thickness"`
	SphereSegments   int     `yaml:"sphere_segments"`
	CylinderSegments int     `yaml:"cylinder_segments"`
	DefaultColor     Color   `yaml:"default_color"`
	DefaultOpacity   float32 `yaml:"default_opacity"`
	SelectedColor    Color   `yaml:"selected_color"`
	InputColor       Color   `yaml:"input_color"`
	OutputColor      Color   `yaml:"output_color"`
	GhostOpacity     float32 `yaml:"ghost_opacity"`
}

type SelectionConfig struct {
	UnselectedTransparent bool `yaml:"unselected_transparent"`
	ShowInputs            bool `yaml:"show_inputs"`
	ShowOutputs           bool `yaml:"show_outputs"`
	DrawConnectionLines   bool `yaml:"draw_connection_lines"`
}

type PlaybackConfig struct {
	IntervalMs int  `yaml:"interval_ms"`
	Loop       bool `yaml:"loop"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene: SceneConfig{
			Geometry:         "default",
			LineThreshold:    DefaultLineThreshold,
			Thickness:        DefaultThickness,
			SphereSegments:   DefaultSphereSegments,
			CylinderSegments: DefaultCylinderSegments,
			DefaultColor:     DefaultColor,
			DefaultOpacity:   1,
			SelectedColor:    0xffcc00,
			InputColor:       0xdc143c,
			OutputColor:      0x66ff00,
			GhostOpacity:     DefaultGhostOpacity,
		},
		Selection: SelectionConfig{
			UnselectedTransparent: true,
			ShowInputs:            true,
			ShowOutputs:           true,
		},
		Playback: PlaybackConfig{IntervalMs: DefaultIntervalMs},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := control.ParseGeometryType(c.Scene.Geometry); err != nil {
		errs = append(errs, err)
	}
	if c.Scene.LineThreshold < 0 {
		errs = append(errs, fmt.Errorf("%w: line_threshold %d", ErrInvalidConfig, c.Scene.LineThreshold))
	}
	if c.Scene.DefaultOpacity < 0 || c.Scene.DefaultOpacity > 1 {
		errs = append(errs, fmt.Errorf("%w: default_opacity %v", ErrInvalidConfig, c.Scene.DefaultOpacity))
	}
	if c.Scene.GhostOpacity < 0 || c.Scene.GhostOpacity > 1 {
		errs = append(errs, fmt.Errorf("%w: ghost_opacity %v", ErrInvalidConfig, c.Scene.GhostOpacity))
	}
	if c.Playback.IntervalMs < 0 {
		errs = append(errs, fmt.Errorf("%w: interval_ms %d", ErrInvalidConfig, c.Playback.IntervalMs))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format))
	}
	return errors.Join(errs...)
}

// GeometryType returns the configured representation, falling back to the
// default for unknown names.
func (c *Config) GeometryType() control.GeometryType {
	t, _ := control.ParseGeometryType(c.Scene.Geometry)
	return t
}

func (c *Config) FactoryOptions() factory.Options {
	o := factory.DefaultOptions()
	o.LineThreshold = c.Scene.LineThreshold
	o.SphereSegments = c.Scene.SphereSegments
	o.CylinderSegments = c.Scene.CylinderSegments
	o.DefaultColor = uint32(c.Scene.DefaultColor)
	o.DefaultOpacity = c.Scene.DefaultOpacity
	return o
}

func (c *Config) ControlOptions() control.Options {
	return control.Options{
		SelectedColor: uint32(c.Scene.SelectedColor),
		InputColor:    uint32(c.Scene.InputColor),
		OutputColor:   uint32(c.Scene.OutputColor),
		GhostOpacity:  c.Scene.GhostOpacity,
		LineThickness: c.Scene.Thickness,
	}
}

func (c *Config) SelectionOptions() hierarchy.SelectionOptions {
	return hierarchy.SelectionOptions{
		UnselectedTransparent: c.Selection.UnselectedTransparent,
		ShowInputs:            c.Selection.ShowInputs,
		ShowOutputs:           c.Selection.ShowOutputs,
		DrawConnectionLines:   c.Selection.DrawConnectionLines,
	}
}

func (c *Config) Interval() time.Duration {
	if c.Playback.IntervalMs <= 0 {
		return DefaultIntervalMs * time.Millisecond
	}
	return time.Duration(c.Playback.IntervalMs) * time.Millisecond
}

// Logger builds a structured logger writing to w in the configured level
// and format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, s)
	}
	return level, nil
}

// Color is a 24-bit RGB value written as "0xRRGGBB" or "#RRGGBB".
type Color uint32

func (c Color) String() string { return fmt.Sprintf("0x%06x", uint32(c)) }

func (c Color) MarshalYAML() (any, error) { return c.String(), nil }

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	s := strings.TrimSpace(node.Value)
	base := 0
	switch {
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil || v > 0xffffff {
		return fmt.Errorf("%w: colour %q", ErrInvalidConfig, node.Value)
	}
	*c = Color(v)
	return nil
}
