// Package config provides configuration loading and management.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gopkg.in/yaml.v3"

	"github.com/user/vmix/pkg/orchestrator"
	"github.com/user/vmix/pkg/pipeline"
	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/stages/preview"
	"github.com/user/vmix/pkg/vmix"
	"github.com/user/vmix/pkg/yuv"
)

// Config represents a mixing job file.
//
//	inputs:
//	  - path: a.yuv
//	    size: 64x64
//	  - path: b.yuv
//	    size: 64x64
//	output:
//	  path: out.yuv
//	  size: 64x128
//	policy: shortest
type Config struct {
	// Streams
	Inputs []StreamConfig `yaml:"inputs"`
	Output StreamConfig   `yaml:"output"`

	// Composition
	Layout   string `yaml:"layout"`
	Policy   string `yaml:"policy"`
	TimeBase int    `yaml:"time_base"`

	// Debug
	Debug    bool          `yaml:"debug"`
	DebugDir string        `yaml:"debug_dir"`
	Preview  PreviewConfig `yaml:"preview"`

	// Reporting
	Summary  string `yaml:"summary"`
	LogLevel string `yaml:"log_level"`
}

// StreamConfig is a raw video file and its "WxH" frame size.
type StreamConfig struct {
	Path string `yaml:"path"`
	Size string `yaml:"size"`
}

// PreviewConfig controls debug previews.
type PreviewConfig struct {
	Every           int    `yaml:"every"`
	Width           int    `yaml:"width"`
	OutlineColor    string `yaml:"outline_color"`
	BackgroundColor string `yaml:"background_color"`
	FontPath        string `yaml:"font_path"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Layout:   string(pipeline.LayoutVStack),
		Policy:   string(pipeline.PolicyShortest),
		TimeBase: 90000,

		DebugDir: "./debug",
		Preview: PreviewConfig{
			Every:           25,
			Width:           320,
			OutlineColor:    "#ffc400",
			BackgroundColor: "#000000",
		},

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(fs ports.FileSystem, path string) (Config, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return Defaults(), fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every stream has a path and a valid size and that
// the layout, policy and log level names are known. The output size may
// be empty.
func (c Config) Validate() error {
	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	_, err := c.ToVmixConfig()
	return err
}

// ToVmixConfig converts the job file into a vmix.Config.
func (c Config) ToVmixConfig() (vmix.Config, error) {
	var b *vmix.ConfigBuilder
	switch pipeline.LayoutKind(c.Layout) {
	case pipeline.LayoutVStack, "":
		b = vmix.NewConfigBuilder()
	case pipeline.LayoutHStack:
		b = vmix.NewSideBySideConfigBuilder()
	default:
		return vmix.Config{}, fmt.Errorf("unknown layout %q (want vstack or hstack)", c.Layout)
	}

	if len(c.Inputs) == 0 {
		return vmix.Config{}, errors.New("no inputs configured")
	}
	for i, in := range c.Inputs {
		if in.Path == "" {
			return vmix.Config{}, fmt.Errorf("input %d: path is empty", i)
		}
		g, err := parseSize(in.Size)
		if err != nil {
			return vmix.Config{}, fmt.Errorf("input %d (%s): %w", i, in.Path, err)
		}
		b.WithInput(in.Path, g)
	}

	if c.Output.Path == "" {
		return vmix.Config{}, errors.New("output path is empty")
	}
	var out yuv.Geometry
	if c.Output.Size != "" {
		g, err := parseSize(c.Output.Size)
		if err != nil {
			return vmix.Config{}, fmt.Errorf("output (%s): %w", c.Output.Path, err)
		}
		out = g
	}
	b.WithOutput(c.Output.Path, out)

	policy, err := pipeline.ParsePolicy(c.Policy)
	if err != nil {
		return vmix.Config{}, err
	}
	b.WithPolicy(policy)

	if c.TimeBase < 0 {
		return vmix.Config{}, fmt.Errorf("time_base must be positive, got %d", c.TimeBase)
	}
	b.WithTimeBase(c.TimeBase).
		WithPreviewEvery(c.Preview.Every).
		WithPreviewWidth(c.Preview.Width)

	return b.Build(), nil
}

// ToOrchestratorConfig converts the job file into an orchestrator.Config.
func (c Config) ToOrchestratorConfig() (orchestrator.Config, error) {
	vc, err := c.ToVmixConfig()
	if err != nil {
		return orchestrator.Config{}, err
	}
	return vc.ToOrchestratorConfig(), nil
}

func parseSize(s string) (yuv.Geometry, error) {
	if s == "" {
		return yuv.Geometry{}, fmt.Errorf("%w: size is required", yuv.ErrInvalidGeometry)
	}
	g, err := yuv.ParseGeometry(s)
	if err != nil {
		return g, err
	}
	return g, g.Validate()
}

// PreviewTheme returns the preview colours, falling back to the defaults.
func (c Config) PreviewTheme() preview.Theme {
	theme := preview.DefaultTheme()
	if c.Preview.OutlineColor != "" {
		theme.Outline = ParseColor(c.Preview.OutlineColor)
	}
	if c.Preview.BackgroundColor != "" {
		theme.Background = ParseColor(c.Preview.BackgroundColor)
	}
	theme.FontPath = c.Preview.FontPath
	return theme
}

// ParseColor parses a "#rrggbb" hex color string to color.Color.
// Malformed input yields black.
func ParseColor(hex string) color.Color {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return color.Black
	}

	var rgb [3]uint8
	for i := range rgb {
		rgb[i] = hexValue(hex[2*i])<<4 | hexValue(hex[2*i+1])
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
