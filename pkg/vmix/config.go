// Package vmix provides a high-level API for compositing raw video streams.
package vmix

import (
	"github.com/user/vmix/pkg/orchestrator"
	"github.com/user/vmix/pkg/pipeline"
	"github.com/user/vmix/pkg/yuv"
)

// Config represents a mixing job.
type Config struct {
	// Streams
	Inputs []pipeline.StreamSpec
	Output pipeline.StreamSpec

	// Composition
	Layout   pipeline.LayoutKind
	Policy   pipeline.Policy
	TimeBase int // source clock in ticks per second (default: 90000)

	// Debug previews
	PreviewEvery int // save a preview every N output frames (default: 25)
	PreviewWidth int // preview width in pixels (default: 320)
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder that stacks inputs top to bottom.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: stackedDefaults(pipeline.LayoutVStack),
	}
}

// NewSideBySideConfigBuilder creates a new ConfigBuilder that places
// inputs left to right.
func NewSideBySideConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: stackedDefaults(pipeline.LayoutHStack),
	}
}

func stackedDefaults(kind pipeline.LayoutKind) Config {
	return Config{
		Layout:       kind,
		Policy:       pipeline.PolicyShortest,
		TimeBase:     90000,
		PreviewEvery: 25,
		PreviewWidth: 320,
	}
}

// Build returns the final Config, filling unset values with defaults.
func (b *ConfigBuilder) Build() Config {
	cfg := b.config
	cfg.Inputs = append([]pipeline.StreamSpec(nil), b.config.Inputs...)

	if cfg.Layout == "" {
		cfg.Layout = pipeline.LayoutVStack
	}
	if cfg.Policy == "" {
		cfg.Policy = pipeline.PolicyShortest
	}
	if cfg.TimeBase <= 0 {
		cfg.TimeBase = 90000
	}
	if cfg.PreviewEvery < 1 {
		cfg.PreviewEvery = 1
	}
	if cfg.PreviewWidth <= 0 {
		cfg.PreviewWidth = 320
	}

	return cfg
}

// WithInput appends an input stream.
func (b *ConfigBuilder) WithInput(path string, g yuv.Geometry) *ConfigBuilder {
	b.config.Inputs = append(b.config.Inputs, pipeline.StreamSpec{Path: path, Geometry: g})
	return b
}

// WithOutput sets the output stream. A zero geometry accepts the
// composited size.
func (b *ConfigBuilder) WithOutput(path string, g yuv.Geometry) *ConfigBuilder {
	b.config.Output = pipeline.StreamSpec{Path: path, Geometry: g}
	return b
}

// WithLayout sets the stacking arrangement.
func (b *ConfigBuilder) WithLayout(kind pipeline.LayoutKind) *ConfigBuilder {
	b.config.Layout = kind
	return b
}

// WithPolicy sets how streams of unequal length are reconciled.
func (b *ConfigBuilder) WithPolicy(policy pipeline.Policy) *ConfigBuilder {
	b.config.Policy = policy
	return b
}

// WithTimeBase sets the source clock in ticks per second.
func (b *ConfigBuilder) WithTimeBase(ticksPerSecond int) *ConfigBuilder {
	b.config.TimeBase = ticksPerSecond
	return b
}

// WithPreviewEvery sets the debug preview interval in output frames.
// Values below 1 will be forced to 1.
func (b *ConfigBuilder) WithPreviewEvery(frames int) *ConfigBuilder {
	b.config.PreviewEvery = frames
	return b
}

// WithPreviewWidth sets the debug preview width.
func (b *ConfigBuilder) WithPreviewWidth(width int) *ConfigBuilder {
	b.config.PreviewWidth = width
	return b
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Inputs: append([]pipeline.StreamSpec(nil), c.Inputs...),
		Output: c.Output,

		Layout:   c.Layout,
		Policy:   c.Policy,
		TimeBase: c.TimeBase,

		PreviewEvery: c.PreviewEvery,
		PreviewWidth: c.PreviewWidth,
	}
}
