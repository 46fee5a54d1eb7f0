package vmix

import (
	"testing"

	"github.com/user/vmix/pkg/pipeline"
	"github.com/user/vmix/pkg/yuv"
)

func TestConfigBuilder_Defaults(t *testing.T) {
	cfg := NewConfigBuilder().Build()

	if cfg.Layout != pipeline.LayoutVStack {
		t.Errorf("Layout = %q, want vstack", cfg.Layout)
	}
	if cfg.Policy != pipeline.PolicyShortest {
		t.Errorf("Policy = %q, want shortest", cfg.Policy)
	}
	if cfg.TimeBase != 90000 {
		t.Errorf("TimeBase = %d, want 90000", cfg.TimeBase)
	}
	if cfg.PreviewEvery != 25 || cfg.PreviewWidth != 320 {
		t.Errorf("preview = every %d, width %d", cfg.PreviewEvery, cfg.PreviewWidth)
	}

	if got := NewSideBySideConfigBuilder().Build().Layout; got != pipeline.LayoutHStack {
		t.Errorf("side by side Layout = %q, want hstack", got)
	}
}

func TestConfigBuilder_Chain(t *testing.T) {
	g := yuv.Geometry{Width: 64, Height: 64}
	cfg := NewConfigBuilder().
		WithInput("a.yuv", g).
		WithInput("b.yuv", g).
		WithOutput("out.yuv", yuv.Geometry{Width: 64, Height: 128}).
		WithPolicy(pipeline.PolicyZeroPad).
		WithTimeBase(1000).
		WithPreviewEvery(0).
		WithPreviewWidth(-5).
		Build()

	if len(cfg.Inputs) != 2 || cfg.Inputs[1].Path != "b.yuv" {
		t.Fatalf("Inputs = %+v", cfg.Inputs)
	}
	if cfg.Output.Path != "out.yuv" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Policy != pipeline.PolicyZeroPad || cfg.TimeBase != 1000 {
		t.Errorf("Policy/TimeBase = %q/%d", cfg.Policy, cfg.TimeBase)
	}
	if cfg.PreviewEvery != 1 {
		t.Errorf("PreviewEvery = %d, want clamped to 1", cfg.PreviewEvery)
	}
	if cfg.PreviewWidth != 320 {
		t.Errorf("PreviewWidth = %d, want default 320", cfg.PreviewWidth)
	}
}

func TestConfigBuilder_BuildCopiesInputs(t *testing.T) {
	b := NewConfigBuilder().WithInput("a.yuv", yuv.Geometry{Width: 2, Height: 2})
	first := b.Build()
	b.WithInput("b.yuv", yuv.Geometry{Width: 2, Height: 2})

	if len(first.Inputs) != 1 {
		t.Errorf("earlier Build changed to %d inputs", len(first.Inputs))
	}
}

func TestConfig_ToOrchestratorConfig(t *testing.T) {
	g := yuv.Geometry{Width: 16, Height: 16}
	cfg := NewConfigBuilder().
		WithInput("a.yuv", g).
		WithOutput("out.yuv", yuv.Geometry{}).
		WithPolicy(pipeline.PolicyLongest).
		Build()

	oc := cfg.ToOrchestratorConfig()
	if len(oc.Inputs) != 1 || oc.Inputs[0].Geometry != g {
		t.Errorf("Inputs = %+v", oc.Inputs)
	}
	if oc.Policy != pipeline.PolicyLongest || oc.Layout != pipeline.LayoutVStack {
		t.Errorf("Policy/Layout = %q/%q", oc.Policy, oc.Layout)
	}
	if err := oc.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
