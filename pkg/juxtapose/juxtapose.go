// Package juxtapose places two raw videos next to each other.
package juxtapose

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/vmix/pkg/adapters/nullsink"
	"github.com/user/vmix/pkg/orchestrator"
	"github.com/user/vmix/pkg/pipeline"
	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/stages/graphbuild"
	"github.com/user/vmix/pkg/stages/layout"
	"github.com/user/vmix/pkg/vmix"
	"github.com/user/vmix/pkg/yuv"
)

// Options configures the juxtapose operation.
type Options struct {
	// SideBySide places the second video to the right of the first
	// instead of below it.
	SideBySide bool
	// Policy decides what happens when one video is shorter.
	Policy pipeline.Policy
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Policy: pipeline.PolicyShortest,
	}
}

// Input names the two videos, their frame sizes and the output file.
type Input struct {
	FirstPath      string
	FirstGeometry  yuv.Geometry
	SecondPath     string
	SecondGeometry yuv.Geometry
	OutputPath     string
}

// Stage juxtaposes two raw videos.
type Stage struct {
	factory ports.GraphFactory
	fs      ports.FileSystem
	logger  ports.Logger
	opts    Options
}

// New creates a new juxtapose Stage.
func New(factory ports.GraphFactory, fs ports.FileSystem, logger ports.Logger, opts Options) *Stage {
	return &Stage{
		factory: factory,
		fs:      fs,
		logger:  logger,
		opts:    opts,
	}
}

// Execute runs the mix and returns the orchestrator's result.
func (s *Stage) Execute(ctx context.Context, input Input) (orchestrator.RunResult, error) {
	if input.FirstPath == "" || input.SecondPath == "" {
		return orchestrator.RunResult{}, errors.New("two input paths are required")
	}

	b := vmix.NewConfigBuilder()
	if s.opts.SideBySide {
		b = vmix.NewSideBySideConfigBuilder()
	}
	cfg := b.
		WithInput(input.FirstPath, input.FirstGeometry).
		WithInput(input.SecondPath, input.SecondGeometry).
		WithOutput(input.OutputPath, yuv.Geometry{}).
		WithPolicy(s.opts.Policy).
		Build()

	orch := orchestrator.New(
		layout.NewStage(),
		graphbuild.NewStage(s.factory, s.logger),
		nil,
		s.fs,
		nullsink.New(),
		s.logger,
	)

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig())
	if err != nil {
		return result, fmt.Errorf("juxtapose: %w", err)
	}
	return result, nil
}
