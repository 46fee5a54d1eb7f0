// Package graphbuild implements the graph building stage.
package graphbuild

import (
	"context"
	"fmt"

	"github.com/user/vmix/pkg/pipeline"
	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/stages/layout"
	"github.com/user/vmix/pkg/yuv"
)

// DefaultTimeBase is the source clock in ticks per second.
const DefaultTimeBase = 90000

// Stage creates one buffer source per input and a buffersink, then wires
// them with the layout's description.
type Stage struct {
	factory ports.GraphFactory
	logger  ports.Logger
}

// NewStage creates a new graph build stage.
func NewStage(factory ports.GraphFactory, logger ports.Logger) *Stage {
	return &Stage{
		factory: factory,
		logger:  logger.WithComponent("graph"),
	}
}

// Execute builds and configures the graph. On failure the partially built
// graph is closed.
func (s *Stage) Execute(ctx context.Context, input pipeline.BuildInput) (pipeline.BuildResult, error) {
	result := pipeline.BuildResult{}

	if len(input.Geometries) == 0 {
		return result, layout.ErrNoInputs
	}
	for i, g := range input.Geometries {
		if err := g.Validate(); err != nil {
			return result, fmt.Errorf("input %d: %w", i, err)
		}
	}
	timeBase := input.TimeBase
	if timeBase <= 0 {
		timeBase = DefaultTimeBase
	}

	graph, err := s.factory.NewGraph()
	if err != nil {
		return result, fmt.Errorf("allocate graph: %w", err)
	}
	ok := false
	defer func() {
		if !ok {
			graph.Close()
		}
	}()

	sources := make([]ports.Pad, len(input.Geometries))
	result.Sources = make([]string, len(input.Geometries))
	for i, g := range input.Geometries {
		name := layout.SourceName(i)
		args := SourceArgs(g, timeBase)
		s.logger.Debug("Creating source %s: %s", name, args)
		if err := graph.CreateFilter("buffer", name, args); err != nil {
			return result, fmt.Errorf("create source %s: %w", name, err)
		}
		sources[i] = ports.Pad{Name: name, Filter: name}
		result.Sources[i] = name
	}

	s.logger.Debug("Creating sink %s", layout.SinkName)
	if err := graph.CreateFilter("buffersink", layout.SinkName, "pix_fmts="+yuv.PixelFormat); err != nil {
		return result, fmt.Errorf("create sink: %w", err)
	}
	sink := []ports.Pad{{Name: layout.SinkName, Filter: layout.SinkName}}

	s.logger.Debug("Parsing %s", input.Layout.Description)
	if err := graph.Parse(input.Layout.Description, sink, sources); err != nil {
		return result, fmt.Errorf("parse graph: %w", err)
	}
	if err := graph.Config(); err != nil {
		return result, fmt.Errorf("configure graph: %w", err)
	}
	output, err := graph.OutputGeometry(layout.SinkName)
	if err != nil {
		return result, fmt.Errorf("output geometry: %w", err)
	}
	if err := output.Validate(); err != nil {
		return result, fmt.Errorf("output geometry: %w", err)
	}
	if output != input.Layout.Output {
		s.logger.Warn("Graph produces %s, layout expected %s", output, input.Layout.Output)
	}

	result.Graph = graph
	result.Description = input.Layout.Description
	result.Sink = layout.SinkName
	result.Filters = graph.Filters()
	result.Output = output
	for _, name := range result.Filters {
		s.logger.Debug("Filter %s", name)
	}

	ok = true
	return result, nil
}

// SourceArgs returns the buffer source options for a stream.
func SourceArgs(g yuv.Geometry, timeBase int) string {
	return fmt.Sprintf("video_size=%s:pix_fmt=%s:time_base=1/%d", g, yuv.PixelFormat, timeBase)
}
