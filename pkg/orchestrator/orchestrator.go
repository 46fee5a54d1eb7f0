// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/user/vmix/pkg/pipeline"
	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/rawvideo"
	"github.com/user/vmix/pkg/yuv"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	RunID string // generated when empty

	// Streams
	Inputs []pipeline.StreamSpec
	Output pipeline.StreamSpec // a zero Geometry accepts whatever the layout produces

	// Composition
	Layout   pipeline.LayoutKind
	Policy   pipeline.Policy
	TimeBase int // source clock in ticks per second

	// Debug previews
	PreviewEvery int // save a preview every N output frames
	PreviewWidth int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Layout:       pipeline.LayoutVStack,
		Policy:       pipeline.PolicyShortest,
		TimeBase:     90000,
		PreviewEvery: 25,
		PreviewWidth: 320,
	}
}

// Validate checks the stream geometries and names. It touches no files.
func (c Config) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("no input streams")
	}
	for i, in := range c.Inputs {
		if in.Path == "" {
			return fmt.Errorf("input %d: path is empty", i)
		}
		if err := in.Geometry.Validate(); err != nil {
			return fmt.Errorf("input %d (%s): %w", i, in.Path, err)
		}
	}
	if c.Output.Path == "" {
		return errors.New("output path is empty")
	}
	if !c.Output.Geometry.IsZero() {
		if err := c.Output.Geometry.Validate(); err != nil {
			return fmt.Errorf("output (%s): %w", c.Output.Path, err)
		}
	}
	if _, err := pipeline.ParsePolicy(string(c.Policy)); err != nil {
		return err
	}
	return nil
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	layoutStage  pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult]
	buildStage   pipeline.Stage[pipeline.BuildInput, pipeline.BuildResult]
	previewStage pipeline.Stage[pipeline.PreviewInput, pipeline.PreviewResult]
	fs           ports.FileSystem
	sink         ports.DebugSink
	logger       ports.Logger
}

// New creates a new Orchestrator. previewStage may be nil.
func New(
	layoutStage pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult],
	buildStage pipeline.Stage[pipeline.BuildInput, pipeline.BuildResult],
	previewStage pipeline.Stage[pipeline.PreviewInput, pipeline.PreviewResult],
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		layoutStage:  layoutStage,
		buildStage:   buildStage,
		previewStage: previewStage,
		fs:           fs,
		sink:         sink,
		logger:       logger,
	}
}

// Run composites the input streams into the output file.
// On a runtime failure or cancellation the frames already written stay in
// the output file and the partial RunResult is returned with the error.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	started := time.Now()
	result := RunResult{RunID: config.RunID}
	if result.RunID == "" {
		result.RunID = uuid.NewString()
	}

	// 1. Validate before touching any file
	if err := config.Validate(); err != nil {
		o.logger.Error("Invalid configuration: %s", err)
		return result, err
	}
	policy, _ := pipeline.ParsePolicy(string(config.Policy))
	result.Policy = policy
	result.Layout = config.Layout
	result.RequestedOutput = config.Output.Geometry

	o.logger.Info("Starting pipeline")
	geometries := make([]yuv.Geometry, len(config.Inputs))
	for i, in := range config.Inputs {
		geometries[i] = in.Geometry
		o.logger.Info("Input %d: %s (%s)", i, in.Path, in.Geometry)
	}
	o.logger.Info("Output: %s (%s)", config.Output.Path, describeGeometry(config.Output.Geometry))

	// 2. Layout
	layout, err := o.layoutStage.Execute(ctx, pipeline.LayoutInput{
		Kind:       config.Layout,
		Geometries: geometries,
		Policy:     policy,
	})
	if err != nil {
		o.logger.Error("Failed to calculate layout: %s", err)
		return result, fmt.Errorf("layout stage: %w", err)
	}
	result.Output = layout.Output
	result.Description = layout.Description
	o.logger.Info("Layout calculated: %s output, policy %s", layout.Output, policy)

	if !config.Output.Geometry.IsZero() && config.Output.Geometry != layout.Output {
		o.logger.Warn("Output size %s does not match the composited size %s; frames are written at %s",
			config.Output.Geometry, layout.Output, layout.Output)
	}

	// 3. Graph
	build, err := o.buildStage.Execute(ctx, pipeline.BuildInput{
		Layout:     layout,
		Geometries: geometries,
		TimeBase:   config.TimeBase,
	})
	if err != nil {
		o.logger.Error("Failed to build graph: %s", err)
		return result, fmt.Errorf("build stage: %w", err)
	}
	defer build.Graph.Close()
	result.Filters = build.Filters
	result.Output = build.Output
	o.logger.Info("Graph configured with %d filters", len(build.Filters))

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(build, "", "  "); err == nil {
			o.sink.SaveGraphJSON(data)
		}
	}

	// 4. Files
	readers := make([]*rawvideo.Reader, len(config.Inputs))
	for i, in := range config.Inputs {
		f, err := o.fs.Open(in.Path)
		if err != nil {
			o.logger.Error("Failed to open input: %s", err)
			return result, fmt.Errorf("open input %d: %w", i, err)
		}
		defer f.Close()
		readers[i] = rawvideo.NewReader(f, in.Geometry)
	}

	out, err := o.fs.Create(config.Output.Path)
	if err != nil {
		o.logger.Error("Failed to create output: %s", err)
		return result, fmt.Errorf("create output: %w", err)
	}

	// 5. Mix
	d, err := newDriver(build, readers, rawvideo.NewWriter(out), policy, o.logger)
	if err != nil {
		out.Close()
		return result, err
	}
	if o.sink.Enabled() && o.previewStage != nil {
		d.onFrame = o.previewHook(ctx, config, layout)
	}

	runErr := d.run(ctx)
	closeErr := closeOutput(d.writer, out)
	d.fill(&result, config.Inputs)
	result.Duration = time.Since(started)

	if runErr != nil {
		o.logger.Error("Mixing stopped: %s", runErr)
		return result, runErr
	}
	if closeErr != nil {
		o.logger.Error("Failed to write output: %s", closeErr)
		return result, fmt.Errorf("write output: %w", closeErr)
	}

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(result, "", "  "); err == nil {
			o.sink.SaveRunJSON(data)
		}
	}

	o.logger.Info("Wrote %d frames (%d bytes) to %s", result.FramesWritten, result.BytesWritten, config.Output.Path)
	o.logger.Info("Pipeline completed successfully")
	return result, nil
}

// previewHook saves an annotated thumbnail of every PreviewEvery-th frame.
func (o *Orchestrator) previewHook(ctx context.Context, config Config, layout pipeline.LayoutResult) func(int, *yuv.Frame) {
	every := config.PreviewEvery
	if every <= 0 {
		every = 1
	}
	labels := make([]string, len(config.Inputs))
	for i, in := range config.Inputs {
		labels[i] = filepath.Base(in.Path)
	}

	return func(index int, frame *yuv.Frame) {
		if index%every != 0 {
			return
		}
		preview, err := o.previewStage.Execute(ctx, pipeline.PreviewInput{
			Index:   index,
			Frame:   frame,
			Regions: layout.Regions,
			Labels:  labels,
			Width:   config.PreviewWidth,
		})
		if err != nil {
			o.logger.Warn("Failed to render preview %d: %s", index, err)
			return
		}
		o.sink.SavePreview(index, preview.Image)
	}
}

func closeOutput(w *rawvideo.Writer, out io.Closer) error {
	flushErr := w.Flush()
	closeErr := out.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func describeGeometry(g yuv.Geometry) string {
	if g.IsZero() {
		return "auto"
	}
	return g.String()
}

// StreamResult describes how far one input was read. FramesRead counts
// the frames pushed into the graph.
type StreamResult struct {
	Path       string       `json:"path"`
	Geometry   yuv.Geometry `json:"geometry"`
	FramesRead int          `json:"framesRead"`
	Exhausted  bool         `json:"exhausted"`
	EOFSent    bool         `json:"eofSent"`
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	RunID string `json:"runId"`

	// Streams
	Streams       []StreamResult `json:"streams"`
	FramesWritten int            `json:"framesWritten"`
	BytesWritten  int64          `json:"bytesWritten"`

	// Composition
	Layout          pipeline.LayoutKind `json:"layout"`
	Policy          pipeline.Policy     `json:"policy"`
	Description     string              `json:"description"`
	Filters         []string            `json:"filters"`
	Output          yuv.Geometry        `json:"output"`
	RequestedOutput yuv.Geometry        `json:"requestedOutput"`

	// Termination
	Rounds   int               `json:"rounds"`
	Reason   TerminationReason `json:"reason"`
	Duration time.Duration     `json:"duration"`
}
