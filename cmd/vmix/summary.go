package main

import (
	"github.com/user/vmix/pkg/orchestrator"
	"github.com/user/vmix/pkg/summarizer"
)

// buildSummary converts a run result into a report.
func buildSummary(result orchestrator.RunResult, cfg orchestrator.Config, runErr error) *summarizer.Summary {
	b := summarizer.NewBuilder().
		WithRunID(result.RunID)

	for i, in := range cfg.Inputs {
		stream := summarizer.StreamInfo{Path: in.Path, Size: in.Geometry.String()}
		if i < len(result.Streams) {
			stream.FramesRead = result.Streams[i].FramesRead
			stream.Exhausted = result.Streams[i].Exhausted
		}
		b.WithStream(stream)
	}

	output := summarizer.OutputInfo{
		Path:       cfg.Output.Path,
		FrameCount: result.FramesWritten,
		Bytes:      result.BytesWritten,
	}
	if !result.Output.IsZero() {
		output.Size = result.Output.String()
	}
	if !result.RequestedOutput.IsZero() {
		output.RequestedSize = result.RequestedOutput.String()
	}
	b.WithOutput(output)

	return b.
		WithComposition(string(result.Layout), string(result.Policy), result.Description, result.Filters).
		WithTermination(string(result.Reason), result.Rounds, result.Duration).
		WithError(runErr).
		Build()
}
