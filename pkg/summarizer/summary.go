// Package summarizer provides summary generation for mixing runs.
package summarizer

import "time"

// Summary contains all data collected during a mixing run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string

	// Inputs in slot order
	Streams []StreamInfo

	// Output file details
	Output OutputInfo

	// How the inputs were combined
	Composition CompositionInfo

	// Why and when the loop stopped
	Termination TerminationInfo
}

// StreamInfo describes one input.
type StreamInfo struct {
	Path       string
	Size       string // "WxH"
	FramesRead int
	Exhausted  bool
}

// OutputInfo describes the output file.
type OutputInfo struct {
	Path          string
	Size          string
	RequestedSize string // empty when not requested
	FrameCount    int
	Bytes         int64
}

// CompositionInfo describes the filter graph.
type CompositionInfo struct {
	Layout      string
	Policy      string
	Description string
	Filters     []string
}

// TerminationInfo describes how the run ended.
type TerminationInfo struct {
	Reason   string
	Rounds   int
	Duration time.Duration
	Err      string // empty on success
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRunID sets the run identifier.
func (b *Builder) WithRunID(id string) *Builder {
	b.summary.RunID = id
	return b
}

// WithStream appends an input stream.
func (b *Builder) WithStream(stream StreamInfo) *Builder {
	b.summary.Streams = append(b.summary.Streams, stream)
	return b
}

// WithOutput sets output file information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// WithComposition sets layout and graph information.
func (b *Builder) WithComposition(layout, policy, description string, filters []string) *Builder {
	b.summary.Composition = CompositionInfo{
		Layout:      layout,
		Policy:      policy,
		Description: description,
		Filters:     append([]string(nil), filters...),
	}
	return b
}

// WithTermination sets the termination reason, round count and wall time.
func (b *Builder) WithTermination(reason string, rounds int, duration time.Duration) *Builder {
	b.summary.Termination.Reason = reason
	b.summary.Termination.Rounds = rounds
	b.summary.Termination.Duration = duration
	return b
}

// WithError records a run failure.
func (b *Builder) WithError(err error) *Builder {
	if err != nil {
		b.summary.Termination.Err = err.Error()
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
