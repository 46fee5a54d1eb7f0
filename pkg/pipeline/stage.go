// Package pipeline holds the stage abstraction and the values passed
// between the layout, graph build and preview stages.
package pipeline

import (
	"context"
)

// Stage is one step of a mixing run. The orchestrator calls the layout
// and graph build stages once per run and the preview stage once per
// sampled output frame.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc lets a plain function serve as a Stage, mostly in tests.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute calls f.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}
