// Package layout resolves a stacking layout into a graph description.
package layout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/user/vmix/pkg/pipeline"
	"github.com/user/vmix/pkg/yuv"
)

// ErrNoInputs is returned when a layout has nothing to stack.
var ErrNoInputs = errors.New("layout needs at least one input")

// Stage resolves the composite layout.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute resolves the layout for the given inputs.
func (s *Stage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	return ComputeLayout(input)
}

// SourceName returns the link label of input i.
func SourceName(i int) string {
	return fmt.Sprintf("in%d", i)
}

// SinkName is the link label of the composited output.
const SinkName = "out"

// ComputeLayout places the inputs and renders the description.
// This is exposed as a standalone function for testing and reuse.
//
// A vertical stack of two inputs renders as
//
//	[in0][in1]xstack=inputs=2:layout=0_0|0_h0[out]
func ComputeLayout(input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	n := len(input.Geometries)
	if n == 0 {
		return pipeline.LayoutResult{}, ErrNoInputs
	}
	for i, g := range input.Geometries {
		if err := g.Validate(); err != nil {
			return pipeline.LayoutResult{}, fmt.Errorf("input %d: %w", i, err)
		}
	}

	regions := make([]pipeline.Rectangle, n)
	positions := make([]string, n)
	var out yuv.Geometry

	switch input.Kind {
	case pipeline.LayoutVStack, "":
		y := 0
		for i, g := range input.Geometries {
			regions[i] = pipeline.Rectangle{X: 0, Y: y, Width: g.Width, Height: g.Height}
			positions[i] = "0_" + offsetExpr("h", i)
			y += g.Height
			out.Width = max(out.Width, g.Width)
		}
		out.Height = y
	case pipeline.LayoutHStack:
		x := 0
		for i, g := range input.Geometries {
			regions[i] = pipeline.Rectangle{X: x, Y: 0, Width: g.Width, Height: g.Height}
			positions[i] = offsetExpr("w", i) + "_0"
			x += g.Width
			out.Height = max(out.Height, g.Height)
		}
		out.Width = x
	default:
		return pipeline.LayoutResult{}, fmt.Errorf("unknown layout %q (want vstack or hstack)", input.Kind)
	}
	if err := out.Validate(); err != nil {
		return pipeline.LayoutResult{}, fmt.Errorf("composited output: %w", err)
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "[%s]", SourceName(i))
	}
	fmt.Fprintf(&b, "xstack=inputs=%d:layout=%s", n, strings.Join(positions, "|"))
	if action := input.Policy.EOFAction(); action != "" {
		fmt.Fprintf(&b, ":eof_action=%s", action)
	}
	fmt.Fprintf(&b, "[%s]", SinkName)

	return pipeline.LayoutResult{
		Description: b.String(),
		Output:      out,
		Regions:     regions,
	}, nil
}

// offsetExpr returns the xstack offset of input i along one axis:
// "0", "h0", "h0+h1", ...
func offsetExpr(dim string, i int) string {
	if i == 0 {
		return "0"
	}
	terms := make([]string, i)
	for j := range terms {
		terms[j] = fmt.Sprintf("%s%d", dim, j)
	}
	return strings.Join(terms, "+")
}
