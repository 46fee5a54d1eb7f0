package pipeline

import (
	"fmt"
	"image"

	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/yuv"
)

// =============================================================================
// Common Types
// =============================================================================

// Rectangle represents a rectangular area.
type Rectangle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// StreamSpec pairs a raw video file with the geometry of its frames.
type StreamSpec struct {
	Path     string       `json:"path"`
	Geometry yuv.Geometry `json:"geometry"`
}

// Policy decides when mixing stops if the inputs have different lengths.
type Policy string

const (
	// PolicyShortest stops as soon as any input runs out.
	PolicyShortest Policy = "shortest"
	// PolicyLongest runs until every input is exhausted, holding the last
	// frame of the inputs that ended early.
	PolicyLongest Policy = "longest"
	// PolicyZeroPad runs until every input is exhausted, filling the area
	// of the inputs that ended early with black.
	PolicyZeroPad Policy = "zero-pad"
)

// ParsePolicy parses a policy name. An empty name selects PolicyShortest.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyShortest:
		return PolicyShortest, nil
	case PolicyLongest:
		return PolicyLongest, nil
	case PolicyZeroPad:
		return PolicyZeroPad, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want shortest, longest or zero-pad)", s)
	}
}

// EOFAction returns the stack filter's end-of-stream behaviour for the policy.
func (p Policy) EOFAction() string {
	switch p {
	case PolicyLongest:
		return "repeat"
	case PolicyZeroPad:
		return "pad"
	default:
		return ""
	}
}

// =============================================================================
// Layout Stage Types
// =============================================================================

// LayoutKind names a stacking arrangement.
type LayoutKind string

const (
	LayoutVStack LayoutKind = "vstack" // inputs top to bottom
	LayoutHStack LayoutKind = "hstack" // inputs left to right
)

// LayoutInput contains parameters for layout calculation.
type LayoutInput struct {
	Kind       LayoutKind
	Geometries []yuv.Geometry
	Policy     Policy
}

// LayoutResult contains the resolved layout.
type LayoutResult struct {
	// Description is the graph description wiring [in0]..[inN-1] to [out].
	Description string `json:"description"`

	// Output is the size of the composited frame.
	Output yuv.Geometry `json:"output"`

	// Regions holds the placement of each input inside the output frame.
	Regions []Rectangle `json:"regions"`
}

// =============================================================================
// Graph Build Stage Types
// =============================================================================

// BuildInput contains parameters for building the processing graph.
type BuildInput struct {
	Layout     LayoutResult
	Geometries []yuv.Geometry
	TimeBase   int // ticks per second of the nominal frame clock
}

// BuildResult contains the configured graph.
type BuildResult struct {
	Graph       ports.FilterGraph `json:"-"`
	Description string            `json:"description"`
	Sources     []string          `json:"sources"`
	Sink        string            `json:"sink"`
	Filters     []string          `json:"filters"`
	Output      yuv.Geometry      `json:"output"`
}

// =============================================================================
// Preview Stage Types
// =============================================================================

// PreviewInput contains a composited frame to annotate.
type PreviewInput struct {
	Index   int
	Frame   *yuv.Frame
	Regions []Rectangle
	Labels  []string
	Width   int // preview width; height keeps the aspect ratio
}

// PreviewResult contains the annotated preview image.
type PreviewResult struct {
	Image image.Image
}
