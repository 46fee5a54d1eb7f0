package ports

import (
	"errors"

	"github.com/user/vmix/pkg/yuv"
)

var (
	// ErrNotReady is returned by Pull when no frame is buffered yet.
	ErrNotReady = errors.New("no frame ready")

	// ErrEOF is returned by Pull once the sink will never produce
	// another frame.
	ErrEOF = errors.New("end of graph output")
)

// PushFlags modify how a source takes a pushed frame.
type PushFlags int

const (
	// PushKeepRef leaves the frame with the caller. The graph copies the
	// pixels before Push returns, so the caller may overwrite the buffer.
	PushKeepRef PushFlags = 1 << iota
)

// Pad names an open link of a graph description and binds it to a
// pad of an existing filter.
type Pad struct {
	Name   string // Link label used in the description, e.g. "in0"
	Filter string // Name of the filter instance
	Index  int    // Pad index on that filter
}

// FilterGraph is a push/pull frame processing graph.
// Calls are synchronous: Push returns once the frame has been taken and
// Pull never waits for more input.
type FilterGraph interface {
	// CreateFilter adds a filter instance of the given kind.
	// args is a "key=value:key=value" option string.
	CreateFilter(kind, name, args string) error

	// Parse wires a textual graph description into the graph.
	// inputs are the filter pads consuming the description's open
	// outputs (e.g. the sink), outputs are the filter pads feeding its
	// open inputs (e.g. the sources).
	Parse(description string, inputs, outputs []Pad) error

	// Config validates every link and prepares the graph to run.
	Config() error

	// Push hands a frame to the named source. A nil frame marks the
	// end of that source's stream.
	Push(source string, frame *yuv.Frame, flags PushFlags) error

	// Pull takes the next frame from the named sink. The caller owns the
	// returned frame. It returns ErrNotReady or ErrEOF when no frame is
	// available.
	Pull(sink string) (*yuv.Frame, error)

	// OutputGeometry returns the frame size the named filter produces
	// once the graph is configured. Sinks report the size they receive.
	OutputGeometry(name string) (yuv.Geometry, error)

	// Filters returns the filter instance names in creation order.
	Filters() []string

	// Close releases the graph.
	Close() error
}

// GraphFactory creates empty filter graphs.
type GraphFactory interface {
	NewGraph() (FilterGraph, error)
}
