package filtergraph

import (
	"fmt"

	"github.com/user/vmix/pkg/yuv"
)

// upstream pulls the next frame from the filter feeding an input pad.
type upstream func() (*yuv.Frame, error)

// filter is the behaviour behind a filter instance.
type filter interface {
	numInputs() int
	numOutputs() int

	// configure receives the geometry of every input and returns the
	// geometry of the output (zero for sinks).
	configure(in []yuv.Geometry) (yuv.Geometry, error)

	// pull produces the next output frame.
	pull(in []upstream) (*yuv.Frame, error)
}

type constructor func(args string) (filter, error)

var registry = map[string]constructor{
	"buffer":     newBufferSource,
	"buffersink": newBufferSink,
	"null":       newNull,
	"xstack":     newStack("xstack"),
	"vstack":     newStack("vstack"),
	"hstack":     newStack("hstack"),
}

func lookup(kind string) (constructor, error) {
	c, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, kind)
	}
	return c, nil
}

// nullFilter passes frames through unchanged.
type nullFilter struct{}

func newNull(args string) (filter, error) {
	opts, err := parseOptions(args)
	if err != nil {
		return nil, err
	}
	if err := opts.unused(); err != nil {
		return nil, err
	}
	return nullFilter{}, nil
}

func (nullFilter) numInputs() int  { return 1 }
func (nullFilter) numOutputs() int { return 1 }

func (nullFilter) configure(in []yuv.Geometry) (yuv.Geometry, error) {
	return in[0], nil
}

func (nullFilter) pull(in []upstream) (*yuv.Frame, error) {
	return in[0]()
}
