// Package filtergraph provides an in-process push/pull filter graph for
// yuv420p frames. It understands a small subset of the usual filter graph
// description syntax: buffer sources, buffersink, null and the xstack,
// vstack and hstack compositors.
package filtergraph

import (
	"errors"
	"fmt"

	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/yuv"
)

// Factory creates Graphs.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewGraph returns an empty graph.
func (Factory) NewGraph() (ports.FilterGraph, error) {
	return New(), nil
}

// instance is a named filter with its links.
type instance struct {
	name      string
	kind      string
	f         filter
	inputs    []*instance // producer feeding each input pad
	outLinked []bool
	upstreams []upstream
	geometry  yuv.Geometry
}

func (in *instance) pull() (*yuv.Frame, error) {
	return in.f.pull(in.upstreams)
}

// Graph is a synchronous filter graph. It is not safe for concurrent use.
type Graph struct {
	instances  []*instance
	byName     map[string]*instance
	parsed     int
	configured bool
	closed     bool
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{byName: make(map[string]*instance)}
}

// CreateFilter adds a filter instance.
func (g *Graph) CreateFilter(kind, name, args string) error {
	if g.closed {
		return ErrClosed
	}
	if g.configured {
		return errors.New("graph already configured")
	}
	_, err := g.add(kind, name, args)
	return err
}

func (g *Graph) add(kind, name, args string) (*instance, error) {
	if name == "" {
		return nil, errors.New("filter name is empty")
	}
	if _, dup := g.byName[name]; dup {
		return nil, fmt.Errorf("filter %q already exists", name)
	}
	ctor, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	f, err := ctor(args)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", kind, name, err)
	}

	inst := &instance{
		name:      name,
		kind:      kind,
		f:         f,
		inputs:    make([]*instance, f.numInputs()),
		outLinked: make([]bool, f.numOutputs()),
	}
	g.instances = append(g.instances, inst)
	g.byName[name] = inst
	return inst, nil
}

// endpoint is a filter pad referenced by a link label.
type endpoint struct {
	label string
	inst  *instance
	pad   int
}

// Parse adds the filters of a description and links them.
// Open input labels are matched against outputs (the pads that feed the
// description) and open output labels against inputs (the pads that
// consume it).
func (g *Graph) Parse(description string, inputs, outputs []ports.Pad) error {
	if g.closed {
		return ErrClosed
	}
	if g.configured {
		return errors.New("graph already configured")
	}

	chains, err := parseDescription(description)
	if err != nil {
		return err
	}

	var consumers, producers []endpoint
	for _, chain := range chains {
		var prev *instance
		for k, spec := range chain {
			name := fmt.Sprintf("Parsed_%s_%d", spec.kind, g.parsed)
			g.parsed++
			inst, err := g.add(spec.kind, name, spec.args)
			if err != nil {
				return err
			}

			next := 0
			if prev != nil {
				if err := g.link(prev, 0, inst, 0); err != nil {
					return err
				}
				next = 1
			}
			for _, label := range spec.inLabels {
				if next >= len(inst.inputs) {
					return fmt.Errorf("%s: too many input labels", name)
				}
				consumers = append(consumers, endpoint{label: label, inst: inst, pad: next})
				next++
			}

			prev = inst
			if k < len(chain)-1 {
				if len(spec.outLabels) > 0 {
					return fmt.Errorf("%s: output label inside a chain", name)
				}
				continue
			}
			for j, label := range spec.outLabels {
				if j >= len(inst.outLinked) {
					return fmt.Errorf("%s: too many output labels", name)
				}
				producers = append(producers, endpoint{label: label, inst: inst, pad: j})
			}
		}
	}

	// Labels linking two filters of the description.
	for ci := 0; ci < len(consumers); ci++ {
		c := consumers[ci]
		for pi, p := range producers {
			if p.label != c.label {
				continue
			}
			if err := g.link(p.inst, p.pad, c.inst, c.pad); err != nil {
				return err
			}
			producers = append(producers[:pi], producers[pi+1:]...)
			consumers = append(consumers[:ci], consumers[ci+1:]...)
			ci--
			break
		}
	}

	for _, c := range consumers {
		pad, ok := findPad(outputs, c.label)
		if !ok {
			return fmt.Errorf("%w: input label [%s]", ErrUnconnectedPad, c.label)
		}
		src, ok := g.byName[pad.Filter]
		if !ok {
			return fmt.Errorf("label [%s]: no filter %q", c.label, pad.Filter)
		}
		if err := g.link(src, pad.Index, c.inst, c.pad); err != nil {
			return err
		}
	}

	for _, p := range producers {
		pad, ok := findPad(inputs, p.label)
		if !ok {
			return fmt.Errorf("%w: output label [%s]", ErrUnconnectedPad, p.label)
		}
		dst, ok := g.byName[pad.Filter]
		if !ok {
			return fmt.Errorf("label [%s]: no filter %q", p.label, pad.Filter)
		}
		if err := g.link(p.inst, p.pad, dst, pad.Index); err != nil {
			return err
		}
	}

	return nil
}

func findPad(pads []ports.Pad, label string) (ports.Pad, bool) {
	for _, p := range pads {
		if p.Name == label {
			return p, true
		}
	}
	return ports.Pad{}, false
}

func (g *Graph) link(src *instance, srcPad int, dst *instance, dstPad int) error {
	if srcPad < 0 || srcPad >= len(src.outLinked) {
		return fmt.Errorf("%s has no output pad %d", src.name, srcPad)
	}
	if dstPad < 0 || dstPad >= len(dst.inputs) {
		return fmt.Errorf("%s has no input pad %d", dst.name, dstPad)
	}
	if src.outLinked[srcPad] {
		return fmt.Errorf("%s output %d is already linked", src.name, srcPad)
	}
	if dst.inputs[dstPad] != nil {
		return fmt.Errorf("%s input %d is already linked", dst.name, dstPad)
	}
	src.outLinked[srcPad] = true
	dst.inputs[dstPad] = src
	return nil
}

// Config checks that every pad is linked and negotiates frame sizes.
func (g *Graph) Config() error {
	if g.closed {
		return ErrClosed
	}
	if g.configured {
		return errors.New("graph already configured")
	}

	for _, inst := range g.instances {
		for i, src := range inst.inputs {
			if src == nil {
				return fmt.Errorf("%w: %s input %d", ErrUnconnectedPad, inst.name, i)
			}
		}
		for i, linked := range inst.outLinked {
			if !linked {
				return fmt.Errorf("%w: %s output %d", ErrUnconnectedPad, inst.name, i)
			}
		}
	}

	state := make(map[*instance]int) // 1 visiting, 2 done
	var visit func(inst *instance) error
	visit = func(inst *instance) error {
		switch state[inst] {
		case 1:
			return fmt.Errorf("cycle through %s", inst.name)
		case 2:
			return nil
		}
		state[inst] = 1
		in := make([]yuv.Geometry, len(inst.inputs))
		for i, src := range inst.inputs {
			if err := visit(src); err != nil {
				return err
			}
			in[i] = src.geometry
		}
		out, err := inst.f.configure(in)
		if err != nil {
			return fmt.Errorf("configure %s: %w", inst.name, err)
		}
		inst.geometry = out
		state[inst] = 2
		return nil
	}
	for _, inst := range g.instances {
		if err := visit(inst); err != nil {
			return err
		}
	}

	for _, inst := range g.instances {
		inst.upstreams = make([]upstream, len(inst.inputs))
		for i, src := range inst.inputs {
			inst.upstreams[i] = src.pull
		}
	}

	g.configured = true
	return nil
}

// Push hands a frame to a buffer source. A nil frame ends its stream.
func (g *Graph) Push(source string, frame *yuv.Frame, flags ports.PushFlags) error {
	inst, err := g.ready(source)
	if err != nil {
		return err
	}
	src, ok := inst.f.(*bufferSource)
	if !ok {
		return fmt.Errorf("%s is not a buffer source", source)
	}
	return src.push(frame, flags)
}

// Pull takes the next frame from a buffersink.
func (g *Graph) Pull(sink string) (*yuv.Frame, error) {
	inst, err := g.ready(sink)
	if err != nil {
		return nil, err
	}
	if _, ok := inst.f.(bufferSink); !ok {
		return nil, fmt.Errorf("%s is not a buffersink", sink)
	}
	return inst.pull()
}

func (g *Graph) ready(name string) (*instance, error) {
	if g.closed {
		return nil, ErrClosed
	}
	if !g.configured {
		return nil, ErrNotConfigured
	}
	inst, ok := g.byName[name]
	if !ok {
		return nil, fmt.Errorf("no filter %q", name)
	}
	return inst, nil
}

// OutputGeometry returns the frame size produced by the named filter
// once the graph is configured. Sinks report the size they receive.
func (g *Graph) OutputGeometry(name string) (yuv.Geometry, error) {
	inst, err := g.ready(name)
	if err != nil {
		return yuv.Geometry{}, err
	}
	if len(inst.outLinked) == 0 && len(inst.inputs) > 0 {
		return inst.inputs[0].geometry, nil
	}
	return inst.geometry, nil
}

// Filters returns filter names in creation order.
func (g *Graph) Filters() []string {
	names := make([]string, len(g.instances))
	for i, inst := range g.instances {
		names[i] = inst.name
	}
	return names
}

// Close releases every filter and buffered frame.
func (g *Graph) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	g.instances = nil
	g.byName = map[string]*instance{}
	return nil
}

var _ ports.FilterGraph = (*Graph)(nil)
var _ ports.GraphFactory = (*Factory)(nil)
