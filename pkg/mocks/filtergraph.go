package mocks

import (
	"errors"
	"sync"

	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/yuv"
)

// FilterCall records one CreateFilter call.
type FilterCall struct {
	Kind string
	Name string
	Args string
}

// FilterGraph is a mock implementation of ports.FilterGraph.
// Without overrides it records every call, accepts every push and
// reports ErrNotReady from Pull.
type FilterGraph struct {
	mu sync.Mutex

	Created     []FilterCall
	Description string
	Inputs      []ports.Pad
	Outputs     []ports.Pad
	Configured  bool
	Pushed      map[string]int
	EOFs        map[string]bool
	Closed      bool
	Output      yuv.Geometry

	CreateFilterFunc func(kind, name, args string) error
	ParseFunc        func(description string, inputs, outputs []ports.Pad) error
	ConfigFunc       func() error
	PushFunc         func(source string, frame *yuv.Frame, flags ports.PushFlags) error
	PullFunc         func(sink string) (*yuv.Frame, error)
	OutputFunc       func(name string) (yuv.Geometry, error)
}

// NewFilterGraph creates a new mock FilterGraph.
func NewFilterGraph() *FilterGraph {
	return &FilterGraph{
		Pushed: make(map[string]int),
		EOFs:   make(map[string]bool),
	}
}

func (m *FilterGraph) CreateFilter(kind, name, args string) error {
	if m.CreateFilterFunc != nil {
		if err := m.CreateFilterFunc(kind, name, args); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, FilterCall{Kind: kind, Name: name, Args: args})
	return nil
}

func (m *FilterGraph) Parse(description string, inputs, outputs []ports.Pad) error {
	if m.ParseFunc != nil {
		if err := m.ParseFunc(description, inputs, outputs); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Description = description
	m.Inputs = inputs
	m.Outputs = outputs
	return nil
}

func (m *FilterGraph) Config() error {
	if m.ConfigFunc != nil {
		if err := m.ConfigFunc(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Configured = true
	return nil
}

func (m *FilterGraph) Push(source string, frame *yuv.Frame, flags ports.PushFlags) error {
	if m.PushFunc != nil {
		if err := m.PushFunc(source, frame, flags); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if frame == nil {
		if m.EOFs[source] {
			return errors.New("push after end of stream")
		}
		m.EOFs[source] = true
		return nil
	}
	m.Pushed[source]++
	return nil
}

func (m *FilterGraph) Pull(sink string) (*yuv.Frame, error) {
	if m.PullFunc != nil {
		return m.PullFunc(sink)
	}
	return nil, ports.ErrNotReady
}

// OutputGeometry returns Output unless OutputFunc is set.
func (m *FilterGraph) OutputGeometry(name string) (yuv.Geometry, error) {
	if m.OutputFunc != nil {
		return m.OutputFunc(name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Output, nil
}

func (m *FilterGraph) Filters() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.Created))
	for i, c := range m.Created {
		names[i] = c.Name
	}
	return names
}

func (m *FilterGraph) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

var _ ports.FilterGraph = (*FilterGraph)(nil)

// GraphFactory is a mock implementation of ports.GraphFactory that hands
// out a fixed graph.
type GraphFactory struct {
	Graph ports.FilterGraph
	Err   error
}

func (m *GraphFactory) NewGraph() (ports.FilterGraph, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Graph, nil
}

var _ ports.GraphFactory = (*GraphFactory)(nil)
