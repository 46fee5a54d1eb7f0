package filtergraph

import (
	"errors"
	"fmt"

	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/yuv"
)

// bufferSource is a graph entry point fed by Push.
type bufferSource struct {
	geometry      yuv.Geometry
	ticksPerFrame int64
	queue         []*yuv.Frame
	pushed        int64
	eof           bool
}

// newBufferSource accepts video_size, pix_fmt, time_base and frame_rate.
// video_size is required.
func newBufferSource(args string) (filter, error) {
	opts, err := parseOptions(args)
	if err != nil {
		return nil, err
	}

	size := opts.take("video_size", "")
	if size == "" {
		return nil, errors.New("video_size is required")
	}
	g, err := yuv.ParseGeometry(size)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := checkPixelFormat(opts.take("pix_fmt", yuv.PixelFormat)); err != nil {
		return nil, err
	}

	tbNum, tbDen, err := opts.takeRational("time_base")
	if err != nil {
		return nil, err
	}
	if tbNum == 0 {
		tbNum, tbDen = 1, 90000
	}
	frNum, frDen, err := opts.takeRational("frame_rate")
	if err != nil {
		return nil, err
	}
	if frNum == 0 {
		frNum, frDen = 25, 1
	}
	if err := opts.unused(); err != nil {
		return nil, err
	}

	// One frame lasts frDen/frNum seconds, i.e. that many time_base ticks.
	ticks := int64(frDen) * int64(tbDen) / (int64(frNum) * int64(tbNum))
	if ticks < 1 {
		ticks = 1
	}

	return &bufferSource{geometry: g, ticksPerFrame: ticks}, nil
}

func (s *bufferSource) numInputs() int  { return 0 }
func (s *bufferSource) numOutputs() int { return 1 }

func (s *bufferSource) configure(in []yuv.Geometry) (yuv.Geometry, error) {
	return s.geometry, nil
}

func (s *bufferSource) push(f *yuv.Frame, flags ports.PushFlags) error {
	if s.eof {
		return errors.New("push after end of stream")
	}
	if f == nil {
		s.eof = true
		return nil
	}
	if f.Width != s.geometry.Width || f.Height != s.geometry.Height {
		return fmt.Errorf("frame %s does not match source %s", f.Geometry(), s.geometry)
	}

	if flags&ports.PushKeepRef != 0 {
		c, err := yuv.NewFrame(s.geometry)
		if err != nil {
			return err
		}
		if err := c.CopyFrom(f); err != nil {
			return err
		}
		f = c
	}
	f.PTS = s.pushed * s.ticksPerFrame
	s.pushed++
	s.queue = append(s.queue, f)
	return nil
}

func (s *bufferSource) pull(in []upstream) (*yuv.Frame, error) {
	if len(s.queue) == 0 {
		if s.eof {
			return nil, ports.ErrEOF
		}
		return nil, ports.ErrNotReady
	}
	f := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return f, nil
}

// bufferSink is the graph exit point drained by Pull.
type bufferSink struct{}

// newBufferSink accepts pix_fmts, a "|" separated list that may only
// name yuv420p.
func newBufferSink(args string) (filter, error) {
	opts, err := parseOptions(args)
	if err != nil {
		return nil, err
	}
	if v := opts.take("pix_fmts", ""); v != "" {
		for _, pf := range splitList(v) {
			if err := checkPixelFormat(pf); err != nil {
				return nil, err
			}
		}
	}
	if err := opts.unused(); err != nil {
		return nil, err
	}
	return bufferSink{}, nil
}

func (bufferSink) numInputs() int  { return 1 }
func (bufferSink) numOutputs() int { return 0 }

func (bufferSink) configure(in []yuv.Geometry) (yuv.Geometry, error) {
	return yuv.Geometry{}, nil
}

func (bufferSink) pull(in []upstream) (*yuv.Frame, error) {
	return in[0]()
}
