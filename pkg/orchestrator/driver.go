package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/vmix/pkg/pipeline"
	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/rawvideo"
	"github.com/user/vmix/pkg/yuv"
)

// State is a phase of the mixing loop.
type State int

const (
	// StateRunning reads one frame per live stream and pushes it.
	StateRunning State = iota
	// StateDrainingSink pulls every composited frame that is ready.
	StateDrainingSink
	// StateTerminated performs no further pushes or pulls.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDrainingSink:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// TerminationReason records why the loop stopped.
type TerminationReason string

const (
	ReasonShortestEnded TerminationReason = "shortest-input-ended"
	ReasonAllEnded      TerminationReason = "all-inputs-ended"
	ReasonSinkClosed    TerminationReason = "sink-closed"
	ReasonCancelled     TerminationReason = "cancelled"
	ReasonFailed        TerminationReason = "failed"
)

type streamState struct {
	exhausted  bool
	framesRead int
	eofSent    bool
}

// driver owns the per-round read, push and drain loop.
type driver struct {
	graph   ports.FilterGraph
	sources []string
	sink    string
	readers []*rawvideo.Reader
	frames  []*yuv.Frame
	writer  *rawvideo.Writer
	policy  pipeline.Policy
	logger  ports.Logger

	streams    []streamState
	state      State
	sinkClosed bool
	rounds     int
	reason     TerminationReason

	// onFrame is called with every frame pulled from the sink.
	onFrame func(index int, frame *yuv.Frame)
}

func newDriver(build pipeline.BuildResult, readers []*rawvideo.Reader, writer *rawvideo.Writer, policy pipeline.Policy, logger ports.Logger) (*driver, error) {
	if len(build.Sources) != len(readers) {
		return nil, fmt.Errorf("graph has %d sources for %d inputs", len(build.Sources), len(readers))
	}
	frames := make([]*yuv.Frame, len(readers))
	for i, r := range readers {
		f, err := yuv.NewFrame(r.Geometry())
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		frames[i] = f
	}
	return &driver{
		graph:   build.Graph,
		sources: build.Sources,
		sink:    build.Sink,
		readers: readers,
		frames:  frames,
		writer:  writer,
		policy:  policy,
		logger:  logger.WithComponent("driver"),
		streams: make([]streamState, len(readers)),
		state:   StateRunning,
	}, nil
}

// run loops until the termination policy is met, the context is
// cancelled or a step fails.
func (d *driver) run(ctx context.Context) error {
	for d.state != StateTerminated {
		if err := ctx.Err(); err != nil {
			d.terminate(ReasonCancelled)
			return err
		}

		ended, err := d.readRound()
		if err != nil {
			d.terminate(ReasonFailed)
			return err
		}
		d.transition(StateDrainingSink)

		if err := d.drain(); err != nil {
			d.terminate(ReasonFailed)
			return err
		}
		d.rounds++

		if reason, done := d.finished(ended); done {
			d.terminate(reason)
		} else {
			d.transition(StateRunning)
		}
	}
	return nil
}

// readRound reads one frame from every live stream in index order, then
// pushes the frames into their sources. It reports whether any stream
// reached its end during the round.
//
// Under the shortest policy reading stops at the first stream that ends
// and nothing is pushed for that round, so every stream hands the graph
// the same number of frames whatever its position.
func (d *driver) readRound() (bool, error) {
	ended := false
	read := make([]bool, len(d.readers))
	for i, r := range d.readers {
		st := &d.streams[i]
		if st.exhausted {
			continue
		}

		err := r.ReadFrame(d.frames[i])
		if errors.Is(err, io.EOF) {
			st.exhausted = true
			ended = true
			d.logger.Debug("Stream %d ended after %d frames", i, st.framesRead)
			if d.policy == pipeline.PolicyShortest {
				return ended, nil
			}
			continue
		}
		if err != nil {
			return ended, fmt.Errorf("input %d: %w", i, err)
		}
		read[i] = true
	}

	for i := range d.readers {
		st := &d.streams[i]
		if read[i] {
			if err := d.graph.Push(d.sources[i], d.frames[i], ports.PushKeepRef); err != nil {
				return ended, fmt.Errorf("push frame %d into %s: %w", st.framesRead, d.sources[i], err)
			}
			st.framesRead++
			continue
		}
		if st.exhausted && !st.eofSent {
			if err := d.graph.Push(d.sources[i], nil, 0); err != nil {
				return ended, fmt.Errorf("end stream %s: %w", d.sources[i], err)
			}
			st.eofSent = true
		}
	}
	return ended, nil
}

// drain writes every frame the sink has ready.
func (d *driver) drain() error {
	for !d.sinkClosed {
		frame, err := d.graph.Pull(d.sink)
		switch {
		case err == nil:
			index := d.writer.FramesWritten()
			if err := d.writer.WriteFrame(frame); err != nil {
				return fmt.Errorf("write frame %d: %w", index, err)
			}
			if d.onFrame != nil {
				d.onFrame(index, frame)
			}
		case errors.Is(err, ports.ErrNotReady):
			return nil
		case errors.Is(err, ports.ErrEOF):
			d.logger.Debug("Sink closed after %d frames", d.writer.FramesWritten())
			d.sinkClosed = true
		default:
			return fmt.Errorf("pull from %s: %w", d.sink, err)
		}
	}
	return nil
}

// finished applies the termination policy after a drain.
func (d *driver) finished(endedThisRound bool) (TerminationReason, bool) {
	if d.policy == pipeline.PolicyShortest {
		if endedThisRound {
			return ReasonShortestEnded, true
		}
		if d.sinkClosed {
			return ReasonSinkClosed, true
		}
		return "", false
	}

	if d.allExhausted() {
		return ReasonAllEnded, true
	}
	if d.sinkClosed {
		return ReasonSinkClosed, true
	}
	return "", false
}

func (d *driver) allExhausted() bool {
	for _, st := range d.streams {
		if !st.exhausted {
			return false
		}
	}
	return true
}

func (d *driver) transition(next State) {
	d.state = next
}

func (d *driver) terminate(reason TerminationReason) {
	d.logger.Debug("Terminating after %d rounds: %s", d.rounds, reason)
	d.reason = reason
	d.state = StateTerminated
}

// fill copies the loop counters into r.
func (d *driver) fill(r *RunResult, inputs []pipeline.StreamSpec) {
	r.Streams = make([]StreamResult, len(d.streams))
	for i, st := range d.streams {
		r.Streams[i] = StreamResult{
			Path:       inputs[i].Path,
			Geometry:   inputs[i].Geometry,
			FramesRead: st.framesRead,
			Exhausted:  st.exhausted,
			EOFSent:    st.eofSent,
		}
	}
	r.FramesWritten = d.writer.FramesWritten()
	r.BytesWritten = d.writer.BytesWritten()
	r.Rounds = d.rounds
	r.Reason = d.reason
}
