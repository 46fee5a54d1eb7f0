package filtergraph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/yuv"
)

// eofAction decides what a stack does once one of its inputs has ended.
type eofAction string

const (
	eofEndAll eofAction = "endall" // close the output
	eofRepeat eofAction = "repeat" // keep showing the input's last frame
	eofPad    eofAction = "pad"    // show black in the input's area
)

// outputAlign is the row alignment of stacked frames.
const outputAlign = 32

// stack places its inputs side by side in one frame.
type stack struct {
	kind      string
	inputs    int
	layout    string
	eofAction eofAction

	positions [][2]int
	output    yuv.Geometry

	pending []*yuv.Frame
	last    []*yuv.Frame
	ended   []bool
	done    bool
}

// newStack returns a constructor for xstack, vstack or hstack.
// All three accept inputs, shortest and eof_action; xstack also takes a
// layout such as "0_0|0_h0".
func newStack(kind string) constructor {
	return func(args string) (filter, error) {
		opts, err := parseOptions(args)
		if err != nil {
			return nil, err
		}

		s := &stack{kind: kind}
		if s.inputs, err = opts.takeInt("inputs", 2); err != nil {
			return nil, err
		}
		if s.inputs < 1 {
			return nil, fmt.Errorf("inputs must be at least 1, got %d", s.inputs)
		}
		if kind == "xstack" {
			s.layout = opts.take("layout", "")
		}

		shortest, err := opts.takeBool("shortest")
		if err != nil {
			return nil, err
		}
		switch a := eofAction(opts.take("eof_action", string(eofRepeat))); a {
		case eofEndAll, eofRepeat, eofPad:
			s.eofAction = a
		default:
			return nil, fmt.Errorf("option eof_action: unknown action %q", a)
		}
		if shortest {
			s.eofAction = eofEndAll
		}
		if err := opts.unused(); err != nil {
			return nil, err
		}

		s.pending = make([]*yuv.Frame, s.inputs)
		s.last = make([]*yuv.Frame, s.inputs)
		s.ended = make([]bool, s.inputs)
		return s, nil
	}
}

func (s *stack) numInputs() int  { return s.inputs }
func (s *stack) numOutputs() int { return 1 }

func (s *stack) configure(in []yuv.Geometry) (yuv.Geometry, error) {
	layout := s.layout
	switch {
	case s.kind == "vstack":
		layout = defaultLayout("0_", "h", "", s.inputs)
	case s.kind == "hstack" || layout == "":
		layout = defaultLayout("", "w", "_0", s.inputs)
	}

	cells := strings.Split(layout, "|")
	if len(cells) != s.inputs {
		return yuv.Geometry{}, fmt.Errorf("layout %q has %d positions for %d inputs", layout, len(cells), s.inputs)
	}

	s.positions = make([][2]int, s.inputs)
	var out yuv.Geometry
	for i, cell := range cells {
		xs, ys, ok := strings.Cut(cell, "_")
		if !ok {
			return yuv.Geometry{}, fmt.Errorf("layout position %q is not X_Y", cell)
		}
		x, err := evalOffset(xs, in)
		if err != nil {
			return yuv.Geometry{}, err
		}
		y, err := evalOffset(ys, in)
		if err != nil {
			return yuv.Geometry{}, err
		}
		if x%2 != 0 || y%2 != 0 {
			return yuv.Geometry{}, fmt.Errorf("%w: input %d placed at odd offset %d,%d", yuv.ErrInvalidGeometry, i, x, y)
		}
		s.positions[i] = [2]int{x, y}
		out.Width = max(out.Width, x+in[i].Width)
		out.Height = max(out.Height, y+in[i].Height)
	}

	s.output = out
	return out, nil
}

// defaultLayout builds "0_0|0_h0|0_h0+h1" style layouts.
func defaultLayout(prefix, dim, suffix string, n int) string {
	cells := make([]string, n)
	for i := range cells {
		off := "0"
		if i > 0 {
			terms := make([]string, i)
			for j := range terms {
				terms[j] = dim + strconv.Itoa(j)
			}
			off = strings.Join(terms, "+")
		}
		if prefix == "" {
			cells[i] = off + suffix
		} else {
			cells[i] = prefix + off
		}
	}
	return strings.Join(cells, "|")
}

// evalOffset evaluates a "+" separated sum of integers and wN/hN terms.
func evalOffset(expr string, in []yuv.Geometry) (int, error) {
	total := 0
	for _, term := range strings.Split(expr, "+") {
		term = strings.TrimSpace(term)
		if term == "" {
			return 0, fmt.Errorf("empty term in %q", expr)
		}
		if term[0] == 'w' || term[0] == 'h' {
			idx, err := strconv.Atoi(term[1:])
			if err != nil || idx < 0 || idx >= len(in) {
				return 0, fmt.Errorf("bad input reference %q in %q", term, expr)
			}
			if term[0] == 'w' {
				total += in[idx].Width
			} else {
				total += in[idx].Height
			}
			continue
		}
		n, err := strconv.Atoi(term)
		if err != nil {
			return 0, fmt.Errorf("bad term %q in %q", term, expr)
		}
		total += n
	}
	return total, nil
}

func (s *stack) pull(in []upstream) (*yuv.Frame, error) {
	if s.done {
		return nil, ports.ErrEOF
	}

	for i := range in {
		if s.pending[i] != nil || s.ended[i] {
			continue
		}
		f, err := in[i]()
		switch {
		case err == nil:
			s.pending[i] = f
		case errors.Is(err, ports.ErrEOF):
			s.ended[i] = true
		default:
			return nil, err
		}
	}

	// Wait until every live input has a frame.
	anyEnded, allEnded := false, true
	for i := range in {
		if s.ended[i] && s.pending[i] == nil {
			anyEnded = true
			continue
		}
		allEnded = false
		if s.pending[i] == nil {
			return nil, ports.ErrNotReady
		}
	}
	if allEnded || (anyEnded && s.eofAction == eofEndAll) {
		s.finish()
		return nil, ports.ErrEOF
	}

	out, err := yuv.NewFrameAligned(s.output, outputAlign)
	if err != nil {
		return nil, err
	}
	out.Clear(yuv.Black[0], yuv.Black[1], yuv.Black[2])

	for i := range in {
		src := s.pending[i]
		if src == nil {
			if s.eofAction == eofPad {
				continue
			}
			src = s.last[i]
			if src == nil {
				continue
			}
		}
		if err := src.CopyTo(out, s.positions[i][0], s.positions[i][1]); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if src.PTS > out.PTS {
			out.PTS = src.PTS
		}
	}

	for i := range in {
		if s.pending[i] != nil {
			s.last[i] = s.pending[i]
			s.pending[i] = nil
		}
	}
	return out, nil
}

func (s *stack) finish() {
	s.done = true
	for i := range s.pending {
		s.pending[i] = nil
		s.last[i] = nil
	}
}
