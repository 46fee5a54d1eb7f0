// Package rawvideo reads and writes headerless 4:2:0 planar video files.
package rawvideo

import (
	"errors"
	"fmt"
	"io"

	"github.com/user/vmix/pkg/yuv"
)

// Reader pulls fixed-size frames from a byte source.
// Once the source runs short it reports io.EOF on every later call.
type Reader struct {
	r         io.Reader
	geometry  yuv.Geometry
	exhausted bool
	frames    int
}

// NewReader creates a Reader for frames of geometry g.
func NewReader(r io.Reader, g yuv.Geometry) *Reader {
	return &Reader{
		r:        r,
		geometry: g,
	}
}

// ReadFrame fills f with the next frame.
// It returns io.EOF when fewer bytes than a whole frame remain; the
// partial frame left in f must not be used.
func (r *Reader) ReadFrame(f *yuv.Frame) error {
	if r.exhausted {
		return io.EOF
	}
	if f.Width != r.geometry.Width || f.Height != r.geometry.Height {
		return fmt.Errorf("frame %s does not match stream %s", f.Geometry(), r.geometry)
	}

	_, err := f.Fill(r.r)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			r.exhausted = true
			return io.EOF
		}
		return fmt.Errorf("read frame %d: %w", r.frames, err)
	}

	r.frames++
	return nil
}

// Exhausted reports whether end of stream has been reached.
func (r *Reader) Exhausted() bool {
	return r.exhausted
}

// FramesRead returns the number of complete frames read.
func (r *Reader) FramesRead() int {
	return r.frames
}

// Geometry returns the stream's frame size.
func (r *Reader) Geometry() yuv.Geometry {
	return r.geometry
}
