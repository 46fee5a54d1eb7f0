package rawvideo

import (
	"bufio"
	"fmt"
	"io"

	"github.com/user/vmix/pkg/yuv"
)

// Writer serializes frames as tightly packed planes.
// Rows are always addressed through the frame's strides.
type Writer struct {
	w      *bufio.Writer
	frames int
	bytes  int64
}

// NewWriter creates a buffered Writer. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteFrame writes the luma plane row by row followed by both chroma
// planes at half width and height.
func (w *Writer) WriteFrame(f *yuv.Frame) error {
	for i := 0; i < yuv.NumPlanes; i++ {
		for y := 0; y < f.PlaneHeight(i); y++ {
			n, err := w.w.Write(f.Row(i, y))
			w.bytes += int64(n)
			if err != nil {
				return fmt.Errorf("write frame %d plane %d: %w", w.frames, i, err)
			}
		}
	}
	w.frames++
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// FramesWritten returns the number of frames written.
func (w *Writer) FramesWritten() int {
	return w.frames
}

// BytesWritten returns the number of bytes written.
func (w *Writer) BytesWritten() int64 {
	return w.bytes
}
