// Package yuv provides planar YUV 4:2:0 frame buffers.
package yuv

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"
)

// PixelFormat is the only pixel format handled by the pipeline.
const PixelFormat = "yuv420p"

// NumPlanes is the number of planes in a 4:2:0 frame.
const NumPlanes = 3

// MaxDimension is the largest accepted frame width or height.
const MaxDimension = 16384

// ErrInvalidGeometry is returned for zero, negative, odd or oversized
// frame dimensions.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry is the size of a stream's frames in pixels.
type Geometry struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// ParseGeometry parses a "WxH" tag such as "1280x720".
// It only checks the syntax; use Validate to check the values.
func ParseGeometry(s string) (Geometry, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Geometry{}, fmt.Errorf("%w: %q is not WxH", ErrInvalidGeometry, s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return Geometry{}, fmt.Errorf("%w: bad width in %q", ErrInvalidGeometry, s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return Geometry{}, fmt.Errorf("%w: bad height in %q", ErrInvalidGeometry, s)
	}
	return Geometry{Width: w, Height: h}, nil
}

// Validate checks that both dimensions are positive, even as required by
// 4:2:0 chroma subsampling, and at most MaxDimension.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidGeometry, g)
	}
	if g.Width > MaxDimension || g.Height > MaxDimension {
		return fmt.Errorf("%w: %s exceeds %dx%d", ErrInvalidGeometry, g, MaxDimension, MaxDimension)
	}
	if g.Width%2 != 0 || g.Height%2 != 0 {
		return fmt.Errorf("%w: %s must be even", ErrInvalidGeometry, g)
	}
	return nil
}

// IsZero reports whether no geometry was given.
func (g Geometry) IsZero() bool {
	return g.Width == 0 && g.Height == 0
}

// String returns the geometry as "WxH".
func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}

// LumaSize returns the byte size of the Y plane.
func (g Geometry) LumaSize() int {
	return g.Width * g.Height
}

// ChromaSize returns the byte size of one chroma plane.
func (g Geometry) ChromaSize() int {
	return (g.Width / 2) * (g.Height / 2)
}

// FrameSize returns the byte size of a tightly packed frame.
func (g Geometry) FrameSize() int {
	return g.LumaSize() + 2*g.ChromaSize()
}

// Frame is a planar 4:2:0 image with owned backing storage.
// Plane 0 is luma, planes 1 and 2 are Cb and Cr at half resolution.
// Rows of a plane start Strides[i] bytes apart; a stride may exceed
// the plane width when rows are padded.
type Frame struct {
	Width   int
	Height  int
	Planes  [NumPlanes][]byte
	Strides [NumPlanes]int
	PTS     int64 // in time base units
}

// NewFrame allocates a tightly packed frame for g.
func NewFrame(g Geometry) (*Frame, error) {
	return NewFrameAligned(g, 1)
}

// NewFrameAligned allocates a frame whose row strides are rounded up
// to a multiple of align bytes.
func NewFrameAligned(g Geometry, align int) (*Frame, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if align < 1 {
		align = 1
	}

	f := &Frame{Width: g.Width, Height: g.Height}
	sizes := [NumPlanes]int{}
	total := 0
	for i := 0; i < NumPlanes; i++ {
		f.Strides[i] = alignUp(f.PlaneWidth(i), align)
		sizes[i] = f.Strides[i] * f.PlaneHeight(i)
		total += sizes[i]
	}

	buf := make([]byte, total)
	off := 0
	for i := 0; i < NumPlanes; i++ {
		f.Planes[i] = buf[off : off+sizes[i] : off+sizes[i]]
		off += sizes[i]
	}
	return f, nil
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}

// Geometry returns the frame size.
func (f *Frame) Geometry() Geometry {
	return Geometry{Width: f.Width, Height: f.Height}
}

// PlaneWidth returns the number of meaningful bytes per row of plane i.
func (f *Frame) PlaneWidth(i int) int {
	if i == 0 {
		return f.Width
	}
	return f.Width / 2
}

// PlaneHeight returns the number of rows of plane i.
func (f *Frame) PlaneHeight(i int) int {
	if i == 0 {
		return f.Height
	}
	return f.Height / 2
}

// Row returns row y of plane i without its padding.
func (f *Frame) Row(i, y int) []byte {
	off := y * f.Strides[i]
	return f.Planes[i][off : off+f.PlaneWidth(i)]
}

// Packed reports whether every plane is stored without row padding.
func (f *Frame) Packed() bool {
	for i := 0; i < NumPlanes; i++ {
		if f.Strides[i] != f.PlaneWidth(i) {
			return false
		}
	}
	return true
}

// Fill reads one frame's worth of pixels from r, plane by plane in
// luma, Cb, Cr order. It returns the number of bytes read. A source with
// fewer bytes than a full frame yields the short count together with
// io.EOF (nothing read) or io.ErrUnexpectedEOF (partial frame).
func (f *Frame) Fill(r io.Reader) (int, error) {
	total := 0
	for i := 0; i < NumPlanes; i++ {
		if f.Strides[i] == f.PlaneWidth(i) {
			n, err := io.ReadFull(r, f.Planes[i][:f.PlaneWidth(i)*f.PlaneHeight(i)])
			total += n
			if err != nil {
				return total, shortRead(total, err)
			}
			continue
		}
		for y := 0; y < f.PlaneHeight(i); y++ {
			n, err := io.ReadFull(r, f.Row(i, y))
			total += n
			if err != nil {
				return total, shortRead(total, err)
			}
		}
	}
	return total, nil
}

func shortRead(total int, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		if total == 0 {
			return io.EOF
		}
		return io.ErrUnexpectedEOF
	}
	return err
}

// CopyFrom copies the pixels of src into f. Both frames must have the
// same geometry; strides may differ.
func (f *Frame) CopyFrom(src *Frame) error {
	if src.Width != f.Width || src.Height != f.Height {
		return fmt.Errorf("copy %s frame into %s frame", src.Geometry(), f.Geometry())
	}
	for i := 0; i < NumPlanes; i++ {
		for y := 0; y < f.PlaneHeight(i); y++ {
			copy(f.Row(i, y), src.Row(i, y))
		}
	}
	f.PTS = src.PTS
	return nil
}

// CopyTo copies f into dst with its top-left corner at (x, y).
// x and y must be even so the chroma planes stay aligned.
func (f *Frame) CopyTo(dst *Frame, x, y int) error {
	if x%2 != 0 || y%2 != 0 {
		return fmt.Errorf("%w: offset %d,%d must be even", ErrInvalidGeometry, x, y)
	}
	if x < 0 || y < 0 || x+f.Width > dst.Width || y+f.Height > dst.Height {
		return fmt.Errorf("%s frame at %d,%d does not fit in %s", f.Geometry(), x, y, dst.Geometry())
	}
	for i := 0; i < NumPlanes; i++ {
		px, py := x, y
		if i > 0 {
			px, py = x/2, y/2
		}
		for row := 0; row < f.PlaneHeight(i); row++ {
			off := (py+row)*dst.Strides[i] + px
			copy(dst.Planes[i][off:off+f.PlaneWidth(i)], f.Row(i, row))
		}
	}
	return nil
}

// Clear paints the whole frame with one colour.
func (f *Frame) Clear(y, cb, cr uint8) {
	vals := [NumPlanes]uint8{y, cb, cr}
	for i := 0; i < NumPlanes; i++ {
		for row := 0; row < f.PlaneHeight(i); row++ {
			line := f.Row(i, row)
			for j := range line {
				line[j] = vals[i]
			}
		}
	}
}

// Black is limited-range video black.
var Black = [NumPlanes]uint8{16, 128, 128}

// Image returns a copy of the frame as an image.YCbCr.
func (f *Frame) Image() *image.YCbCr {
	img := image.NewYCbCr(image.Rect(0, 0, f.Width, f.Height), image.YCbCrSubsampleRatio420)
	for y := 0; y < f.Height; y++ {
		copy(img.Y[y*img.YStride:], f.Row(0, y))
	}
	for y := 0; y < f.Height/2; y++ {
		copy(img.Cb[y*img.CStride:], f.Row(1, y))
		copy(img.Cr[y*img.CStride:], f.Row(2, y))
	}
	return img
}
