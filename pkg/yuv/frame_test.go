package yuv

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestParseGeometry(t *testing.T) {
	tests := []struct {
		in      string
		want    Geometry
		wantErr bool
	}{
		{in: "64x64", want: Geometry{Width: 64, Height: 64}},
		{in: "1280X720", want: Geometry{Width: 1280, Height: 720}},
		{in: " 32x16 ", want: Geometry{Width: 32, Height: 16}},
		{in: "0x0", want: Geometry{}},
		{in: "64", wantErr: true},
		{in: "ax64", wantErr: true},
		{in: "64xb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGeometry(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGeometry) {
					t.Errorf("expected ErrInvalidGeometry, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestGeometry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		g       Geometry
		wantErr bool
	}{
		{"even", Geometry{Width: 64, Height: 64}, false},
		{"zero", Geometry{}, true},
		{"negative", Geometry{Width: -2, Height: 2}, true},
		{"odd width", Geometry{Width: 63, Height: 64}, true},
		{"odd height", Geometry{Width: 64, Height: 65}, true},
		{"largest", Geometry{Width: MaxDimension, Height: MaxDimension}, false},
		{"too wide", Geometry{Width: MaxDimension + 2, Height: 64}, true},
		{"too tall", Geometry{Width: 64, Height: MaxDimension + 2}, true},
		{"overflowing", Geometry{Width: 4000000000, Height: 4000000000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewFrame_RejectsOversizedGeometry(t *testing.T) {
	f, err := NewFrame(Geometry{Width: 4000000000, Height: 4000000000})
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
	if f != nil {
		t.Error("expected no frame")
	}
}

func TestGeometry_FrameSize(t *testing.T) {
	for _, g := range []Geometry{{2, 2}, {32, 32}, {64, 128}, {1920, 1080}, {6, 10}} {
		want := g.Width*g.Height + 2*(g.Width/2)*(g.Height/2)
		if got := g.FrameSize(); got != want {
			t.Errorf("%s: expected %d, got %d", g, want, got)
		}
	}
}

func TestNewFrame_Packed(t *testing.T) {
	f, err := NewFrame(Geometry{Width: 8, Height: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Packed() {
		t.Error("expected packed frame")
	}
	if len(f.Planes[0]) != 32 || len(f.Planes[1]) != 8 || len(f.Planes[2]) != 8 {
		t.Errorf("unexpected plane sizes %d/%d/%d", len(f.Planes[0]), len(f.Planes[1]), len(f.Planes[2]))
	}
}

func TestNewFrame_InvalidGeometry(t *testing.T) {
	if _, err := NewFrame(Geometry{Width: 3, Height: 4}); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestNewFrameAligned(t *testing.T) {
	f, err := NewFrameAligned(Geometry{Width: 10, Height: 4}, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Strides[0] != 16 || f.Strides[1] != 16 || f.Strides[2] != 16 {
		t.Errorf("expected strides of 16, got %v", f.Strides)
	}
	if f.Packed() {
		t.Error("expected padded frame")
	}
	if len(f.Row(0, 3)) != 10 || len(f.Row(1, 1)) != 5 {
		t.Error("rows must exclude padding")
	}
}

func TestFrame_Fill(t *testing.T) {
	for _, g := range []Geometry{{2, 2}, {16, 8}, {64, 64}} {
		f, _ := NewFrame(g)
		src := bytes.Repeat([]byte{7}, g.FrameSize()*2)
		r := bytes.NewReader(src)

		n, err := f.Fill(r)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", g, err)
		}
		if n != g.FrameSize() {
			t.Errorf("%s: expected %d bytes, got %d", g, g.FrameSize(), n)
		}
		if r.Len() != g.FrameSize() {
			t.Errorf("%s: expected exactly one frame consumed, %d bytes left", g, r.Len())
		}
	}
}

func TestFrame_Fill_PlaneOrder(t *testing.T) {
	g := Geometry{Width: 4, Height: 2}
	f, _ := NewFrame(g)
	src := append(append(bytes.Repeat([]byte{1}, 8), 2, 2), 3, 3)

	if _, err := f.Fill(bytes.NewReader(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Planes[0][7] != 1 || f.Planes[1][1] != 2 || f.Planes[2][0] != 3 {
		t.Errorf("planes filled out of order: %v %v %v", f.Planes[0], f.Planes[1], f.Planes[2])
	}
}

func TestFrame_Fill_Padded(t *testing.T) {
	g := Geometry{Width: 4, Height: 2}
	f, _ := NewFrameAligned(g, 8)
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	n, err := f.Fill(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 12 {
		t.Errorf("expected 12 bytes, got %d", n)
	}
	if !bytes.Equal(f.Row(0, 1), []byte{5, 6, 7, 8}) {
		t.Errorf("unexpected second luma row %v", f.Row(0, 1))
	}
	if f.Row(2, 0)[1] != 12 {
		t.Errorf("unexpected Cr row %v", f.Row(2, 0))
	}
}

func TestFrame_Fill_Short(t *testing.T) {
	g := Geometry{Width: 8, Height: 8}
	f, _ := NewFrame(g)

	n, err := f.Fill(bytes.NewReader(make([]byte, g.FrameSize()-1)))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
	if n != g.FrameSize()-1 {
		t.Errorf("expected short count %d, got %d", g.FrameSize()-1, n)
	}

	n, err = f.Fill(bytes.NewReader(nil))
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 bytes, got %d", n)
	}
}

func TestFrame_CopyToAndFrom(t *testing.T) {
	top, _ := NewFrame(Geometry{Width: 4, Height: 4})
	top.Clear(200, 10, 20)
	dst, _ := NewFrameAligned(Geometry{Width: 4, Height: 8}, 32)
	dst.Clear(0, 0, 0)

	if err := top.CopyTo(dst, 0, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dst.Row(0, 3)[0] != 0 || dst.Row(0, 4)[0] != 200 {
		t.Error("luma not placed at row 4")
	}
	if dst.Row(1, 1)[0] != 0 || dst.Row(1, 2)[1] != 10 || dst.Row(2, 3)[1] != 20 {
		t.Error("chroma not placed at row 2")
	}

	packed, _ := NewFrame(dst.Geometry())
	if err := packed.CopyFrom(dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if packed.Planes[0][4*4] != 200 {
		t.Error("CopyFrom did not honour strides")
	}

	if err := top.CopyTo(dst, 1, 0); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry for odd offset, got %v", err)
	}
	if err := top.CopyTo(dst, 2, 0); err == nil {
		t.Error("expected error for frame that does not fit")
	}
}

func TestFrame_Image(t *testing.T) {
	f, _ := NewFrameAligned(Geometry{Width: 4, Height: 2}, 16)
	f.Clear(100, 110, 120)

	img := f.Image()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	c := img.YCbCrAt(3, 1)
	if c.Y != 100 || c.Cb != 110 || c.Cr != 120 {
		t.Errorf("unexpected colour %+v", c)
	}
}
