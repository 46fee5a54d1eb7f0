package ports

import (
	"image"
	"image/color"
)

// Renderer draws debug previews of composited frames.
type Renderer interface {
	// CreateCanvas returns a width x height canvas filled with bg.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// EncodePNG encodes img as PNG.
	EncodePNG(img image.Image) ([]byte, error)
}

// Canvas is a drawing surface. Coordinates are in canvas pixels with the
// origin at the top left.
type Canvas interface {
	// DrawImageScaled draws img resized into the width x height box at (x, y).
	DrawImageScaled(img image.Image, x, y, width, height int)

	DrawRect(x, y, w, h int, c color.Color)

	// DrawRectStroke outlines the box, keeping the stroke inside it.
	DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64)

	// DrawText draws text vertically centred on y. If style.FontPath
	// cannot be loaded the text is drawn with the built-in face and the
	// load error is returned.
	DrawText(text string, x, y int, style TextStyle) error

	ToImage() image.Image
}

// TextStyle defines text rendering properties. A zero FontPath selects
// the renderer's built-in face.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
	Align    TextAlign
}

// TextAlign is the horizontal anchor of a text run.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)
