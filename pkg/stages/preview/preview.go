// Package preview renders annotated thumbnails of composited frames.
package preview

import (
	"context"
	"errors"
	"image/color"
	"sync"

	"github.com/user/vmix/pkg/pipeline"
	"github.com/user/vmix/pkg/ports"
)

// DefaultWidth is the preview width when none is requested.
const DefaultWidth = 320

// Theme holds the preview colours.
type Theme struct {
	Background color.Color
	Outline    color.Color
	LabelBG    color.Color
	LabelText  color.Color
	FontSize   float64
	FontPath   string
}

// DefaultTheme returns the default preview theme.
func DefaultTheme() Theme {
	return Theme{
		Background: color.Black,
		Outline:    color.RGBA{R: 255, G: 196, B: 0, A: 255},
		LabelBG:    color.RGBA{A: 160},
		LabelText:  color.White,
		FontSize:   12,
	}
}

// Stage scales a frame down and outlines the area of every input.
type Stage struct {
	renderer ports.Renderer
	theme    Theme
	logger   ports.Logger
	fontOnce sync.Once
}

// NewStage creates a new preview stage.
func NewStage(renderer ports.Renderer, theme Theme, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		theme:    theme,
		logger:   logger.WithComponent("preview"),
	}
}

const labelHeight = 16

// Execute renders the preview.
func (s *Stage) Execute(ctx context.Context, input pipeline.PreviewInput) (pipeline.PreviewResult, error) {
	if input.Frame == nil {
		return pipeline.PreviewResult{}, errors.New("no frame")
	}
	fw, fh := input.Frame.Width, input.Frame.Height

	width := input.Width
	if width <= 0 {
		width = DefaultWidth
	}
	if width > fw {
		width = fw
	}
	scale := float64(width) / float64(fw)
	height := max(1, int(float64(fh)*scale+0.5))

	canvas := s.renderer.CreateCanvas(width, height, s.theme.Background)
	canvas.DrawImageScaled(input.Frame.Image(), 0, 0, width, height)

	style := ports.TextStyle{
		FontSize: s.theme.FontSize,
		FontPath: s.theme.FontPath,
		Color:    s.theme.LabelText,
		Align:    ports.AlignLeft,
	}
	for i, r := range input.Regions {
		x := int(float64(r.X) * scale)
		y := int(float64(r.Y) * scale)
		w := max(1, int(float64(r.Width)*scale))
		h := max(1, int(float64(r.Height)*scale))
		canvas.DrawRectStroke(x, y, w, h, s.theme.Outline, 1)

		if i < len(input.Labels) && input.Labels[i] != "" && h > labelHeight {
			canvas.DrawRect(x+1, y+1, w-2, labelHeight, s.theme.LabelBG)
			if err := canvas.DrawText(input.Labels[i], x+4, y+1+labelHeight/2, style); err != nil {
				s.fontOnce.Do(func() {
					s.logger.Warn("Font %s unavailable, using the built-in face: %s", style.FontPath, err)
				})
			}
		}
	}

	return pipeline.PreviewResult{Image: canvas.ToImage()}, nil
}
