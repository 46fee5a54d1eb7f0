// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/vmix/pkg/ports"
)

// Sink saves debug output under a base directory:
//
//	graph.json                 built graph (description, pads, filters)
//	run.json                   run result
//	previews/frame-NNNN.png    annotated composited frames
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// Dir returns the base directory.
func (s *Sink) Dir() string {
	return s.baseDir
}

// SaveGraphJSON saves the built graph as JSON.
func (s *Sink) SaveGraphJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "graph.json"), data)
}

// SaveRunJSON saves the run result as JSON.
func (s *Sink) SaveRunJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "run.json"), data)
}

// SavePreview saves a preview image as PNG.
func (s *Sink) SavePreview(index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "previews")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode preview %d: %w", index, err)
	}
	return s.fs.WriteFile(filepath.Join(dir, fmt.Sprintf("frame-%04d.png", index)), data)
}

var _ ports.DebugSink = (*Sink)(nil)
