package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveGraphJSON saves the built graph description as JSON.
	SaveGraphJSON(data []byte) error

	// SaveRunJSON saves the run result as JSON.
	SaveRunJSON(data []byte) error

	// SavePreview saves a preview image of a composited frame.
	SavePreview(index int, img image.Image) error
}
