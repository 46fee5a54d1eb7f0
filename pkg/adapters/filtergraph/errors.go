package filtergraph

import "errors"

var (
	// ErrUnknownFilter is returned for a filter kind the graph cannot create.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrUnsupportedFormat is returned when a filter is asked for a pixel
	// format other than yuv420p.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")

	// ErrUnconnectedPad is returned when a pad or link label is left open.
	ErrUnconnectedPad = errors.New("unconnected pad")

	// ErrNotConfigured is returned when frames are pushed or pulled before Config.
	ErrNotConfigured = errors.New("graph not configured")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("graph closed")
)
