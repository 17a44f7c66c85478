package gpu

import "errors"

var (
	// ErrUnavailable is returned when no GPU device can be opened, or when
	// the package is built with the nogpu tag.
	ErrUnavailable = errors.New("gpu: no GPU available")

	// ErrNotInitialized is returned by Renderer methods called before the
	// renderer has a device, or after Close.
	ErrNotInitialized = errors.New("gpu: renderer not initialized")

	// ErrNoImage is returned when the output image is used before Allocate.
	ErrNoImage = errors.New("gpu: output image not allocated")
)
