// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame sequences one displayed frame of the visualizer.
//
// The Driver is platform independent. A host (native window or browser
// canvas) supplies input events and a display surface through the Host
// interface, and a GPU backend supplies the Renderer. The host calls
// Driver.Frame once per display refresh.
package frame

import (
	"errors"
	"fmt"

	"github.com/gogpu/mandelbrot/navigation"
	"github.com/gogpu/mandelbrot/viewport"
)

// ErrSurfaceUnavailable is returned by Surface.Acquire when the surface
// cannot accept a frame right now (minimized, lost, being reconfigured).
// The driver skips the frame and tries again on the next call.
var ErrSurfaceUnavailable = errors.New("frame: surface unavailable")

// Host is the platform glue around the driver.
type Host interface {
	// PollEvents returns and forgets all input events since the last call.
	PollEvents() []navigation.Event

	// Surface returns the display surface, or nil if none exists yet.
	Surface() Surface
}

// Surface is the display target.
type Surface interface {
	// Size returns the drawable size in pixels. Zero means unavailable.
	Size() (width, height int)

	// Acquire returns the backend-specific color target for this frame.
	Acquire() (target any, err error)

	// Present shows the frame drawn into the acquired target.
	Present() error
}

// Renderer executes the GPU side of a frame. Calls arrive in this order:
//
//	Allocate (only on size change), Upload, Begin, Dispatch, Draw, Submit
//
// Dispatch and Draw record commands; Submit hands them to the GPU in
// recording order, so the kernel finishes writing the output image before
// the presentation pass reads it. Discard drops a recording that will not
// be submitted.
type Renderer interface {
	Allocate(width, height int) error
	Upload(p viewport.Params) error
	Begin() error
	Dispatch(width, height int)
	Draw(target any)
	Submit() error
	Discard()
}

// Recompute selects when the kernel runs.
type Recompute uint8

const (
	// RecomputeAlways dispatches the kernel on every frame.
	RecomputeAlways Recompute = iota

	// RecomputeOnChange dispatches only when the viewport parameters or
	// the output size changed since the last dispatch. The presentation
	// pass still runs every frame.
	RecomputeOnChange
)

func (r Recompute) String() string {
	switch r {
	case RecomputeAlways:
		return "always"
	case RecomputeOnChange:
		return "on-change"
	}
	return fmt.Sprintf("Recompute(%d)", r)
}

// MarshalText implements encoding.TextMarshaler.
func (r Recompute) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Recompute) UnmarshalText(b []byte) error {
	switch string(b) {
	case "always", "":
		*r = RecomputeAlways
	case "on-change":
		*r = RecomputeOnChange
	default:
		return fmt.Errorf("frame: unknown recompute policy %q", b)
	}
	return nil
}

// SkipReason explains why a frame was not drawn.
type SkipReason uint8

const (
	NotSkipped SkipReason = iota
	SkipNoSurface
	SkipSurfaceUnavailable
	SkipAllocation
)

func (s SkipReason) String() string {
	switch s {
	case NotSkipped:
		return "none"
	case SkipNoSurface:
		return "no surface"
	case SkipSurfaceUnavailable:
		return "surface unavailable"
	case SkipAllocation:
		return "allocation failed"
	}
	return fmt.Sprintf("SkipReason(%d)", s)
}

// Result describes one call to Driver.Frame.
type Result struct {
	// Drawn is set when a frame was submitted and presented.
	Drawn bool

	// Recomputed is set when the kernel was dispatched.
	Recomputed bool

	// Skipped explains a frame that was not drawn.
	Skipped SkipReason

	// Width and Height are the output image size used for the frame.
	Width, Height int
}
