// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !js

package gogpuhost

import (
	"github.com/gogpu/wgpu"

	"github.com/gogpu/mandelbrot/frame"
)

// windowSurface exposes the swapchain image of the current draw callback.
// It is only valid between begin and end; gogpu presents the image itself
// after the callback returns.
type windowSurface struct {
	width, height int
	view          *wgpu.TextureView
	active        bool
}

var _ frame.Surface = (*windowSurface)(nil)

// begin opens the surface for one draw callback. width and height are in
// physical pixels; view may be nil when the window has no frame to draw.
func (s *windowSurface) begin(width, height int, view *wgpu.TextureView) {
	s.width, s.height = width, height
	s.view = view
	s.active = true
}

func (s *windowSurface) end() {
	s.view = nil
	s.active = false
}

func (s *windowSurface) Size() (width, height int) {
	if !s.active {
		return 0, 0
	}
	return s.width, s.height
}

// Acquire returns the frame's *wgpu.TextureView. A missing view is
// reported as unavailable rather than handed out as a typed nil.
func (s *windowSurface) Acquire() (any, error) {
	if !s.active || s.view == nil {
		return nil, frame.ErrSurfaceUnavailable
	}
	return s.view, nil
}

// Present is a no-op: the window presents after OnDraw returns, behind the
// frame's submission on the same queue.
func (s *windowSurface) Present() error {
	if !s.active {
		return frame.ErrSurfaceUnavailable
	}
	return nil
}
