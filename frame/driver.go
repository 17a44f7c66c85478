// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/mandelbrot/navigation"
)

// Option configures a Driver.
type Option func(*Driver)

// WithRecompute sets the kernel dispatch policy.
func WithRecompute(r Recompute) Option {
	return func(d *Driver) { d.recompute = r }
}

// Driver runs frames. It is not safe for concurrent use; the host calls
// Frame from its render loop only.
type Driver struct {
	host       Host
	renderer   Renderer
	controller *navigation.Controller
	recompute  Recompute

	events []navigation.Event

	// Size of the currently allocated output image; zero when none.
	allocWidth  int
	allocHeight int

	// dirty is set when the output image no longer matches the params.
	dirty bool

	drawn   atomic.Uint64
	skipped atomic.Uint64
}

// NewDriver returns a driver that applies host events to controller and
// renders with renderer.
func NewDriver(host Host, renderer Renderer, controller *navigation.Controller, opts ...Option) *Driver {
	d := &Driver{
		host:       host,
		renderer:   renderer,
		controller: controller,
		dirty:      true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Controller returns the navigation controller driven by d.
func (d *Driver) Controller() *navigation.Controller { return d.controller }

// Stats returns the number of drawn and skipped frames.
func (d *Driver) Stats() (drawn, skipped uint64) {
	return d.drawn.Load(), d.skipped.Load()
}

// Frame runs one frame:
//
//  1. drain and apply pending navigation events
//  2. reallocate the output image if the surface size changed
//  3. upload the viewport parameters
//  4. dispatch the kernel over the whole output image
//  5. draw the output image into the surface's current frame
//  6. present
//
// A frame that cannot be drawn because the surface is unavailable or the
// output image cannot be allocated is skipped and reported in Result; the
// next call retries. Other failures are returned and leave the driver
// ready for the next frame; a failed submit discards the recording.
func (d *Driver) Frame(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// 1. Events.
	d.events = append(d.events[:0], d.host.PollEvents()...)
	if eff := d.controller.ApplyAll(d.events); eff.Changed {
		d.dirty = true
	}

	surface := d.host.Surface()
	if surface == nil {
		return d.skip(SkipNoSurface, 0, 0), nil
	}
	w, h := surface.Size()
	if w <= 0 || h <= 0 {
		return d.skip(SkipSurfaceUnavailable, w, h), nil
	}
	// The surface is the authority on size; keep pan mapping in sync even
	// when the host missed a resize notification.
	if cw, ch := d.controller.Size(); cw != w || ch != h {
		d.controller.Apply(navigation.Resize(w, h))
	}

	// 2. Size-dependent resources.
	if w != d.allocWidth || h != d.allocHeight {
		if err := d.renderer.Allocate(w, h); err != nil {
			d.allocWidth, d.allocHeight = 0, 0
			slogger().Warn("frame: output image allocation failed, retrying next frame",
				"width", w, "height", h, "err", err)
			return d.skip(SkipAllocation, w, h), nil
		}
		slogger().Debug("frame: output image allocated", "width", w, "height", h)
		d.allocWidth, d.allocHeight = w, h
		d.dirty = true
	}

	target, err := surface.Acquire()
	if err != nil {
		if errors.Is(err, ErrSurfaceUnavailable) {
			return d.skip(SkipSurfaceUnavailable, w, h), nil
		}
		return Result{Width: w, Height: h}, fmt.Errorf("frame: acquire surface: %w", err)
	}

	recompute := d.recompute == RecomputeAlways || d.dirty

	// 3. Parameters.
	if recompute {
		if err := d.renderer.Upload(d.controller.Params()); err != nil {
			return Result{Width: w, Height: h}, fmt.Errorf("frame: upload params: %w", err)
		}
	}

	if err := d.renderer.Begin(); err != nil {
		return Result{Width: w, Height: h}, fmt.Errorf("frame: begin: %w", err)
	}

	// 4. Kernel. 5. Presentation.
	if recompute {
		d.renderer.Dispatch(w, h)
	}
	d.renderer.Draw(target)

	if err := d.renderer.Submit(); err != nil {
		d.renderer.Discard()
		return Result{Width: w, Height: h}, fmt.Errorf("frame: submit: %w", err)
	}
	if recompute {
		d.dirty = false
	}

	// 6. Present.
	if err := surface.Present(); err != nil {
		if errors.Is(err, ErrSurfaceUnavailable) {
			return d.skip(SkipSurfaceUnavailable, w, h), nil
		}
		return Result{Width: w, Height: h}, fmt.Errorf("frame: present: %w", err)
	}

	d.drawn.Add(1)
	return Result{Drawn: true, Recomputed: recompute, Width: w, Height: h}, nil
}

func (d *Driver) skip(reason SkipReason, w, h int) Result {
	d.skipped.Add(1)
	slogger().Debug("frame: skipped", "reason", reason.String())
	return Result{Skipped: reason, Width: w, Height: h}
}

// Invalidate forces the next frame to dispatch the kernel regardless of
// the recompute policy.
func (d *Driver) Invalidate() { d.dirty = true }
