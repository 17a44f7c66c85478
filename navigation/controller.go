// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package navigation

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/mandelbrot/viewport"
)

// Defaults for Controller options.
const (
	DefaultZoomFactor    float32 = 1.1
	DefaultIterationStep uint32  = 50
)

// Effect reports what an applied Event changed.
type Effect struct {
	// Changed is set when the viewport parameters changed.
	Changed bool

	// Resized is set when the surface size changed.
	Resized bool
}

// Merge combines two effects.
func (e Effect) Merge(o Effect) Effect {
	return Effect{Changed: e.Changed || o.Changed, Resized: e.Resized || o.Resized}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLimits sets the bounds for zoom and iteration count.
func WithLimits(l viewport.Limits) Option {
	return func(c *Controller) { c.limits = l }
}

// WithZoomFactor sets the multiplier applied by ZoomIn and ZoomOut.
// Factors that are not finite or not greater than 1 are ignored.
func WithZoomFactor(k float32) Option {
	return func(c *Controller) {
		if k > 1 && !math32.IsInf(k, 0) {
			c.zoomFactor = k
		}
	}
}

// WithIterationStep sets the increment used by the iteration events.
func WithIterationStep(step uint32) Option {
	return func(c *Controller) {
		if step > 0 {
			c.step = step
		}
	}
}

// WithSize sets the initial surface size.
func WithSize(width, height int) Option {
	return func(c *Controller) { c.width, c.height = clampSize(width, height) }
}

// WithHome sets the parameters restored by Reset.
// By default Reset restores the parameters the controller started with.
func WithHome(p viewport.Params) Option {
	return func(c *Controller) {
		c.home = p
		c.homeSet = true
	}
}

// Controller applies Events to viewport parameters it does not own but is
// the single writer of.
type Controller struct {
	params     *viewport.Params
	limits     viewport.Limits
	zoomFactor float32
	step       uint32
	width      int
	height     int
	home       viewport.Params
	homeSet    bool
}

// NewController returns a controller mutating *params. The parameters are
// clamped into range immediately.
func NewController(params *viewport.Params, opts ...Option) *Controller {
	c := &Controller{
		params:     params,
		limits:     viewport.DefaultLimits(),
		zoomFactor: DefaultZoomFactor,
		step:       DefaultIterationStep,
		width:      1,
		height:     1,
	}
	for _, opt := range opts {
		opt(c)
	}
	*c.params = c.limits.Clamp(*c.params)
	if !c.homeSet {
		c.home = *c.params
	}
	c.home = c.limits.Clamp(c.home)
	return c
}

// Params returns a copy of the current parameters.
func (c *Controller) Params() viewport.Params { return *c.params }

// Limits returns the active bounds.
func (c *Controller) Limits() viewport.Limits { return c.limits }

// Size returns the surface size the controller maps pan deltas against.
func (c *Controller) Size() (width, height int) { return c.width, c.height }

// Apply performs one transition.
func (c *Controller) Apply(ev Event) Effect {
	before := *c.params
	p := before

	switch ev.Kind {
	case KindZoomIn:
		p.Zoom = c.limits.ClampZoom(p.Zoom * c.zoomFactor)
	case KindZoomOut:
		p.Zoom = c.limits.ClampZoom(p.Zoom / c.zoomFactor)
	case KindPanBy:
		d := ScreenDeltaToComplex(ev.DX, ev.DY, p.Zoom, c.width, c.height)
		p.Center[0] += d[0]
		p.Center[1] += d[1]
	case KindIncreaseIterations:
		p.MaxIterations = c.limits.ClampIterations(addSaturating(p.MaxIterations, c.step))
	case KindDecreaseIterations:
		if p.MaxIterations > c.step {
			p.MaxIterations -= c.step
		} else {
			p.MaxIterations = 0
		}
		p.MaxIterations = c.limits.ClampIterations(p.MaxIterations)
	case KindResize:
		w, h := clampSize(ev.Width, ev.Height)
		if w == c.width && h == c.height {
			return Effect{}
		}
		c.width, c.height = w, h
		return Effect{Resized: true}
	case KindReset:
		p = c.home
	default:
		return Effect{}
	}

	p = c.limits.Clamp(p)
	*c.params = p
	return Effect{Changed: p != before}
}

// ApplyAll applies events in order and returns the combined effect.
func (c *Controller) ApplyAll(events []Event) Effect {
	var eff Effect
	for _, ev := range events {
		eff = eff.Merge(c.Apply(ev))
	}
	return eff
}

// ScreenDeltaToComplex converts a drag of (dx, dy) screen pixels into the
// complex-plane offset to add to the center so that the content follows
// the pointer. One pixel spans 2/(height*zoom) in both directions, the
// same scale the kernel uses.
func ScreenDeltaToComplex(dx, dy, zoom float32, width, height int) [2]float32 {
	_, h := clampSize(width, height)
	if !(zoom > 0) {
		return [2]float32{}
	}
	unit := 2 / (float32(h) * zoom)
	return [2]float32{-dx * unit, dy * unit}
}

func clampSize(width, height int) (int, int) {
	return max(width, 1), max(height, 1)
}

func addSaturating(a, b uint32) uint32 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint32(0)
}
