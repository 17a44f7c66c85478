// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package viewport holds the parameters that select which region of the
// complex plane is rendered and how deep the escape-time iteration runs.
//
// Params is plain data. All mutation goes through Limits.Clamp so that a
// Params value handed to the GPU always satisfies zoom > 0 (finite) and
// MaxIterations >= 1.
package viewport

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

// BlockSize is the byte size of the kernel parameter block:
// center (vec2<f32>), zoom (f32), max_iterations (u32), padding (vec2<f32>).
const BlockSize = 24

// Default values for a fresh session.
const (
	DefaultZoom          float32 = 1
	DefaultMaxIterations uint32  = 100
)

// Params selects the rendered region of the complex plane.
type Params struct {
	// Center is the complex-plane point mapped to the middle of the surface.
	Center [2]float32

	// Zoom is a linear magnification. Larger values magnify.
	Zoom float32

	// MaxIterations caps the escape-time loop.
	MaxIterations uint32
}

// Default returns the startup parameters: origin, zoom 1, 100 iterations.
func Default() Params {
	return Params{
		Zoom:          DefaultZoom,
		MaxIterations: DefaultMaxIterations,
	}
}

// Aspect returns width/height for a surface, treating degenerate sizes as 1.
func Aspect(width, height int) float32 {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return float32(width) / float32(height)
}

// Span returns the extent of the complex plane covered by a surface of the
// given size. The vertical span is always 2/zoom; the horizontal span grows
// with the aspect ratio so that the set is never stretched.
func (p Params) Span(width, height int) (spanX, spanY float32) {
	spanY = 2 / p.Zoom
	spanX = spanY * Aspect(width, height)
	return spanX, spanY
}

// Block encodes p as the little-endian uniform block read by the kernel.
func (p Params) Block() [BlockSize]byte {
	var b [BlockSize]byte
	p.put(b[:])
	return b
}

// AppendBlock appends the encoded parameter block to dst.
func (p Params) AppendBlock(dst []byte) []byte {
	var b [BlockSize]byte
	p.put(b[:])
	return append(dst, b[:]...)
}

func (p Params) put(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(p.Center[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(p.Center[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(p.Zoom))
	binary.LittleEndian.PutUint32(b[12:], p.MaxIterations)
	// b[16:24] is padding and stays zero.
}

// Limits bounds the values Params may take.
type Limits struct {
	MinZoom       float32
	MaxZoom       float32
	MinIterations uint32
	MaxIterations uint32
}

// DefaultLimits returns bounds that keep every kernel input finite.
//
// MinZoom is far above the float32 subnormal range so that dividing a
// normalized device coordinate by zoom cannot overflow to infinity.
func DefaultLimits() Limits {
	return Limits{
		MinZoom:       1e-30,
		MaxZoom:       1e30,
		MinIterations: 1,
		MaxIterations: 5000,
	}
}

// normalized repairs inconsistent limits instead of failing.
func (l Limits) normalized() Limits {
	if !(l.MinZoom > 0) || math32.IsInf(l.MinZoom, 0) {
		l.MinZoom = DefaultLimits().MinZoom
	}
	if !(l.MaxZoom >= l.MinZoom) || math32.IsInf(l.MaxZoom, 0) {
		l.MaxZoom = math32.Max(DefaultLimits().MaxZoom, l.MinZoom)
	}
	if l.MinIterations < 1 {
		l.MinIterations = 1
	}
	if l.MaxIterations < l.MinIterations {
		l.MaxIterations = l.MinIterations
	}
	return l
}

// ClampZoom maps any float32 onto the valid zoom range.
// NaN becomes DefaultZoom; infinities and out-of-range values snap to the
// nearest bound.
func (l Limits) ClampZoom(z float32) float32 {
	l = l.normalized()
	switch {
	case math32.IsNaN(z):
		return l.ClampZoom(DefaultZoom)
	case z < l.MinZoom:
		return l.MinZoom
	case z > l.MaxZoom:
		return l.MaxZoom
	}
	return z
}

// ClampIterations maps n onto the valid iteration range.
func (l Limits) ClampIterations(n uint32) uint32 {
	l = l.normalized()
	if n < l.MinIterations {
		return l.MinIterations
	}
	if n > l.MaxIterations {
		return l.MaxIterations
	}
	return n
}

// Clamp returns p with every field forced into range.
// Non-finite center components are reset to zero.
func (l Limits) Clamp(p Params) Params {
	for i, v := range p.Center {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			p.Center[i] = 0
		}
	}
	p.Zoom = l.ClampZoom(p.Zoom)
	p.MaxIterations = l.ClampIterations(p.MaxIterations)
	return p
}

// Valid reports whether p already satisfies l.
func (l Limits) Valid(p Params) bool {
	return l.Clamp(p) == p
}
