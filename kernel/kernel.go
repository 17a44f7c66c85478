// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package kernel defines the escape-time computation that the GPU runs for
// every output pixel, together with the WGSL sources that implement it.
//
// The Go functions in this package are the executable definition of the
// kernel: PixelToComplex, Escape, HSVToRGB and Shade perform exactly the
// arithmetic of shaders/mandelbrot.wgsl, in float32. They are used to pin
// down and test the GPU behavior; rendering always happens on the GPU.
package kernel

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/gogpu/mandelbrot/viewport"
)

// WorkgroupSize is the edge length of the square compute workgroup.
const WorkgroupSize = 8

// EscapeRadiusSq is the squared magnitude beyond which a point escapes.
const EscapeRadiusSq float32 = 4

// DispatchSize returns the number of workgroups needed to cover an image.
// Invocations beyond the image edge are discarded by the kernel.
func DispatchSize(width, height int) (x, y uint32) {
	if width < 1 || height < 1 {
		return 0, 0
	}
	x = (uint32(width) + WorkgroupSize - 1) / WorkgroupSize
	y = (uint32(height) + WorkgroupSize - 1) / WorkgroupSize
	return x, y
}

// InBounds reports whether an invocation id addresses a real pixel.
func InBounds(x, y uint32, width, height int) bool {
	return width > 0 && height > 0 && x < uint32(width) && y < uint32(height)
}

// PixelToComplex maps pixel (x, y) of a width×height image to the complex
// parameter c. Row 0 is the top of the image.
//
// The pixel center is mapped to normalized device coordinates in [-1, 1]
// with y pointing up, the horizontal coordinate is stretched by the aspect
// ratio, the result is divided by zoom and offset by the center.
func PixelToComplex(x, y, width, height int, p viewport.Params) [2]float32 {
	w := float32(max(width, 1))
	h := float32(max(height, 1))

	ndcX := (float32(x)+0.5)/w*2 - 1
	ndcY := 1 - (float32(y)+0.5)/h*2
	aspect := w / h

	return [2]float32{
		ndcX*aspect/p.Zoom + p.Center[0],
		ndcY/p.Zoom + p.Center[1],
	}
}

// Escape iterates z = z² + c from z = 0 for at most maxIter steps.
// It returns the zero-based step at which |z|² first exceeded 4.
// If that never happens, escaped is false and n equals maxIter.
func Escape(c [2]float32, maxIter uint32) (n uint32, escaped bool) {
	var zr, zi float32
	for i := uint32(0); i < maxIter; i++ {
		zr, zi = zr*zr-zi*zi+c[0], 2*zr*zi+c[1]
		if zr*zr+zi*zi > EscapeRadiusSq {
			return i, true
		}
	}
	return maxIter, false
}

// HSVToRGB converts a color from HSV to RGB using the six-sector formula.
// h is in turns: 0 and 1 are red, 1/3 green, 2/3 blue.
func HSVToRGB(h, s, v float32) (r, g, b float32) {
	h6 := h * 6
	sector := math32.Floor(h6)
	f := h6 - sector

	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch int(sector) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// InSetColor is the color of points that did not escape.
var InSetColor = color.RGBA{A: 0xff}

// Shade returns the color for an escape result.
func Shade(n, maxIter uint32, escaped bool) color.RGBA {
	if !escaped || maxIter == 0 {
		return InSetColor
	}
	hue := float32(n) / float32(maxIter)
	r, g, b := HSVToRGB(hue, 1, 1)
	return color.RGBA{R: unorm8(r), G: unorm8(g), B: unorm8(b), A: 0xff}
}

// Pixel computes the final color of one pixel.
func Pixel(x, y, width, height int, p viewport.Params) color.RGBA {
	n, escaped := Escape(PixelToComplex(x, y, width, height, p), p.MaxIterations)
	return Shade(n, p.MaxIterations, escaped)
}

// unorm8 quantizes [0, 1] to a byte with round-half-up, as the shader does.
func unorm8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}

// Pack encodes a color as one OutputImage texel: r | g<<8 | b<<16 | a<<24.
func Pack(c color.RGBA) uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// Unpack decodes an OutputImage texel.
func Unpack(v uint32) color.RGBA {
	return color.RGBA{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: uint8(v >> 24),
	}
}

// ImageBytes returns the OutputImage buffer size for a width×height image.
func ImageBytes(width, height int) uint64 {
	if width < 1 || height < 1 {
		return 0
	}
	return uint64(width) * uint64(height) * 4
}
