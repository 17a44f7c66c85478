// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package webhost

import "github.com/chewxy/math32"

// GPUBufferUsage and GPUShaderStage flag values from the WebGPU standard.
const (
	bufferUsageCopySrc  = 0x0004
	bufferUsageCopyDst  = 0x0008
	bufferUsageVertex   = 0x0020
	bufferUsageUniform  = 0x0040
	bufferUsageStorage  = 0x0080
	shaderStageFragment = 0x2
	shaderStageCompute  = 0x4
)

// wheelScroll converts a DOM WheelEvent.deltaY into a Translator scroll
// delta. Browsers report positive deltaY when the wheel moves toward the
// user, which zooms out.
func wheelScroll(deltaY float64) float64 { return -deltaY }

// devicePixels scales a CSS pixel size to device pixels, at least 1.
func devicePixels(css, ratio float64) int {
	if !(ratio > 0) {
		ratio = 1
	}
	px := int(math32.Round(float32(css * ratio)))
	if px < 1 {
		return 1
	}
	return px
}
