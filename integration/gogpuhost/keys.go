// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !js

package gogpuhost

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/mandelbrot/navigation"
)

// navigationKey maps a gogpu key code onto a navigation key.
func navigationKey(k gpucontext.Key) navigation.Key {
	switch k {
	case gpucontext.KeyEqual, gpucontext.KeyNumpadAdd:
		return navigation.KeyZoomIn
	case gpucontext.KeyMinus, gpucontext.KeyNumpadSubtract:
		return navigation.KeyZoomOut
	case gpucontext.KeyUp:
		return navigation.KeyIterationsUp
	case gpucontext.KeyDown:
		return navigation.KeyIterationsDown
	case gpucontext.KeyR:
		return navigation.KeyReset
	case gpucontext.KeyEscape:
		return navigation.KeyQuit
	}
	return navigation.KeyNone
}
