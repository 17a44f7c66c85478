// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gogpuhost runs the visualizer in a native gogpu window.
//
// The data flow is:
//
//	gogpu input callbacks -> navigation.Translator -> navigation.Queue
//	gogpu OnDraw -> frame.Driver -> gpu.Renderer -> surface view
//
// The GPU device is borrowed from the window through its GPU context
// provider, so the compute pass and the presentation pass run on the same
// device that owns the swapchain. The renderer is created lazily on the
// first draw, once the provider exists.
//
// # Usage
//
//	host, err := gogpuhost.New(mandelbrot.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := host.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Input
//
//   - drag with the left button: pan
//   - wheel: zoom in or out
//   - = or +, -: zoom in, zoom out
//   - Up, Down: raise or lower the iteration cap
//   - R: reset the view
//   - Escape: quit
package gogpuhost
