// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package mandelbrot is an interactive, GPU-accelerated Mandelbrot set
// viewer.
//
// # Overview
//
// Every frame the escape-time kernel runs as a WebGPU compute shader over
// the whole output image, and a small render pass copies that image to the
// window. Panning, zooming and iteration depth are driven by user input.
// The same core runs in a native window (through gogpu) and in a browser
// canvas (through the DOM WebGPU API when built for js/wasm).
//
// # Architecture
//
//	input → navigation.Translator → navigation.Queue
//	      → frame.Driver → navigation.Controller → viewport.Params
//	      → frame.Renderer (compute pass, presentation pass) → surface
//
// Packages:
//   - viewport: parameters and their bounds, GPU parameter block layout
//   - kernel: per-pixel math and the WGSL shaders that implement it
//   - navigation: events, controller, event queue, input translation
//   - frame: the per-frame driver and the host/renderer interfaces
//   - internal/gpu: the native WebGPU renderer on gogpu/wgpu
//   - integration/gogpuhost: native window host on gogpu
//   - integration/webhost: browser host and renderer (js/wasm)
//
// This package holds the shared configuration and logger.
//
// # Quick Start
//
//	go run ./cmd/mandelbrot run --width 1280 --height 720
//
// Keys: +/- zoom, Up/Down iterations, R reset, Escape quit. Drag to pan,
// scroll to zoom.
package mandelbrot
