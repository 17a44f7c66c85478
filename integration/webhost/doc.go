// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package webhost runs the visualizer in a browser canvas through the DOM
// WebGPU API (navigator.gpu). It is only built for GOOS=js GOARCH=wasm.
//
// The browser presents the canvas texture on its own after each animation
// frame callback returns, so Surface.Present has nothing to do. The
// renderer records the same compute and presentation passes as the native
// renderer, using the same WGSL.
//
// Input is read from DOM events on the canvas: pointer drag pans, the
// wheel zooms, and keydown events map through navigation.KeyForName.
package webhost
