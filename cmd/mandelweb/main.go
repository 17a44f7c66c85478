// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js && wasm

// Command mandelweb is the browser build of the Mandelbrot viewer.
//
// Build it with GOOS=js GOARCH=wasm and load it next to wasm_exec.js on a
// page that has a <canvas id="canvas"> element.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/integration/webhost"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	mandelbrot.SetLogger(logger)

	host, err := webhost.New(mandelbrot.DefaultConfig())
	if err != nil {
		slog.Error("mandelweb: start failed", "err", err)
		os.Exit(1)
	}
	if err := host.Run(context.Background()); err != nil {
		slog.Error("mandelweb: stopped", "err", err)
		os.Exit(1)
	}
}
