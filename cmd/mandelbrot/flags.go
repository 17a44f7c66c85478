// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !js

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/frame"
	"github.com/gogpu/mandelbrot/kernel"
)

// viewFlags override config file values. Only flags set on the command line
// are applied.
type viewFlags struct {
	Width      int
	Height     int
	Center     []float32
	Zoom       float32
	Iterations uint32
	Recompute  string
	Geometry   string
}

func (f *viewFlags) register(fs *pflag.FlagSet, withPresentation bool) {
	def := mandelbrot.DefaultConfig()
	fs.IntVar(&f.Width, "width", def.Width, "Image width in pixels")
	fs.IntVar(&f.Height, "height", def.Height, "Image height in pixels")
	fs.Float32SliceVar(&f.Center, "center", def.Center[:], "View center as re,im")
	fs.Float32Var(&f.Zoom, "zoom", def.Zoom, "Zoom level (1 shows a vertical span of 2)")
	fs.Uint32VarP(&f.Iterations, "iterations", "i", def.MaxIterations, "Maximum iterations per pixel")
	if withPresentation {
		fs.StringVar(&f.Recompute, "recompute", def.Recompute.String(), `Kernel dispatch policy: "always" or "on-change"`)
		fs.StringVar(&f.Geometry, "geometry", def.Geometry.String(), `Presentation geometry: "triangle", "quad" or "debug-uv"`)
	}
}

// apply copies every flag that was set on the command line into cfg and
// validates the result.
func (f *viewFlags) apply(fs *pflag.FlagSet, cfg *mandelbrot.Config) error {
	if fs.Changed("width") {
		cfg.Width = f.Width
	}
	if fs.Changed("height") {
		cfg.Height = f.Height
	}
	if fs.Changed("center") {
		if len(f.Center) != 2 {
			return fmt.Errorf("--center wants two values re,im, got %d", len(f.Center))
		}
		cfg.Center = [2]float32{f.Center[0], f.Center[1]}
	}
	if fs.Changed("zoom") {
		cfg.Zoom = f.Zoom
	}
	if fs.Changed("iterations") {
		cfg.MaxIterations = f.Iterations
		if cfg.IterationCeiling < f.Iterations {
			cfg.IterationCeiling = f.Iterations
		}
	}
	if fs.Changed("recompute") {
		var r frame.Recompute
		if err := r.UnmarshalText([]byte(f.Recompute)); err != nil {
			return err
		}
		cfg.Recompute = r
	}
	if fs.Changed("geometry") {
		g, err := kernel.ParseGeometry(f.Geometry)
		if err != nil {
			return err
		}
		cfg.Geometry = g
	}
	return cfg.Validate()
}
