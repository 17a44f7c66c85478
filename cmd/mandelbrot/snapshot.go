// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !js

package main

import (
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/internal/gpu"
	"github.com/gogpu/mandelbrot/viewport"
)

func snapshotCmd(g *globalFlags) *cobra.Command {
	var (
		view   viewFlags
		output string
		lang   string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame on the GPU and save it",
		Long: `Render a single frame with the compute kernel on a headless GPU device
and write it to a PNG, BMP or TIFF file chosen by the output extension.
There is no CPU fallback: the command fails when no GPU is available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if err := view.apply(cmd.Flags(), &cfg); err != nil {
				return err
			}
			encode, err := encoderFor(output)
			if err != nil {
				return err
			}
			setupLogging(g.Debug || cfg.Debug)

			start := time.Now()
			img, err := renderSnapshot(cfg)
			if err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := encode(f, img); err != nil {
				_ = f.Close()
				return fmt.Errorf("encode %s: %w", output, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}
			printSummary(cmd.OutOrStdout(), language.Make(lang), output, cfg.Params(), img.Bounds(), time.Since(start))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "mandelbrot.png", "Output file (.png, .bmp, .tif, .tiff)")
	cmd.Flags().StringVar(&lang, "lang", "en", "Language tag for the summary line")
	view.register(cmd.Flags(), false)
	return cmd
}

// renderSnapshot opens a standalone device and computes one image.
func renderSnapshot(cfg mandelbrot.Config) (*image.RGBA, error) {
	dev, err := gpu.OpenStandalone()
	if err != nil {
		return nil, err
	}
	defer dev.Close()

	r, err := gpu.NewRenderer(dev, gpu.Options{
		Format:   gputypes.TextureFormatUndefined,
		Geometry: cfg.Geometry,
	})
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return r.Render(cfg.Params(), cfg.Width, cfg.Height)
}

// printSummary writes a one-line, locale-formatted report.
func printSummary(w io.Writer, tag language.Tag, path string, p viewport.Params, b image.Rectangle, elapsed time.Duration) {
	pr := message.NewPrinter(tag)
	_, _ = pr.Fprintf(w, "wrote %s: %d×%d px (%d pixels), center %.6f%+.6fi, zoom %g, %d iterations, %v\n",
		path, b.Dx(), b.Dy(), b.Dx()*b.Dy(), p.Center[0], p.Center[1], p.Zoom, p.MaxIterations,
		elapsed.Round(time.Millisecond))
}
