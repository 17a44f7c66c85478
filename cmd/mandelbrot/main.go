// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !js

// Command mandelbrot is the native Mandelbrot viewer.
//
// Subcommands:
//
//	mandelbrot run        open an interactive window (default)
//	mandelbrot snapshot   render one frame on the GPU and save it to a file
//	mandelbrot config     print the effective configuration as TOML
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/gogpu/mandelbrot"
)

// version is set by the linker.
var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	ConfigPath string
	Debug      bool
}

func main() {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:   "mandelbrot",
		Short: "GPU Mandelbrot set viewer",
		Long: `mandelbrot renders the Mandelbrot set with a WebGPU compute shader
and lets you pan and zoom through it in real time.`,
		Example: `  # Open the viewer
  mandelbrot

  # Start at Seahorse Valley with a deeper iteration cap
  mandelbrot run --center=-0.75,0.1 --zoom 40 --iterations 800

  # Save a 4K frame without opening a window
  mandelbrot snapshot -o deep.png --width 3840 --height 2160 --zoom 5000 --center=-0.743643,0.131825`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&g.Debug, "debug", "d", false, "Enable debug logging")

	run := runCmd(&g)
	rootCmd.RunE = run.RunE
	rootCmd.Flags().AddFlagSet(run.Flags())
	rootCmd.AddCommand(run, snapshotCmd(&g), configCmd(&g))

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion(version),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the --config file, if any, on top of the defaults.
func loadConfig(g *globalFlags) (mandelbrot.Config, error) {
	if g.ConfigPath == "" {
		return mandelbrot.DefaultConfig(), nil
	}
	return mandelbrot.LoadConfig(g.ConfigPath)
}

// setupLogging routes library logs to stderr. Debug comes from the flag or
// the config file.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	mandelbrot.SetLogger(logger)
}
