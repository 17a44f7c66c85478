// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !js

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gogpu/mandelbrot/integration/gogpuhost"
)

func runCmd(g *globalFlags) *cobra.Command {
	var (
		view  viewFlags
		title string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the interactive viewer",
		Long: `Open a window showing the Mandelbrot set.

Drag to pan, scroll or press +/- to zoom, Up/Down to change the iteration
cap, R to reset the view and Escape to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				cfg.Title = title
			}
			if err := view.apply(cmd.Flags(), &cfg); err != nil {
				return err
			}
			setupLogging(g.Debug || cfg.Debug)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			host, err := gogpuhost.New(cfg)
			if err != nil {
				return err
			}
			return host.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Window title")
	view.register(cmd.Flags(), true)
	return cmd
}
