// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !js

package main

import "github.com/spf13/cobra"

func configCmd(g *globalFlags) *cobra.Command {
	var view viewFlags
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration that run and snapshot would use, after applying
the --config file and any flags. Redirect the output to start a config file.`,
		Example: `  mandelbrot config > mandelbrot.toml
  mandelbrot --config mandelbrot.toml config --zoom 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if err := view.apply(cmd.Flags(), &cfg); err != nil {
				return err
			}
			return cfg.WriteTOML(cmd.OutOrStdout())
		},
	}
	view.register(cmd.Flags(), true)
	return cmd
}
