// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mandelbrot

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/chewxy/math32"

	"github.com/gogpu/mandelbrot/frame"
	"github.com/gogpu/mandelbrot/kernel"
	"github.com/gogpu/mandelbrot/navigation"
	"github.com/gogpu/mandelbrot/viewport"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("mandelbrot: invalid config")

// Config holds the application settings. Build one with DefaultConfig and
// the With methods, or load it from a TOML file with LoadConfig.
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// Initial view, also restored by the reset key.
	Center        [2]float32 `toml:"center"`
	Zoom          float32    `toml:"zoom"`
	MaxIterations uint32     `toml:"max_iterations"`

	// Navigation tuning.
	ZoomFactor       float32 `toml:"zoom_factor"`
	IterationStep    uint32  `toml:"iteration_step"`
	IterationCeiling uint32  `toml:"iteration_ceiling"`

	Recompute frame.Recompute `toml:"recompute"`
	Geometry  kernel.Geometry `toml:"geometry"`

	// CanvasID is the DOM id of the canvas used by the web host.
	CanvasID string `toml:"canvas_id"`

	Debug bool `toml:"debug"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	p := viewport.Default()
	return Config{
		Title:            "Mandelbrot",
		Width:            800,
		Height:           600,
		Center:           p.Center,
		Zoom:             p.Zoom,
		MaxIterations:    p.MaxIterations,
		ZoomFactor:       navigation.DefaultZoomFactor,
		IterationStep:    navigation.DefaultIterationStep,
		IterationCeiling: viewport.DefaultLimits().MaxIterations,
		Recompute:        frame.RecomputeAlways,
		Geometry:         kernel.GeometryTriangle,
		CanvasID:         "canvas",
	}
}

// WithTitle sets the window title.
func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

// WithSize sets the initial window size.
func (c Config) WithSize(width, height int) Config {
	c.Width, c.Height = width, height
	return c
}

// WithView sets the initial center and zoom.
func (c Config) WithView(center [2]float32, zoom float32) Config {
	c.Center, c.Zoom = center, zoom
	return c
}

// WithIterations sets the initial iteration cap.
func (c Config) WithIterations(n uint32) Config {
	c.MaxIterations = n
	return c
}

// WithRecompute sets the kernel dispatch policy.
func (c Config) WithRecompute(r frame.Recompute) Config {
	c.Recompute = r
	return c
}

// WithGeometry sets the presentation geometry.
func (c Config) WithGeometry(g kernel.Geometry) Config {
	c.Geometry = g
	return c
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case !finite(c.Center[0]) || !finite(c.Center[1]):
		return fmt.Errorf("%w: center %v must be finite", ErrInvalidConfig, c.Center)
	case !(c.Zoom > 0) || !finite(c.Zoom):
		return fmt.Errorf("%w: zoom %v must be positive and finite", ErrInvalidConfig, c.Zoom)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: max_iterations must be at least 1", ErrInvalidConfig)
	case c.IterationCeiling < c.MaxIterations:
		return fmt.Errorf("%w: iteration_ceiling %d is below max_iterations %d",
			ErrInvalidConfig, c.IterationCeiling, c.MaxIterations)
	case !(c.ZoomFactor > 1) || !finite(c.ZoomFactor):
		return fmt.Errorf("%w: zoom_factor %v must be greater than 1", ErrInvalidConfig, c.ZoomFactor)
	case c.IterationStep < 1:
		return fmt.Errorf("%w: iteration_step must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// Params returns the initial viewport parameters, clamped to Limits.
func (c Config) Params() viewport.Params {
	return c.Limits().Clamp(viewport.Params{
		Center:        c.Center,
		Zoom:          c.Zoom,
		MaxIterations: c.MaxIterations,
	})
}

// Limits returns the viewport bounds implied by the config.
func (c Config) Limits() viewport.Limits {
	l := viewport.DefaultLimits()
	if c.IterationCeiling > 0 {
		l.MaxIterations = c.IterationCeiling
	}
	return l
}

// NewController returns a navigation controller writing *params, tuned by
// the config. Reset restores the config's initial view.
func (c Config) NewController(params *viewport.Params) *navigation.Controller {
	*params = c.Params()
	return navigation.NewController(params,
		navigation.WithLimits(c.Limits()),
		navigation.WithZoomFactor(c.ZoomFactor),
		navigation.WithIterationStep(c.IterationStep),
		navigation.WithSize(c.Width, c.Height),
		navigation.WithHome(c.Params()),
	)
}

// DriverOptions returns the frame driver options implied by the config.
func (c Config) DriverOptions() []frame.Option {
	return []frame.Option{frame.WithRecompute(c.Recompute)}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys missing from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return c, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// DecodeConfig reads TOML from r on top of DefaultConfig.
func DecodeConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
		return c, fmt.Errorf("mandelbrot: decode config: %w", err)
	}
	return c, c.Validate()
}

// WriteTOML encodes c as TOML.
func (c Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
