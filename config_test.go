// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mandelbrot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/mandelbrot/frame"
	"github.com/gogpu/mandelbrot/kernel"
	"github.com/gogpu/mandelbrot/navigation"
	"github.com/gogpu/mandelbrot/viewport"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, viewport.Default(), c.Params())
	assert.Equal(t, "canvas", c.CanvasID)
	assert.Equal(t, frame.RecomputeAlways, c.Recompute)
	assert.Equal(t, kernel.GeometryTriangle, c.Geometry)
}

func TestConfigBuilder(t *testing.T) {
	c := DefaultConfig().
		WithTitle("Seahorse Valley").
		WithSize(1280, 720).
		WithView([2]float32{-0.75, 0.1}, 40).
		WithIterations(800).
		WithRecompute(frame.RecomputeOnChange).
		WithGeometry(kernel.GeometryQuad)

	require.NoError(t, c.Validate())
	assert.Equal(t, "Seahorse Valley", c.Title)
	assert.Equal(t, viewport.Params{Center: [2]float32{-0.75, 0.1}, Zoom: 40, MaxIterations: 800}, c.Params())
	assert.Equal(t, kernel.GeometryQuad, c.Geometry)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zeroWidth", func(c *Config) { c.Width = 0 }},
		{"negativeHeight", func(c *Config) { c.Height = -1 }},
		{"nanCenter", func(c *Config) { c.Center[0] = math32.NaN() }},
		{"zeroZoom", func(c *Config) { c.Zoom = 0 }},
		{"infZoom", func(c *Config) { c.Zoom = math32.Inf(1) }},
		{"zeroIterations", func(c *Config) { c.MaxIterations = 0 }},
		{"ceilingBelowStart", func(c *Config) { c.IterationCeiling = 10 }},
		{"zoomFactorOne", func(c *Config) { c.ZoomFactor = 1 }},
		{"zeroStep", func(c *Config) { c.IterationStep = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfigNewController(t *testing.T) {
	c := DefaultConfig().WithView([2]float32{-0.5, 0}, 2)
	c.ZoomFactor = 1.5
	c.IterationStep = 10
	c.IterationCeiling = 120

	var p viewport.Params
	ctrl := c.NewController(&p)
	assert.Equal(t, c.Params(), p)

	ctrl.Apply(navigation.ZoomIn())
	assert.InDelta(t, 3.0, p.Zoom, 1e-6)

	for i := 0; i < 10; i++ {
		ctrl.Apply(navigation.IncreaseIterations())
	}
	assert.Equal(t, uint32(120), p.MaxIterations)

	ctrl.Apply(navigation.Reset())
	assert.Equal(t, c.Params(), p)

	w, h := ctrl.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestConfigTOMLRoundTrip(t *testing.T) {
	c := DefaultConfig().
		WithView([2]float32{-0.5, 0.25}, 3).
		WithRecompute(frame.RecomputeOnChange).
		WithGeometry(kernel.GeometryDebugUV)

	var buf bytes.Buffer
	require.NoError(t, c.WriteTOML(&buf))
	assert.Contains(t, buf.String(), `recompute = "on-change"`)
	assert.Contains(t, buf.String(), `geometry = "debug-uv"`)

	got, err := DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadConfigPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mandelbrot.toml")
	data := strings.Join([]string{
		`title = "Deep"`,
		`center = [-0.743643, 0.131825]`,
		`zoom = 5000.0`,
		`max_iterations = 1500`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Deep", c.Title)
	assert.InDelta(t, -0.743643, c.Center[0], 1e-6)
	assert.Equal(t, float32(5000), c.Zoom)
	assert.Equal(t, uint32(1500), c.MaxIterations)
	// Untouched keys keep their defaults.
	assert.Equal(t, 800, c.Width)
	assert.Equal(t, navigation.DefaultZoomFactor, c.ZoomFactor)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`zoom = -1.0`), 0o600))
	_, err = LoadConfig(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	geom := filepath.Join(dir, "geom.toml")
	require.NoError(t, os.WriteFile(geom, []byte(`geometry = "hexagon"`), 0o600))
	_, err = LoadConfig(geom)
	assert.Error(t, err)
}
