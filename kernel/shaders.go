// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kernel

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/naga"
)

// Embedded WGSL shader sources.

//go:embed shaders/mandelbrot.wgsl
var computeShaderSource string

//go:embed shaders/present.wgsl
var presentShaderSource string

//go:embed shaders/present_quad.wgsl
var presentQuadShaderSource string

//go:embed shaders/debug_uv.wgsl
var debugUVShaderSource string

// Entry points shared by every shader in this package.
const (
	ComputeEntryPoint  = "main"
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Binding slots of the compute shader (group 0).
const (
	ComputeBindingParams = 0
	ComputeBindingImage  = 1
	ComputeBindingExtent = 2
)

// Binding slots of the presentation shaders (group 0).
const (
	PresentBindingImage  = 0
	PresentBindingExtent = 1
)

// ExtentSize is the byte size of the Extent uniform {width, height u32}.
const ExtentSize = 8

// ComputeSource returns the WGSL source of the escape-time kernel.
func ComputeSource() string { return computeShaderSource }

// Geometry selects how the presentation pass covers the viewport.
type Geometry uint8

const (
	// GeometryTriangle draws one oversized triangle from vertex_index.
	GeometryTriangle Geometry = iota

	// GeometryQuad draws two triangles from a six-vertex buffer.
	GeometryQuad

	// GeometryDebugUV draws the fullscreen triangle colored by UV.
	// It does not display the fractal.
	GeometryDebugUV
)

var geometryNames = [...]string{
	GeometryTriangle: "triangle",
	GeometryQuad:     "quad",
	GeometryDebugUV:  "debug-uv",
}

// String returns the configuration name of g.
func (g Geometry) String() string {
	if int(g) < len(geometryNames) {
		return geometryNames[g]
	}
	return fmt.Sprintf("Geometry(%d)", g)
}

// ParseGeometry converts a configuration name into a Geometry.
func ParseGeometry(s string) (Geometry, error) {
	for i, name := range geometryNames {
		if strings.EqualFold(s, name) {
			return Geometry(i), nil
		}
	}
	return GeometryTriangle, fmt.Errorf("kernel: unknown geometry %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (g Geometry) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Geometry) UnmarshalText(b []byte) error {
	v, err := ParseGeometry(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// UsesVertexBuffer reports whether the geometry needs QuadVertices bound
// at vertex buffer slot 0.
func (g Geometry) UsesVertexBuffer() bool { return g == GeometryQuad }

// VertexCount returns the number of vertices to draw.
func (g Geometry) VertexCount() uint32 {
	if g == GeometryQuad {
		return uint32(len(QuadVertices) / 2)
	}
	return 3
}

// QuadVertices are the clip-space positions of the two-triangle quad,
// two float32 per vertex.
var QuadVertices = []float32{
	-1, -1,
	1, -1,
	1, 1,
	-1, -1,
	1, 1,
	-1, 1,
}

// QuadVertexStride is the byte stride of one QuadVertices entry.
const QuadVertexStride = 8

// QuadVertexBytes returns QuadVertices as a little-endian vertex buffer.
func QuadVertexBytes() []byte {
	b := make([]byte, 0, len(QuadVertices)*4)
	for _, v := range QuadVertices {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

// ExtentBytes returns the Extent uniform for a width×height image.
func ExtentBytes(width, height int) []byte {
	b := make([]byte, ExtentSize)
	binary.LittleEndian.PutUint32(b[0:], uint32(width))  //nolint:gosec // sizes are clamped positive
	binary.LittleEndian.PutUint32(b[4:], uint32(height)) //nolint:gosec // sizes are clamped positive
	return b
}

// PresentSource returns the WGSL source of the presentation pass for g.
func PresentSource(g Geometry) string {
	switch g {
	case GeometryQuad:
		return presentQuadShaderSource
	case GeometryDebugUV:
		return debugUVShaderSource
	default:
		return presentShaderSource
	}
}

// Shader names a WGSL source for diagnostics.
type Shader struct {
	Name   string
	Source string
}

// Shaders returns every embedded shader.
func Shaders() []Shader {
	return []Shader{
		{Name: "mandelbrot", Source: computeShaderSource},
		{Name: "present", Source: presentShaderSource},
		{Name: "present_quad", Source: presentQuadShaderSource},
		{Name: "debug_uv", Source: debugUVShaderSource},
	}
}

// Validate compiles every embedded shader with naga and returns the first
// failure. A nil result means the GPU driver receives well-formed WGSL.
func Validate() error {
	for _, s := range Shaders() {
		if _, err := naga.Compile(s.Source); err != nil {
			return fmt.Errorf("kernel: compile %s shader: %w", s.Name, err)
		}
	}
	return nil
}
