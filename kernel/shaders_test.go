// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kernel

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/naga"
)

// TestShaderCompilation compiles every embedded shader to SPIR-V.
func TestShaderCompilation(t *testing.T) {
	for _, s := range Shaders() {
		t.Run(s.Name, func(t *testing.T) {
			if s.Source == "" {
				t.Fatal("shader source is empty")
			}
			spirv, err := naga.Compile(s.Source)
			if err != nil {
				skipUnsupported(t, err)
				t.Fatalf("failed to compile %s shader: %v", s.Name, err)
			}
			if len(spirv) < 4 {
				t.Fatal("SPIR-V too short")
			}
			magic := uint32(spirv[0]) |
				uint32(spirv[1])<<8 |
				uint32(spirv[2])<<16 |
				uint32(spirv[3])<<24
			if magic != 0x07230203 {
				t.Errorf("invalid SPIR-V magic: 0x%08X, want 0x07230203", magic)
			}
			t.Logf("%s shader compiled to %d bytes of SPIR-V", s.Name, len(spirv))
		})
	}
}

// skipUnsupported skips the test when naga reports a missing feature
// rather than a malformed shader.
func skipUnsupported(t *testing.T, err error) {
	t.Helper()
	msg := err.Error()
	if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
		t.Skipf("Skipping: naga feature not yet implemented: %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(); err != nil {
		skipUnsupported(t, err)
		t.Fatalf("Validate() = %v", err)
	}
}

func TestShaderStructure(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		required []string
	}{
		{
			name:   "compute",
			source: ComputeSource(),
			required: []string{
				"@compute",
				"@workgroup_size(8, 8, 1)",
				"fn " + ComputeEntryPoint + "(",
				"@builtin(global_invocation_id)",
				"var<uniform> params",
				"var<storage, read_write> output_image",
				"dot(z, z) > 4.0",
				"break;",
			},
		},
		{
			name:   "triangle",
			source: PresentSource(GeometryTriangle),
			required: []string{
				"@vertex",
				"@fragment",
				"fn " + VertexEntryPoint + "(",
				"fn " + FragmentEntryPoint + "(",
				"@builtin(vertex_index)",
				"var<storage, read> output_image",
			},
		},
		{
			name:   "quad",
			source: PresentSource(GeometryQuad),
			required: []string{
				"@vertex",
				"@fragment",
				"@location(0) pos: vec2<f32>",
				"var<storage, read> output_image",
			},
		},
		{
			name:   "debugUV",
			source: PresentSource(GeometryDebugUV),
			required: []string{
				"@vertex",
				"@fragment",
				"in.uv",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, req := range tt.required {
				if !strings.Contains(tt.source, req) {
					t.Errorf("shader missing %q", req)
				}
			}
		})
	}
}

func TestComputeBindings(t *testing.T) {
	src := ComputeSource()
	for _, b := range []string{
		"@binding(0) var<uniform> params",
		"@binding(1) var<storage, read_write> output_image",
		"@binding(2) var<uniform> extent",
	} {
		if !strings.Contains(src, b) {
			t.Errorf("compute shader missing binding %q", b)
		}
	}
}

func TestGeometry(t *testing.T) {
	if got := GeometryQuad.VertexCount(); got != 6 {
		t.Errorf("quad VertexCount = %d, want 6", got)
	}
	if got := GeometryTriangle.VertexCount(); got != 3 {
		t.Errorf("triangle VertexCount = %d, want 3", got)
	}
	if !GeometryQuad.UsesVertexBuffer() || GeometryTriangle.UsesVertexBuffer() {
		t.Error("only the quad geometry uses a vertex buffer")
	}
	for _, g := range []Geometry{GeometryTriangle, GeometryQuad, GeometryDebugUV} {
		parsed, err := ParseGeometry(g.String())
		if err != nil || parsed != g {
			t.Errorf("ParseGeometry(%q) = %v, %v", g.String(), parsed, err)
		}
	}
	if _, err := ParseGeometry("hexagon"); err == nil {
		t.Error("ParseGeometry(hexagon) should fail")
	}
	if s := Geometry(42).String(); s != "Geometry(42)" {
		t.Errorf("String() = %q", s)
	}
}

func TestQuadVertexBytes(t *testing.T) {
	b := QuadVertexBytes()
	if len(b) != len(QuadVertices)*4 {
		t.Fatalf("len = %d, want %d", len(b), len(QuadVertices)*4)
	}
	if got := uint32(len(b)) / QuadVertexStride; got != GeometryQuad.VertexCount() {
		t.Errorf("vertex count = %d, want %d", got, GeometryQuad.VertexCount())
	}
	for i, want := range QuadVertices {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if got != want {
			t.Errorf("vertex float %d = %v, want %v", i, got, want)
		}
	}
}

func TestExtentBytes(t *testing.T) {
	b := ExtentBytes(1920, 1080)
	if len(b) != ExtentSize {
		t.Fatalf("len = %d, want %d", len(b), ExtentSize)
	}
	if w := binary.LittleEndian.Uint32(b[0:]); w != 1920 {
		t.Errorf("width = %d, want 1920", w)
	}
	if h := binary.LittleEndian.Uint32(b[4:]); h != 1080 {
		t.Errorf("height = %d, want 1080", h)
	}
}
