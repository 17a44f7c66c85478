// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package viewport

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, [2]float32{0, 0}, p.Center)
	assert.Equal(t, float32(1), p.Zoom)
	assert.Equal(t, uint32(100), p.MaxIterations)
	assert.True(t, DefaultLimits().Valid(p))
}

func TestBlockLayout(t *testing.T) {
	p := Params{Center: [2]float32{-0.5, 0.25}, Zoom: 3, MaxIterations: 250}
	b := p.Block()

	require.Len(t, b, BlockSize)
	assert.Equal(t, math.Float32bits(-0.5), binary.LittleEndian.Uint32(b[0:]))
	assert.Equal(t, math.Float32bits(0.25), binary.LittleEndian.Uint32(b[4:]))
	assert.Equal(t, math.Float32bits(3), binary.LittleEndian.Uint32(b[8:]))
	assert.Equal(t, uint32(250), binary.LittleEndian.Uint32(b[12:]))
	assert.Equal(t, make([]byte, 8), b[16:], "padding must be zero")

	prefix := []byte{0xAA}
	out := p.AppendBlock(prefix)
	require.Len(t, out, 1+BlockSize)
	assert.Equal(t, byte(0xAA), out[0])
	assert.Equal(t, b[:], out[1:])
}

func TestClampZoom(t *testing.T) {
	l := DefaultLimits()
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"normal", 2.5, 2.5},
		{"zero", 0, l.MinZoom},
		{"negative", -4, l.MinZoom},
		{"tiny", math32.SmallestNonzeroFloat32, l.MinZoom},
		{"huge", math32.MaxFloat32, l.MaxZoom},
		{"posInf", math32.Inf(1), l.MaxZoom},
		{"negInf", math32.Inf(-1), l.MinZoom},
		{"nan", math32.NaN(), DefaultZoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.ClampZoom(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Greater(t, got, float32(0))
			assert.False(t, math32.IsInf(got, 0))
		})
	}
}

func TestClampIterations(t *testing.T) {
	l := DefaultLimits()
	assert.Equal(t, uint32(1), l.ClampIterations(0))
	assert.Equal(t, uint32(1), l.ClampIterations(1))
	assert.Equal(t, uint32(777), l.ClampIterations(777))
	assert.Equal(t, l.MaxIterations, l.ClampIterations(math.MaxUint32))
}

func TestClampRepairsCenter(t *testing.T) {
	p := Params{Center: [2]float32{math32.NaN(), math32.Inf(1)}, Zoom: 1, MaxIterations: 10}
	got := DefaultLimits().Clamp(p)
	assert.Equal(t, [2]float32{0, 0}, got.Center)
}

func TestLimitsNormalized(t *testing.T) {
	// Inverted or zero limits must still produce a usable range.
	l := Limits{MinZoom: 0, MaxZoom: -1, MinIterations: 0, MaxIterations: 0}
	p := l.Clamp(Params{Zoom: 0, MaxIterations: 0})
	assert.Greater(t, p.Zoom, float32(0))
	assert.GreaterOrEqual(t, p.MaxIterations, uint32(1))
}

func TestSpanAspect(t *testing.T) {
	p := Default()

	sx, sy := p.Span(800, 800)
	assert.InDelta(t, 2.0, sx, 1e-6)
	assert.InDelta(t, 2.0, sy, 1e-6)

	// Doubling the width doubles the horizontal span and keeps the vertical.
	sx2, sy2 := p.Span(1600, 800)
	assert.InDelta(t, 2*sx, sx2, 1e-6)
	assert.InDelta(t, sy, sy2, 1e-6)

	p.Zoom = 4
	sx4, sy4 := p.Span(1600, 800)
	assert.InDelta(t, sx2/4, sx4, 1e-6)
	assert.InDelta(t, sy2/4, sy4, 1e-6)
}

func TestAspectDegenerate(t *testing.T) {
	assert.Equal(t, float32(1), Aspect(0, 0))
	assert.Equal(t, float32(5), Aspect(5, -3))
}
