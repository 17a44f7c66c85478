// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/mandelbrot/navigation"
	"github.com/gogpu/mandelbrot/viewport"
)

type fakeSurface struct {
	w, h       int
	acquireErr error
	presentErr error
	log        *[]string
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

func (s *fakeSurface) Acquire() (any, error) {
	*s.log = append(*s.log, "acquire")
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	return "target", nil
}

func (s *fakeSurface) Present() error {
	*s.log = append(*s.log, "present")
	return s.presentErr
}

type fakeHost struct {
	queue   navigation.Queue
	surface *fakeSurface
}

func (h *fakeHost) PollEvents() []navigation.Event { return h.queue.Drain(nil) }

func (h *fakeHost) Surface() Surface {
	if h.surface == nil {
		return nil
	}
	return h.surface
}

type fakeRenderer struct {
	log         *[]string
	allocErr    error
	submitErr   error
	uploaded    []viewport.Params
	allocW      int
	allocH      int
	dispatchedW int
	dispatchedH int
	drawTarget  any
}

func (r *fakeRenderer) Allocate(w, h int) error {
	*r.log = append(*r.log, fmt.Sprintf("allocate %dx%d", w, h))
	if r.allocErr != nil {
		return r.allocErr
	}
	r.allocW, r.allocH = w, h
	return nil
}

func (r *fakeRenderer) Upload(p viewport.Params) error {
	*r.log = append(*r.log, "upload")
	r.uploaded = append(r.uploaded, p)
	return nil
}

func (r *fakeRenderer) Begin() error {
	*r.log = append(*r.log, "begin")
	return nil
}

func (r *fakeRenderer) Dispatch(w, h int) {
	*r.log = append(*r.log, "dispatch")
	r.dispatchedW, r.dispatchedH = w, h
}

func (r *fakeRenderer) Draw(target any) {
	*r.log = append(*r.log, "draw")
	r.drawTarget = target
}

func (r *fakeRenderer) Submit() error {
	*r.log = append(*r.log, "submit")
	return r.submitErr
}

func (r *fakeRenderer) Discard() { *r.log = append(*r.log, "discard") }

type fixture struct {
	log      []string
	params   viewport.Params
	host     *fakeHost
	renderer *fakeRenderer
	driver   *Driver
}

func newFixture(w, h int, opts ...Option) *fixture {
	f := &fixture{params: viewport.Default()}
	f.host = &fakeHost{surface: &fakeSurface{w: w, h: h, log: &f.log}}
	f.renderer = &fakeRenderer{log: &f.log}
	ctrl := navigation.NewController(&f.params, navigation.WithSize(w, h))
	f.driver = NewDriver(f.host, f.renderer, ctrl, opts...)
	return f
}

func (f *fixture) frame(t *testing.T) Result {
	t.Helper()
	f.log = f.log[:0]
	res, err := f.driver.Frame(context.Background())
	require.NoError(t, err)
	return res
}

func TestFrameOrder(t *testing.T) {
	f := newFixture(640, 480)

	res := f.frame(t)
	assert.True(t, res.Drawn)
	assert.True(t, res.Recomputed)
	assert.Equal(t, []string{
		"allocate 640x480", "acquire", "upload", "begin", "dispatch", "draw", "submit", "present",
	}, f.log)
	assert.Equal(t, "target", f.renderer.drawTarget)
	assert.Equal(t, 640, f.renderer.dispatchedW)
	assert.Equal(t, 480, f.renderer.dispatchedH)

	// Same size: no reallocation, every other step still runs.
	f.frame(t)
	assert.Equal(t, []string{"acquire", "upload", "begin", "dispatch", "draw", "submit", "present"}, f.log)
}

func TestFrameAppliesEventsBeforeUpload(t *testing.T) {
	f := newFixture(640, 480)
	f.host.queue.Push(navigation.ZoomIn(), navigation.ZoomIn(), navigation.IncreaseIterations())

	f.frame(t)
	require.Len(t, f.renderer.uploaded, 1)
	got := f.renderer.uploaded[0]
	assert.InDelta(t, 1.21, got.Zoom, 1e-5)
	assert.Equal(t, uint32(150), got.MaxIterations)
	assert.Zero(t, f.host.queue.Len())
}

func TestFrameResizeReallocatesBeforeDispatch(t *testing.T) {
	f := newFixture(640, 480)
	f.frame(t)

	f.host.surface.w, f.host.surface.h = 1024, 768
	f.host.queue.Push(navigation.Resize(1024, 768))
	f.frame(t)

	require.NotEmpty(t, f.log)
	assert.Equal(t, "allocate 1024x768", f.log[0])
	assert.Equal(t, 1024, f.renderer.dispatchedW)
	assert.Equal(t, 768, f.renderer.dispatchedH)

	w, h := f.driver.Controller().Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestFrameFollowsSurfaceSizeWithoutEvent(t *testing.T) {
	f := newFixture(640, 480)
	f.frame(t)

	f.host.surface.w = 700
	res := f.frame(t)
	assert.Equal(t, 700, res.Width)
	assert.Equal(t, "allocate 700x480", f.log[0])
	w, _ := f.driver.Controller().Size()
	assert.Equal(t, 700, w)
}

func TestFrameAllocationFailureRetries(t *testing.T) {
	f := newFixture(640, 480)
	f.renderer.allocErr = errors.New("out of memory")

	res := f.frame(t)
	assert.False(t, res.Drawn)
	assert.Equal(t, SkipAllocation, res.Skipped)
	assert.Equal(t, []string{"allocate 640x480"}, f.log)

	f.renderer.allocErr = nil
	res = f.frame(t)
	assert.True(t, res.Drawn)
	assert.Equal(t, "allocate 640x480", f.log[0])

	drawn, skipped := f.driver.Stats()
	assert.Equal(t, uint64(1), drawn)
	assert.Equal(t, uint64(1), skipped)
}

func TestFrameSurfaceUnavailable(t *testing.T) {
	f := newFixture(640, 480)

	f.host.surface.w, f.host.surface.h = 0, 0
	res := f.frame(t)
	assert.Equal(t, SkipSurfaceUnavailable, res.Skipped)
	assert.Empty(t, f.log, "no GPU work for a minimized surface")

	f.host.surface.w, f.host.surface.h = 640, 480
	f.host.surface.acquireErr = fmt.Errorf("outdated: %w", ErrSurfaceUnavailable)
	res = f.frame(t)
	assert.Equal(t, SkipSurfaceUnavailable, res.Skipped)
	assert.NotContains(t, f.log, "dispatch")

	f.host.surface.acquireErr = nil
	res = f.frame(t)
	assert.True(t, res.Drawn)
}

func TestFrameNoSurface(t *testing.T) {
	f := newFixture(640, 480)
	f.host.surface = nil
	f.host.queue.Push(navigation.ZoomIn())

	res := f.frame(t)
	assert.Equal(t, SkipNoSurface, res.Skipped)
	// Events are still consumed so input is never replayed.
	assert.InDelta(t, 1.1, f.params.Zoom, 1e-6)
}

func TestFrameSubmitError(t *testing.T) {
	f := newFixture(640, 480)
	f.renderer.submitErr = errors.New("device lost")

	_, err := f.driver.Frame(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
	assert.NotContains(t, f.log, "present")
	assert.Equal(t, []string{"submit", "discard"}, f.log[len(f.log)-2:])

	// The next frame records from scratch and the image is redrawn.
	f.renderer.submitErr = nil
	res := f.frame(t)
	assert.True(t, res.Drawn)
	assert.True(t, res.Recomputed)
	assert.Equal(t, []string{"acquire", "upload", "begin", "dispatch", "draw", "submit", "present"}, f.log)
}

func TestFrameDiscardOnlyAfterFailure(t *testing.T) {
	f := newFixture(640, 480)
	for i := 0; i < 3; i++ {
		f.frame(t)
		assert.NotContains(t, f.log, "discard")
	}
}

func TestFramePresentUnavailable(t *testing.T) {
	f := newFixture(640, 480)
	f.host.surface.presentErr = ErrSurfaceUnavailable
	res := f.frame(t)
	assert.Equal(t, SkipSurfaceUnavailable, res.Skipped)
}

func TestFrameContextCanceled(t *testing.T) {
	f := newFixture(640, 480)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.driver.Frame(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.log)
}

func TestRecomputeOnChange(t *testing.T) {
	f := newFixture(640, 480, WithRecompute(RecomputeOnChange))

	res := f.frame(t)
	assert.True(t, res.Recomputed, "first frame always computes")

	res = f.frame(t)
	assert.True(t, res.Drawn)
	assert.False(t, res.Recomputed)
	assert.Equal(t, []string{"acquire", "begin", "draw", "submit", "present"}, f.log)

	f.host.queue.Push(navigation.PanBy(3, 0))
	res = f.frame(t)
	assert.True(t, res.Recomputed)

	f.driver.Invalidate()
	res = f.frame(t)
	assert.True(t, res.Recomputed)

	f.host.surface.w = 320
	res = f.frame(t)
	assert.True(t, res.Recomputed, "resize invalidates the output image")
}

func TestRecomputeText(t *testing.T) {
	var r Recompute
	require.NoError(t, r.UnmarshalText([]byte("on-change")))
	assert.Equal(t, RecomputeOnChange, r)
	b, err := r.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "on-change", string(b))
	assert.Error(t, r.UnmarshalText([]byte("sometimes")))
}
