// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !js

package gogpuhost

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/frame"
	"github.com/gogpu/mandelbrot/internal/gpu"
	"github.com/gogpu/mandelbrot/navigation"
	"github.com/gogpu/mandelbrot/viewport"
)

// ErrHostClosed is returned when Run is called on a closed host.
var ErrHostClosed = errors.New("gogpuhost: host is closed")

// Host owns a gogpu window and drives one frame.Driver from its draw
// callback. It implements frame.Host.
//
// Host is not safe for concurrent use except for the input callbacks,
// which only touch the event queue.
type Host struct {
	cfg mandelbrot.Config
	app *gogpu.App

	queue  navigation.Queue
	input  *navigation.Translator
	params viewport.Params
	ctrl   *navigation.Controller

	surface  windowSurface
	scale    atomic.Uint64 // float64 bits of the window scale factor
	device   *gpu.Device
	renderer *gpu.Renderer
	driver   *frame.Driver

	ctx       context.Context
	runErr    error
	frames    uint64
	closeOnce sync.Once
	closed    bool
}

var _ frame.Host = (*Host)(nil)

// New creates the window and wires input. The GPU renderer is created on
// the first draw.
func New(cfg mandelbrot.Config) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Host{cfg: cfg, ctx: context.Background()}
	h.input = navigation.NewTranslator(&h.queue)
	h.ctrl = cfg.NewController(&h.params)

	h.app = gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(cfg.Title).
		WithSize(cfg.Width, cfg.Height).
		WithContinuousRender(true))

	h.setScale(h.app.ScaleFactor())
	h.app.OnDraw(h.draw)
	h.app.OnClose(h.release)
	h.bindInput(h.app.EventSource())
	return h, nil
}

// bindInput feeds window input to the translator. gogpu reports pointer
// positions in logical points; the translator works in surface pixels.
func (h *Host) bindInput(events gpucontext.EventSource) {
	events.OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if h.input.Key(navigationKey(key)) {
			h.quit()
		}
	})
	events.OnMousePress(func(button gpucontext.MouseButton, x, y float64) {
		if button == gpucontext.MouseButtonLeft {
			h.input.PointerDown(h.pixels(x, y))
		}
	})
	events.OnMouseRelease(func(button gpucontext.MouseButton, _, _ float64) {
		if button == gpucontext.MouseButtonLeft {
			h.input.PointerUp()
		}
	})
	events.OnMouseMove(func(x, y float64) {
		h.input.PointerMove(h.pixels(x, y))
	})
	events.OnScroll(func(_, dy float64) {
		h.input.Scroll(dy)
	})
}

func (h *Host) setScale(s float64) {
	if !(s > 0) {
		s = 1
	}
	h.scale.Store(math.Float64bits(s))
}

// pixels converts a pointer position from logical points to physical
// pixels.
func (h *Host) pixels(x, y float64) (float64, float64) {
	s := 1.0
	if bits := h.scale.Load(); bits != 0 {
		s = math.Float64frombits(bits)
	}
	return x * s, y * s
}

func (h *Host) quit() {
	if h.app != nil {
		h.app.Quit()
	}
}

// Run shows the window and blocks until it closes or ctx is canceled.
func (h *Host) Run(ctx context.Context) error {
	if h.closed {
		return ErrHostClosed
	}
	h.ctx = ctx
	mandelbrot.Logger().Info("gogpuhost: starting",
		"title", h.cfg.Title, "width", h.cfg.Width, "height", h.cfg.Height,
		"recompute", h.cfg.Recompute, "geometry", h.cfg.Geometry)
	if err := h.app.Run(); err != nil {
		return fmt.Errorf("gogpuhost: run: %w", err)
	}
	h.release()
	return h.runErr
}

// PollEvents implements frame.Host.
func (h *Host) PollEvents() []navigation.Event {
	return h.queue.Drain(nil)
}

// Surface implements frame.Host. It is nil outside the draw callback.
func (h *Host) Surface() frame.Surface {
	if !h.surface.active {
		return nil
	}
	return &h.surface
}

// Params returns the current viewport parameters.
func (h *Host) Params() viewport.Params { return h.params }

// Frames returns the number of frames drawn so far.
func (h *Host) Frames() uint64 { return h.frames }

func (h *Host) draw(dc *gogpu.Context) {
	if h.closed {
		return
	}
	if h.ctx.Err() != nil {
		h.quit()
		return
	}
	if h.driver == nil {
		if err := h.start(h.app.GPUContextProvider()); err != nil {
			h.runErr = err
			mandelbrot.Logger().Error("gogpuhost: renderer setup failed", "err", err)
			h.quit()
			return
		}
	}

	h.setScale(dc.ScaleFactor())
	w, ht := dc.FramebufferSize()
	h.render(w, ht, dc.SurfaceView())
}

// render runs one driver frame into view, a width×height swapchain image
// in physical pixels.
func (h *Host) render(width, height int, view *wgpu.TextureView) {
	h.surface.begin(width, height, view)
	res, err := h.driver.Frame(h.ctx)
	h.surface.end()

	if err != nil {
		mandelbrot.Logger().Warn("gogpuhost: frame failed", "err", err)
		return
	}
	if res.Drawn {
		h.frames++
	}
}

// start borrows the window's GPU device and builds the renderer.
func (h *Host) start(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return fmt.Errorf("gogpuhost: window has no GPU context")
	}
	dev, err := gpu.DeviceFromProvider(provider)
	if err != nil {
		return fmt.Errorf("gogpuhost: %w", err)
	}
	r, err := gpu.NewRenderer(dev, gpu.Options{
		Format:   provider.SurfaceFormat(),
		Geometry: h.cfg.Geometry,
	})
	if err != nil {
		dev.Close()
		return err
	}
	h.device = dev
	h.renderer = r
	h.driver = frame.NewDriver(h, r, h.ctrl, h.cfg.DriverOptions()...)
	mandelbrot.Logger().Info("gogpuhost: renderer ready",
		"adapter", dev.Name(), "format", provider.SurfaceFormat())
	return nil
}

// release frees GPU resources while the window's device is still alive.
func (h *Host) release() {
	h.closeOnce.Do(func() {
		h.closed = true
		if h.renderer != nil {
			h.renderer.Close()
		}
		h.device.Close()
		drawn, skipped := uint64(0), uint64(0)
		if h.driver != nil {
			drawn, skipped = h.driver.Stats()
		}
		mandelbrot.Logger().Info("gogpuhost: closed", "drawn", drawn, "skipped", skipped)
	})
}
