// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js && wasm

package webhost

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/frame"
	"github.com/gogpu/mandelbrot/navigation"
	"github.com/gogpu/mandelbrot/viewport"
)

// Host drives the visualizer from requestAnimationFrame on a canvas
// element. It implements frame.Host.
type Host struct {
	cfg mandelbrot.Config

	canvas  js.Value
	context js.Value
	device  js.Value

	queue    navigation.Queue
	input    *navigation.Translator
	params   viewport.Params
	renderer *Renderer
	driver   *frame.Driver
	surface  canvasSurface

	funcs   []js.Func
	frameID js.Value
	quit    chan struct{}
}

var _ frame.Host = (*Host)(nil)

// New finds the canvas named by cfg.CanvasID, requests a WebGPU device and
// configures the canvas for it.
func New(cfg mandelbrot.Config) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", cfg.CanvasID)
	if !canvas.Truthy() {
		return nil, fmt.Errorf("webhost: no canvas with id %q", cfg.CanvasID)
	}

	gpu := js.Global().Get("navigator").Get("gpu")
	if !gpu.Truthy() {
		return nil, ErrNoWebGPU
	}
	adapter, err := await(gpu.Call("requestAdapter"))
	if err != nil || !adapter.Truthy() {
		return nil, fmt.Errorf("%w: no adapter", ErrNoWebGPU)
	}
	device, err := await(adapter.Call("requestDevice"))
	if err != nil {
		return nil, fmt.Errorf("%w: request device: %w", ErrNoWebGPU, err)
	}

	format := gpu.Call("getPreferredCanvasFormat").String()
	ctx := canvas.Call("getContext", "webgpu")
	if !ctx.Truthy() {
		return nil, fmt.Errorf("%w: canvas has no webgpu context", ErrNoWebGPU)
	}
	ctx.Call("configure", map[string]any{
		"device":    device,
		"format":    format,
		"alphaMode": "opaque",
	})

	renderer, err := NewRenderer(device, format, cfg.Geometry)
	if err != nil {
		return nil, err
	}

	h := &Host{
		cfg:      cfg,
		canvas:   canvas,
		context:  ctx,
		device:   device,
		renderer: renderer,
		quit:     make(chan struct{}),
	}
	h.surface.host = h
	h.input = navigation.NewTranslator(&h.queue)
	ctrl := cfg.NewController(&h.params)
	h.driver = frame.NewDriver(h, renderer, ctrl, cfg.DriverOptions()...)
	h.resizeCanvas()
	mandelbrot.Logger().Info("webhost: ready", "canvas", cfg.CanvasID, "format", format)
	return h, nil
}

// Run registers the input listeners and renders until ctx is canceled or
// Escape is pressed.
func (h *Host) Run(ctx context.Context) error {
	h.listen(h.canvas, "pointerdown", h.onPointerDown)
	h.listen(js.Global(), "pointerup", h.onPointerUp)
	h.listen(js.Global(), "pointermove", h.onPointerMove)
	h.listen(h.canvas, "wheel", h.onWheel)
	h.listen(js.Global(), "keydown", h.onKeyDown)
	h.listen(js.Global(), "resize", h.onResize)
	defer h.release()

	var tick js.Func
	tick = js.FuncOf(func(this js.Value, args []js.Value) any {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := h.driver.Frame(ctx); err != nil {
			mandelbrot.Logger().Warn("webhost: frame failed", "err", err)
		}
		h.frameID = js.Global().Call("requestAnimationFrame", tick)
		return nil
	})
	h.funcs = append(h.funcs, tick)
	h.frameID = js.Global().Call("requestAnimationFrame", tick)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-h.quit:
		return nil
	}
}

// PollEvents implements frame.Host.
func (h *Host) PollEvents() []navigation.Event {
	return h.queue.Drain(nil)
}

// Surface implements frame.Host.
func (h *Host) Surface() frame.Surface {
	return &h.surface
}

// Params returns the current viewport parameters.
func (h *Host) Params() viewport.Params { return h.params }

func (h *Host) listen(target js.Value, event string, fn func(js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	h.funcs = append(h.funcs, f)
	target.Call("addEventListener", event, f)
}

func (h *Host) ratio() float64 {
	r := js.Global().Get("devicePixelRatio")
	if r.Type() != js.TypeNumber {
		return 1
	}
	return r.Float()
}

func (h *Host) onPointerDown(e js.Value) {
	if e.Get("button").Int() != 0 {
		return
	}
	r := h.ratio()
	h.input.PointerDown(e.Get("clientX").Float()*r, e.Get("clientY").Float()*r)
	e.Call("preventDefault")
}

func (h *Host) onPointerUp(js.Value) {
	h.input.PointerUp()
}

func (h *Host) onPointerMove(e js.Value) {
	r := h.ratio()
	h.input.PointerMove(e.Get("clientX").Float()*r, e.Get("clientY").Float()*r)
}

func (h *Host) onWheel(e js.Value) {
	h.input.Scroll(wheelScroll(e.Get("deltaY").Float()))
	e.Call("preventDefault")
}

func (h *Host) onKeyDown(e js.Value) {
	k := navigation.KeyForName(e.Get("key").String())
	if k == navigation.KeyNone {
		return
	}
	e.Call("preventDefault")
	if h.input.Key(k) {
		select {
		case <-h.quit:
		default:
			close(h.quit)
		}
	}
}

func (h *Host) onResize(js.Value) {
	h.resizeCanvas()
}

// resizeCanvas matches the canvas backing store to its CSS size in device
// pixels. The driver picks the new size up on the next frame.
func (h *Host) resizeCanvas() {
	r := h.ratio()
	w := devicePixels(h.canvas.Get("clientWidth").Float(), r)
	ht := devicePixels(h.canvas.Get("clientHeight").Float(), r)
	if h.canvas.Get("width").Int() != w || h.canvas.Get("height").Int() != ht {
		h.canvas.Set("width", w)
		h.canvas.Set("height", ht)
	}
}

func (h *Host) release() {
	if h.frameID.Truthy() {
		js.Global().Call("cancelAnimationFrame", h.frameID)
	}
	for _, f := range h.funcs {
		f.Release()
	}
	h.funcs = nil
	h.renderer.Close()
	drawn, skipped := h.driver.Stats()
	mandelbrot.Logger().Info("webhost: stopped", "drawn", drawn, "skipped", skipped)
}

// canvasSurface hands out the canvas texture of the current animation
// frame.
type canvasSurface struct {
	host *Host
}

func (s *canvasSurface) Size() (width, height int) {
	c := s.host.canvas
	return c.Get("width").Int(), c.Get("height").Int()
}

func (s *canvasSurface) Acquire() (target any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", frame.ErrSurfaceUnavailable, rec)
		}
	}()
	tex := s.host.context.Call("getCurrentTexture")
	if !tex.Truthy() {
		return nil, frame.ErrSurfaceUnavailable
	}
	return tex.Call("createView"), nil
}

// Present is a no-op: the browser presents the canvas after the animation
// frame callback returns.
func (s *canvasSurface) Present() error { return nil }
