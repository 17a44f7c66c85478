// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js && wasm

package webhost

import (
	"fmt"
	"syscall/js"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/frame"
	"github.com/gogpu/mandelbrot/kernel"
	"github.com/gogpu/mandelbrot/viewport"
)

// Renderer records the kernel and presentation passes on a browser
// GPUDevice. It implements frame.Renderer.
type Renderer struct {
	device   js.Value
	queue    js.Value
	format   string
	geometry kernel.Geometry

	computePipeline js.Value
	computeLayout   js.Value
	presentPipeline js.Value
	presentLayout   js.Value

	paramsBuf js.Value
	extentBuf js.Value
	vertexBuf js.Value

	imageBuf    js.Value
	computeBind js.Value
	presentBind js.Value
	width       int
	height      int

	encoder js.Value
}

var _ frame.Renderer = (*Renderer)(nil)

// NewRenderer builds the pipelines on device for a canvas of the given
// texture format (navigator.gpu.getPreferredCanvasFormat()).
func NewRenderer(device js.Value, format string, geometry kernel.Geometry) (*Renderer, error) {
	if !device.Truthy() {
		return nil, ErrNoWebGPU
	}
	r := &Renderer{
		device:   device,
		queue:    device.Get("queue"),
		format:   format,
		geometry: geometry,
	}
	if err := r.createPipelines(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) createPipelines() (err error) {
	// Descriptor mistakes surface as JS exceptions.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("webhost: create pipelines: %v", rec)
		}
	}()

	computeModule := r.device.Call("createShaderModule", map[string]any{
		"label": "mandelbrot",
		"code":  kernel.ComputeSource(),
	})
	r.computeLayout = r.device.Call("createBindGroupLayout", map[string]any{
		"label": "mandelbrot_bind_layout",
		"entries": []any{
			map[string]any{"binding": kernel.ComputeBindingParams, "visibility": shaderStageCompute, "buffer": map[string]any{"type": "uniform"}},
			map[string]any{"binding": kernel.ComputeBindingImage, "visibility": shaderStageCompute, "buffer": map[string]any{"type": "storage"}},
			map[string]any{"binding": kernel.ComputeBindingExtent, "visibility": shaderStageCompute, "buffer": map[string]any{"type": "uniform"}},
		},
	})
	r.computePipeline = r.device.Call("createComputePipeline", map[string]any{
		"label": "mandelbrot_pipeline",
		"layout": r.device.Call("createPipelineLayout", map[string]any{
			"bindGroupLayouts": []any{r.computeLayout},
		}),
		"compute": map[string]any{
			"module":     computeModule,
			"entryPoint": kernel.ComputeEntryPoint,
		},
	})

	presentModule := r.device.Call("createShaderModule", map[string]any{
		"label": "present_" + r.geometry.String(),
		"code":  kernel.PresentSource(r.geometry),
	})
	r.presentLayout = r.device.Call("createBindGroupLayout", map[string]any{
		"label": "present_bind_layout",
		"entries": []any{
			map[string]any{"binding": kernel.PresentBindingImage, "visibility": shaderStageFragment, "buffer": map[string]any{"type": "read-only-storage"}},
			map[string]any{"binding": kernel.PresentBindingExtent, "visibility": shaderStageFragment, "buffer": map[string]any{"type": "uniform"}},
		},
	})
	vertex := map[string]any{
		"module":     presentModule,
		"entryPoint": kernel.VertexEntryPoint,
	}
	if r.geometry.UsesVertexBuffer() {
		vertex["buffers"] = []any{map[string]any{
			"arrayStride": kernel.QuadVertexStride,
			"attributes": []any{
				map[string]any{"format": "float32x2", "offset": 0, "shaderLocation": 0},
			},
		}}
		data := kernel.QuadVertexBytes()
		r.vertexBuf = r.createBuffer("present_quad_vertices", len(data), bufferUsageVertex|bufferUsageCopyDst)
		r.queue.Call("writeBuffer", r.vertexBuf, 0, bytesToJS(data))
	}
	r.presentPipeline = r.device.Call("createRenderPipeline", map[string]any{
		"label": "present_pipeline",
		"layout": r.device.Call("createPipelineLayout", map[string]any{
			"bindGroupLayouts": []any{r.presentLayout},
		}),
		"vertex": vertex,
		"fragment": map[string]any{
			"module":     presentModule,
			"entryPoint": kernel.FragmentEntryPoint,
			"targets":    []any{map[string]any{"format": r.format}},
		},
		"primitive": map[string]any{"topology": "triangle-list", "cullMode": "none"},
	})

	r.paramsBuf = r.createBuffer("mandelbrot_params", viewport.BlockSize, bufferUsageUniform|bufferUsageCopyDst)
	r.extentBuf = r.createBuffer("mandelbrot_extent", kernel.ExtentSize, bufferUsageUniform|bufferUsageCopyDst)
	return nil
}

func (r *Renderer) createBuffer(label string, size, usage int) js.Value {
	return r.device.Call("createBuffer", map[string]any{
		"label": label,
		"size":  size,
		"usage": usage,
	})
}

// Allocate recreates the output image and bind groups.
func (r *Renderer) Allocate(width, height int) (err error) {
	size := kernel.ImageBytes(width, height)
	if size == 0 {
		return fmt.Errorf("webhost: invalid output size %dx%d", width, height)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("webhost: allocate %dx%d: %v", width, height, rec)
		}
	}()
	r.destroyImage()

	r.imageBuf = r.createBuffer("mandelbrot_output", int(size), bufferUsageStorage|bufferUsageCopySrc)
	r.computeBind = r.device.Call("createBindGroup", map[string]any{
		"label":  "mandelbrot_bind",
		"layout": r.computeLayout,
		"entries": []any{
			map[string]any{"binding": kernel.ComputeBindingParams, "resource": map[string]any{"buffer": r.paramsBuf}},
			map[string]any{"binding": kernel.ComputeBindingImage, "resource": map[string]any{"buffer": r.imageBuf}},
			map[string]any{"binding": kernel.ComputeBindingExtent, "resource": map[string]any{"buffer": r.extentBuf}},
		},
	})
	r.presentBind = r.device.Call("createBindGroup", map[string]any{
		"label":  "present_bind",
		"layout": r.presentLayout,
		"entries": []any{
			map[string]any{"binding": kernel.PresentBindingImage, "resource": map[string]any{"buffer": r.imageBuf}},
			map[string]any{"binding": kernel.PresentBindingExtent, "resource": map[string]any{"buffer": r.extentBuf}},
		},
	})
	r.queue.Call("writeBuffer", r.extentBuf, 0, bytesToJS(kernel.ExtentBytes(width, height)))
	r.width, r.height = width, height
	mandelbrot.Logger().Debug("webhost: output image allocated", "width", width, "height", height, "bytes", size)
	return nil
}

// Upload writes the parameter block.
func (r *Renderer) Upload(p viewport.Params) error {
	block := p.Block()
	r.queue.Call("writeBuffer", r.paramsBuf, 0, bytesToJS(block[:]))
	return nil
}

// Begin starts a command encoder.
func (r *Renderer) Begin() error {
	if !r.imageBuf.Truthy() {
		return fmt.Errorf("webhost: output image not allocated")
	}
	r.encoder = r.device.Call("createCommandEncoder", map[string]any{"label": "mandelbrot_frame"})
	return nil
}

// Dispatch records the compute pass.
func (r *Renderer) Dispatch(width, height int) {
	if !r.encoder.Truthy() {
		return
	}
	x, y := kernel.DispatchSize(width, height)
	pass := r.encoder.Call("beginComputePass", map[string]any{"label": "mandelbrot_compute"})
	pass.Call("setPipeline", r.computePipeline)
	pass.Call("setBindGroup", 0, r.computeBind)
	pass.Call("dispatchWorkgroups", x, y, 1)
	pass.Call("end")
}

// Draw records the presentation pass into target, a GPUTextureView.
func (r *Renderer) Draw(target any) {
	view, ok := target.(js.Value)
	if !ok || !r.encoder.Truthy() {
		return
	}
	pass := r.encoder.Call("beginRenderPass", map[string]any{
		"label": "mandelbrot_present",
		"colorAttachments": []any{map[string]any{
			"view":       view,
			"loadOp":     "clear",
			"storeOp":    "store",
			"clearValue": map[string]any{"r": 0.1, "g": 0.1, "b": 0.1, "a": 1.0},
		}},
	})
	pass.Call("setPipeline", r.presentPipeline)
	pass.Call("setBindGroup", 0, r.presentBind)
	if r.vertexBuf.Truthy() {
		pass.Call("setVertexBuffer", 0, r.vertexBuf)
	}
	pass.Call("draw", r.geometry.VertexCount())
	pass.Call("end")
}

// Submit finishes the encoder and submits it. Queue order guarantees the
// kernel writes finish before the presentation pass reads them.
func (r *Renderer) Submit() (err error) {
	if !r.encoder.Truthy() {
		return fmt.Errorf("webhost: submit without Begin")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("webhost: submit: %v", rec)
		}
	}()
	cmd := r.encoder.Call("finish")
	r.encoder = js.Undefined()
	r.queue.Call("submit", []any{cmd})
	return nil
}

// Discard drops the current encoder.
func (r *Renderer) Discard() {
	r.encoder = js.Undefined()
}

// Close destroys the buffers.
func (r *Renderer) Close() {
	r.destroyImage()
	for _, b := range []js.Value{r.paramsBuf, r.extentBuf, r.vertexBuf} {
		if b.Truthy() {
			b.Call("destroy")
		}
	}
}

func (r *Renderer) destroyImage() {
	if r.imageBuf.Truthy() {
		r.imageBuf.Call("destroy")
	}
	r.imageBuf = js.Undefined()
	r.computeBind = js.Undefined()
	r.presentBind = js.Undefined()
	r.width, r.height = 0, 0
}
