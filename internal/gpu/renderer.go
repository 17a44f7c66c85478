//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/mandelbrot/frame"
	"github.com/gogpu/mandelbrot/kernel"
	"github.com/gogpu/mandelbrot/viewport"
)

// mapTimeout bounds the wait for a readback mapping.
const mapTimeout = 5 * time.Second

// clearColor fills the surface before the presentation pass.
var clearColor = wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1}

// Renderer runs the escape-time kernel as a compute pass over a storage
// buffer and copies the result to the surface with a render pass.
// It implements frame.Renderer.
type Renderer struct {
	mu sync.Mutex

	dev  *Device
	opts Options

	computeShader     *wgpu.ShaderModule
	computeBindLayout *wgpu.BindGroupLayout
	computePipeLayout *wgpu.PipelineLayout
	computePipeline   *wgpu.ComputePipeline

	presentShader     *wgpu.ShaderModule
	presentBindLayout *wgpu.BindGroupLayout
	presentPipeLayout *wgpu.PipelineLayout
	presentPipeline   *wgpu.RenderPipeline

	paramsBuf *wgpu.Buffer
	extentBuf *wgpu.Buffer
	vertexBuf *wgpu.Buffer // GeometryQuad only

	// Size-dependent resources, rebuilt by Allocate.
	imageBuf    *wgpu.Buffer
	imageSize   uint64
	computeBind *wgpu.BindGroup
	presentBind *wgpu.BindGroup
	width       int
	height      int

	encoder   *wgpu.CommandEncoder
	recordErr error
}

var _ frame.Renderer = (*Renderer)(nil)

// NewRenderer compiles the pipelines on dev. The renderer does not take
// ownership of dev.
func NewRenderer(dev *Device, opts Options) (*Renderer, error) {
	if dev == nil || dev.device == nil {
		return nil, ErrNotInitialized
	}
	if err := kernel.Validate(); err != nil {
		// naga is stricter than some drivers; keep going and let the
		// driver have the final word.
		slogger().Warn("gpu: shader validation failed", "err", err)
	}
	r := &Renderer{dev: dev, opts: opts}
	if err := r.createPipelines(); err != nil {
		r.destroyPipelines()
		return nil, err
	}
	slogger().Info("gpu: renderer ready",
		"adapter", dev.Name(), "geometry", opts.Geometry, "present", r.presents())
	return r, nil
}

func (r *Renderer) presents() bool {
	return r.opts.Format != gputypes.TextureFormatUndefined
}

func (r *Renderer) createPipelines() error {
	device := r.dev.device

	var err error
	r.computeShader, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "mandelbrot",
		WGSL:  kernel.ComputeSource(),
	})
	if err != nil {
		return fmt.Errorf("compile mandelbrot shader: %w", err)
	}
	r.computeBindLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "mandelbrot_bind_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: kernel.ComputeBindingParams, Visibility: wgpu.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: kernel.ComputeBindingImage, Visibility: wgpu.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
			{Binding: kernel.ComputeBindingExtent, Visibility: wgpu.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		return fmt.Errorf("create mandelbrot bind layout: %w", err)
	}
	r.computePipeLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "mandelbrot_pipe_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.computeBindLayout},
	})
	if err != nil {
		return fmt.Errorf("create mandelbrot pipeline layout: %w", err)
	}
	r.computePipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:      "mandelbrot_pipeline",
		Layout:     r.computePipeLayout,
		Module:     r.computeShader,
		EntryPoint: kernel.ComputeEntryPoint,
	})
	if err != nil {
		return fmt.Errorf("create mandelbrot pipeline: %w", err)
	}

	r.paramsBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "mandelbrot_params",
		Size:  viewport.BlockSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}
	r.extentBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "mandelbrot_extent",
		Size:  kernel.ExtentSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create extent buffer: %w", err)
	}

	if !r.presents() {
		return nil
	}
	return r.createPresentPipeline()
}

func (r *Renderer) createPresentPipeline() error {
	device := r.dev.device
	g := r.opts.Geometry

	var err error
	r.presentShader, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "present_" + g.String(),
		WGSL:  kernel.PresentSource(g),
	})
	if err != nil {
		return fmt.Errorf("compile present shader: %w", err)
	}
	r.presentBindLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "present_bind_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: kernel.PresentBindingImage, Visibility: wgpu.ShaderStageFragment, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: kernel.PresentBindingExtent, Visibility: wgpu.ShaderStageFragment, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		return fmt.Errorf("create present bind layout: %w", err)
	}
	r.presentPipeLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "present_pipe_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.presentBindLayout},
	})
	if err != nil {
		return fmt.Errorf("create present pipeline layout: %w", err)
	}

	var buffers []wgpu.VertexBufferLayout
	if g.UsesVertexBuffer() {
		buffers = []wgpu.VertexBufferLayout{{
			ArrayStride: kernel.QuadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		}}
		data := kernel.QuadVertexBytes()
		r.vertexBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "present_quad_vertices",
			Size:  uint64(len(data)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create quad vertex buffer: %w", err)
		}
		if err := r.dev.queue.WriteBuffer(r.vertexBuf, 0, data); err != nil {
			return fmt.Errorf("write quad vertices: %w", err)
		}
	}

	r.presentPipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "present_pipeline",
		Layout: r.presentPipeLayout,
		Vertex: wgpu.VertexState{
			Module:     r.presentShader,
			EntryPoint: kernel.VertexEntryPoint,
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     r.presentShader,
			EntryPoint: kernel.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    r.opts.Format,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("create present pipeline: %w", err)
	}
	return nil
}

// Allocate (re)creates the output image and its bind groups for a
// width×height frame. The previous image is released first. On error the
// renderer is left without an image.
func (r *Renderer) Allocate(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dev == nil {
		return ErrNotInitialized
	}
	size := kernel.ImageBytes(width, height)
	if size == 0 {
		return fmt.Errorf("gpu: invalid output size %dx%d", width, height)
	}
	r.destroyImage()

	device := r.dev.device
	var err error
	r.imageBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "mandelbrot_output",
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create output image: %w", err)
	}
	r.imageSize = size

	r.computeBind, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "mandelbrot_bind",
		Layout: r.computeBindLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: kernel.ComputeBindingParams, Buffer: r.paramsBuf, Size: viewport.BlockSize},
			{Binding: kernel.ComputeBindingImage, Buffer: r.imageBuf, Size: size},
			{Binding: kernel.ComputeBindingExtent, Buffer: r.extentBuf, Size: kernel.ExtentSize},
		},
	})
	if err != nil {
		r.destroyImage()
		return fmt.Errorf("create mandelbrot bind group: %w", err)
	}

	if r.presents() {
		r.presentBind, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "present_bind",
			Layout: r.presentBindLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: kernel.PresentBindingImage, Buffer: r.imageBuf, Size: size},
				{Binding: kernel.PresentBindingExtent, Buffer: r.extentBuf, Size: kernel.ExtentSize},
			},
		})
		if err != nil {
			r.destroyImage()
			return fmt.Errorf("create present bind group: %w", err)
		}
	}

	if err := r.dev.queue.WriteBuffer(r.extentBuf, 0, kernel.ExtentBytes(width, height)); err != nil {
		r.destroyImage()
		return fmt.Errorf("write output extent: %w", err)
	}
	r.width, r.height = width, height
	slogger().Debug("gpu: output image allocated", "width", width, "height", height, "bytes", size)
	return nil
}

// Upload writes the parameter block.
func (r *Renderer) Upload(p viewport.Params) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dev == nil {
		return ErrNotInitialized
	}
	block := p.Block()
	if err := r.dev.queue.WriteBuffer(r.paramsBuf, 0, block[:]); err != nil {
		return fmt.Errorf("write params: %w", err)
	}
	return nil
}

// Begin starts recording a frame.
func (r *Renderer) Begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dev == nil {
		return ErrNotInitialized
	}
	if r.imageBuf == nil {
		return ErrNoImage
	}
	r.discardLocked()
	encoder, err := r.dev.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "mandelbrot_frame"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	r.encoder = encoder
	r.recordErr = nil
	return nil
}

// Dispatch records the compute pass over a width×height image.
func (r *Renderer) Dispatch(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.encoder == nil || r.recordErr != nil {
		return
	}
	if width != r.width || height != r.height {
		r.recordErr = fmt.Errorf("gpu: dispatch %dx%d does not match output image %dx%d",
			width, height, r.width, r.height)
		return
	}
	x, y := kernel.DispatchSize(width, height)
	cp, err := r.encoder.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "mandelbrot_compute"})
	if err != nil {
		r.recordErr = fmt.Errorf("begin compute pass: %w", err)
		return
	}
	cp.SetPipeline(r.computePipeline)
	cp.SetBindGroup(0, r.computeBind, nil)
	cp.Dispatch(x, y, 1)
	if err := cp.End(); err != nil {
		r.recordErr = fmt.Errorf("end compute pass: %w", err)
	}
}

// Draw records the presentation pass into target, which must be the
// *wgpu.TextureView of the surface.
func (r *Renderer) Draw(target any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.encoder == nil || r.recordErr != nil {
		return
	}
	if !r.presents() {
		r.recordErr = fmt.Errorf("gpu: renderer has no presentation pipeline")
		return
	}
	view, ok := target.(*wgpu.TextureView)
	if !ok || view == nil {
		r.recordErr = fmt.Errorf("gpu: draw target %T is not a *wgpu.TextureView", target)
		return
	}
	rp, err := r.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "mandelbrot_present",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearColor,
		}},
	})
	if err != nil {
		r.recordErr = fmt.Errorf("begin render pass: %w", err)
		return
	}
	rp.SetPipeline(r.presentPipeline)
	rp.SetBindGroup(0, r.presentBind, nil)
	if r.vertexBuf != nil {
		rp.SetVertexBuffer(0, r.vertexBuf, 0)
	}
	rp.Draw(r.opts.Geometry.VertexCount(), 1, 0, 0)
	if err := rp.End(); err != nil {
		r.recordErr = fmt.Errorf("end render pass: %w", err)
	}
}

// Submit ends the recording and hands it to the queue. Queue order keeps
// the kernel writes ahead of the presentation pass and of anything the
// host submits after it.
func (r *Renderer) Submit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submitLocked()
}

func (r *Renderer) submitLocked() error {
	if r.encoder == nil {
		return fmt.Errorf("gpu: submit without Begin")
	}
	if r.recordErr != nil {
		err := r.recordErr
		r.discardLocked()
		return err
	}
	encoder := r.encoder
	r.encoder = nil

	cmdBuf, err := encoder.Finish()
	if err != nil {
		return fmt.Errorf("finish encoding: %w", err)
	}
	if _, err := r.dev.queue.Submit(cmdBuf); err != nil {
		cmdBuf.Release()
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}

// Discard drops the current recording.
func (r *Renderer) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discardLocked()
}

func (r *Renderer) discardLocked() {
	if r.encoder != nil {
		r.encoder.DiscardEncoding()
	}
	r.encoder = nil
	r.recordErr = nil
}

// Recording reports whether a frame is being recorded.
func (r *Renderer) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.encoder != nil
}

// Size returns the size of the allocated output image.
func (r *Renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Close releases every GPU object the renderer created. The device is left
// to its owner.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dev == nil {
		return
	}
	r.discardLocked()
	r.destroyImage()
	r.destroyPipelines()
	r.dev = nil
}

func (r *Renderer) destroyImage() {
	if r.computeBind != nil {
		r.computeBind.Release()
		r.computeBind = nil
	}
	if r.presentBind != nil {
		r.presentBind.Release()
		r.presentBind = nil
	}
	if r.imageBuf != nil {
		r.imageBuf.Release()
		r.imageBuf = nil
	}
	r.imageSize = 0
	r.width, r.height = 0, 0
}

func (r *Renderer) destroyPipelines() {
	if r.presentPipeline != nil {
		r.presentPipeline.Release()
		r.presentPipeline = nil
	}
	if r.presentPipeLayout != nil {
		r.presentPipeLayout.Release()
		r.presentPipeLayout = nil
	}
	if r.presentBindLayout != nil {
		r.presentBindLayout.Release()
		r.presentBindLayout = nil
	}
	if r.presentShader != nil {
		r.presentShader.Release()
		r.presentShader = nil
	}
	if r.computePipeline != nil {
		r.computePipeline.Release()
		r.computePipeline = nil
	}
	if r.computePipeLayout != nil {
		r.computePipeLayout.Release()
		r.computePipeLayout = nil
	}
	if r.computeBindLayout != nil {
		r.computeBindLayout.Release()
		r.computeBindLayout = nil
	}
	if r.computeShader != nil {
		r.computeShader.Release()
		r.computeShader = nil
	}
	for _, buf := range []**wgpu.Buffer{&r.vertexBuf, &r.extentBuf, &r.paramsBuf} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
}
