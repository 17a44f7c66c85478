//go:build !nogpu

package gpu

import (
	"context"
	"fmt"
	"image"

	"github.com/gogpu/wgpu"

	"github.com/gogpu/mandelbrot/viewport"
)

// Render computes one width×height image for p and reads it back to the
// CPU. It reuses the output image when the size is unchanged.
func (r *Renderer) Render(p viewport.Params, width, height int) (*image.RGBA, error) {
	r.mu.Lock()
	w, h := r.width, r.height
	r.mu.Unlock()
	if w != width || h != height {
		if err := r.Allocate(width, height); err != nil {
			return nil, err
		}
	}
	if err := r.Upload(p); err != nil {
		return nil, err
	}
	if err := r.Begin(); err != nil {
		return nil, err
	}
	r.Dispatch(width, height)
	return r.ReadImage()
}

// ReadImage copies the output image to a staging buffer, submits the
// current recording and returns the pixels. It ends the recording started
// by Begin.
func (r *Renderer) ReadImage() (*image.RGBA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dev == nil {
		return nil, ErrNotInitialized
	}
	if r.encoder == nil {
		return nil, fmt.Errorf("gpu: read image without Begin")
	}
	if r.imageBuf == nil {
		r.discardLocked()
		return nil, ErrNoImage
	}

	size := r.imageSize
	staging, err := r.dev.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "mandelbrot_readback",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		r.discardLocked()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer staging.Release()

	r.encoder.CopyBufferToBuffer(r.imageBuf, 0, staging, 0, size)
	if err := r.submitLocked(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), mapTimeout)
	defer cancel()
	if err := staging.Map(ctx, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	rng, err := staging.MappedRange(0, size)
	if err != nil {
		_ = staging.Unmap()
		return nil, fmt.Errorf("staging mapped range: %w", err)
	}
	data := make([]byte, size)
	copy(data, rng.Bytes())
	if err := staging.Unmap(); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	return imageFromPacked(data, r.width, r.height)
}
