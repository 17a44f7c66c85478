package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/mandelbrot/kernel"
)

// imageFromPacked converts OutputImage bytes to an RGBA image. Each texel is
// a little-endian u32 r | g<<8 | b<<16 | a<<24, so its bytes are already in
// R, G, B, A order.
func imageFromPacked(data []byte, width, height int) (*image.RGBA, error) {
	want := kernel.ImageBytes(width, height)
	if want == 0 {
		return nil, fmt.Errorf("gpu: invalid image size %dx%d", width, height)
	}
	if uint64(len(data)) < want {
		return nil, fmt.Errorf("gpu: readback has %d bytes, want %d", len(data), want)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, data[:want])
	return img, nil
}
