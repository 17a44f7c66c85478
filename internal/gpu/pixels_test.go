package gpu

import (
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/gogpu/mandelbrot/kernel"
)

func TestImageFromPacked(t *testing.T) {
	const w, h = 3, 2
	colors := []color.RGBA{
		{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255},
		{R: 1, G: 2, B: 3, A: 4}, kernel.InSetColor, {R: 200, G: 100, B: 50, A: 255},
	}
	data := make([]byte, 0, w*h*4)
	for _, c := range colors {
		data = binary.LittleEndian.AppendUint32(data, kernel.Pack(c))
	}

	img, err := imageFromPacked(data, w, h)
	if err != nil {
		t.Fatalf("imageFromPacked: %v", err)
	}
	for i, want := range colors {
		x, y := i%w, i/w
		if got := img.RGBAAt(x, y); got != want {
			t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
		}
	}
}

func TestImageFromPackedErrors(t *testing.T) {
	if _, err := imageFromPacked(nil, 0, 4); err == nil {
		t.Error("zero width: expected error")
	}
	if _, err := imageFromPacked(make([]byte, 15), 2, 2); err == nil {
		t.Error("short readback: expected error")
	}
	// Extra trailing bytes are ignored.
	img, err := imageFromPacked(make([]byte, 32), 2, 2)
	if err != nil {
		t.Fatalf("padded readback: %v", err)
	}
	if len(img.Pix) != 16 {
		t.Errorf("len(Pix) = %d, want 16", len(img.Pix))
	}
}
