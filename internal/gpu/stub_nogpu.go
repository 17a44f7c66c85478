//go:build nogpu

package gpu

import (
	"image"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/mandelbrot/frame"
	"github.com/gogpu/mandelbrot/viewport"
)

// Device is unavailable in nogpu builds.
type Device struct{}

// OpenStandalone always fails in nogpu builds.
func OpenStandalone() (*Device, error) { return nil, ErrUnavailable }

// DeviceFromProvider always fails in nogpu builds.
func DeviceFromProvider(gpucontext.DeviceProvider) (*Device, error) { return nil, ErrUnavailable }

func (d *Device) Name() string { return "" }
func (d *Device) Close()       {}

// Renderer is a placeholder that fails every operation.
type Renderer struct{}

var _ frame.Renderer = (*Renderer)(nil)

// NewRenderer always fails in nogpu builds.
func NewRenderer(*Device, Options) (*Renderer, error) { return nil, ErrUnavailable }

func (*Renderer) Allocate(int, int) error         { return ErrUnavailable }
func (*Renderer) Upload(viewport.Params) error    { return ErrUnavailable }
func (*Renderer) Begin() error                    { return ErrUnavailable }
func (*Renderer) Dispatch(int, int)               {}
func (*Renderer) Draw(any)                        {}
func (*Renderer) Submit() error                   { return ErrUnavailable }
func (*Renderer) Discard()                        {}
func (*Renderer) Size() (width, height int)       { return 0, 0 }
func (*Renderer) Close()                          {}
func (*Renderer) ReadImage() (*image.RGBA, error) { return nil, ErrUnavailable }

func (*Renderer) Render(viewport.Params, int, int) (*image.RGBA, error) {
	return nil, ErrUnavailable
}
