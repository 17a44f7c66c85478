package gpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/mandelbrot/kernel"
)

// Options configures a Renderer.
type Options struct {
	// Format is the surface format of the presentation target. Leave it
	// at TextureFormatUndefined for a compute-only renderer (snapshots).
	Format gputypes.TextureFormat

	// Geometry selects the presentation pass variant.
	Geometry kernel.Geometry
}
