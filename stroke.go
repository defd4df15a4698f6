package inkboard

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/esimov/inkboard/imop"
	"github.com/esimov/inkboard/utils"
)

const (
	// MinRadius is the smallest brush or eraser radius in pixels.
	MinRadius = 1
	// DefaultStampDensity places one stamp per pixel of travel along the longer canvas side.
	DefaultStampDensity = 1
)

// Mode selects what a stamp does to the pixels under the brush.
type Mode int

const (
	ModeDraw Mode = iota
	ModeErase
)

func (m Mode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeErase:
		return "erase"
	}
	return "unknown"
}

// UV is a position in normalized surface coordinates, [0, 1] on both axes.
type UV struct {
	U, V float32
}

// Pixel maps the coordinate onto a w×h pixel grid.
func (p UV) Pixel(w, h int) image.Point {
	return image.Point{
		X: int(math32.Floor(p.U * float32(w))),
		Y: int(math32.Floor(p.V * float32(h))),
	}
}

// Dist returns the Euclidean distance between two coordinates.
func (p UV) Dist(q UV) float32 {
	return math32.Hypot(q.U-p.U, q.V-p.V)
}

// Lerp interpolates between p and q.
func (p UV) Lerp(q UV, t float32) UV {
	return UV{
		U: p.U + (q.U-p.U)*t,
		V: p.V + (q.V-p.V)*t,
	}
}

// Brush gathers everything a stamp needs.
type Brush struct {
	Kernel *Kernel
	Radius float32 // in pixels
	Mode   Mode
	Color  color.NRGBA
	Blend  *imop.Blend
}

// maxPixelRadius bounds the stamp reach so that it always fits an int and a float32.
const maxPixelRadius = 1 << 24

// pixelRadius returns the number of pixels the stamp reaches on each side of its center.
func (b Brush) pixelRadius() int {
	radius := utils.Clamp(b.Radius, MinRadius, maxPixelRadius)
	return int(math32.Ceil(radius))
}

// StampDot applies the brush once, centered on uv. It visits the square of
// side 2r around the center pixel, offsets [-r, r) on both axes, and weights
// every pixel by the kernel cell at (offset + r) / 2r, so the center pixel
// gets the kernel's peak. Only the part of the square overlapping the canvas
// is visited.
func StampDot(c *Canvas, b Brush, uv UV) {
	if b.Kernel == nil {
		b.Kernel = NewKernel(DefaultKernelSize)
	}
	r := b.pixelRadius()
	center := uv.Pixel(c.Width(), c.Height())
	side := float32(2 * r)

	jMin, jMax := utils.Max(-r, -center.Y), utils.Min(r-1, c.Height()-1-center.Y)
	iMin, iMax := utils.Max(-r, -center.X), utils.Min(r-1, c.Width()-1-center.X)

	for j := jMin; j <= jMax; j++ {
		y := center.Y + j
		ny := float32(j+r) / side
		for i := iMin; i <= iMax; i++ {
			x := center.X + i
			alpha := float64(b.Kernel.Sample(float32(i+r)/side, ny))
			switch b.Mode {
			case ModeErase:
				imop.Erase(c, x, y, alpha)
			default:
				imop.Draw(c, x, y, alpha, b.Color, b.Blend)
			}
		}
	}
}

// StampLine stamps the brush along the segment from→to so that fast pointer
// motion leaves a continuous trace. The number of steps is the segment length
// times the longer canvas side times density, at least one; stamps are
// placed at every i/steps for i in [0, steps]. It returns the stamp count.
func StampLine(c *Canvas, b Brush, from, to UV, density float32) int {
	if density <= 0 {
		density = DefaultStampDensity
	}
	if b.Kernel == nil {
		b.Kernel = NewKernel(DefaultKernelSize)
	}
	span := float32(utils.Max(c.Width(), c.Height()))
	steps := utils.Max(1, int(math32.Ceil(from.Dist(to)*span*density)))

	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		StampDot(c, b, from.Lerp(to, t))
	}
	return steps + 1
}
