package inkboard

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/esimov/inkboard/utils"
)

// DefaultKernelSize is the resolution of the generated brush stencil.
const DefaultKernelSize = 64

// Kernel is a square stencil of alpha values in [0, 1] applied by every stamp.
// It is independent of the canvas resolution and immutable once built,
// so a single Kernel may be shared by any number of boards.
type Kernel struct {
	size  int
	alpha []float32
}

// NewKernel builds a size×size soft round brush. The alpha of each cell is
// (1 - d)², d being the distance to the center cell divided by half the size
// and clamped to [0, 1]. Sizes below 1 are raised to 1.
func NewKernel(size int) *Kernel {
	size = utils.Max(size, 1)
	k := &Kernel{
		size:  size,
		alpha: make([]float32, size*size),
	}

	c := size / 2
	half := float32(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float32(x-c), float32(y-c)
			d := utils.Clamp(math32.Hypot(dx, dy)/half, 0, 1)
			a := 1 - d
			k.alpha[y*size+x] = a * a
		}
	}
	return k
}

// KernelFromImage builds a stencil from the alpha channel of a brush image.
// Non-square images are sampled into a square of the larger side.
func KernelFromImage(img image.Image) *Kernel {
	b := img.Bounds()
	size := utils.Max(utils.Max(b.Dx(), b.Dy()), 1)
	k := &Kernel{
		size:  size,
		alpha: make([]float32, size*size),
	}
	if b.Empty() {
		return k
	}

	for y := 0; y < size; y++ {
		sy := b.Min.Y + y*b.Dy()/size
		for x := 0; x < size; x++ {
			sx := b.Min.X + x*b.Dx()/size
			c := color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
			k.alpha[y*size+x] = float32(c.A) / 255
		}
	}
	return k
}

// Size returns the side length of the stencil.
func (k *Kernel) Size() int {
	return k.size
}

// At returns the alpha of the cell (x, y), clamping the coordinates to the stencil.
func (k *Kernel) At(x, y int) float32 {
	x = utils.Clamp(x, 0, k.size-1)
	y = utils.Clamp(y, 0, k.size-1)
	return k.alpha[y*k.size+x]
}

// Sample maps normalized stencil coordinates to a cell.
func (k *Kernel) Sample(nx, ny float32) float32 {
	fs := float32(k.size)
	return k.At(int(math32.Floor(nx*fs)), int(math32.Floor(ny*fs)))
}
