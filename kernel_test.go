package inkboard

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKernel_Falloff(t *testing.T) {
	assert := assert.New(t)

	k := NewKernel(DefaultKernelSize)
	c := DefaultKernelSize / 2

	assert.Equal(DefaultKernelSize, k.Size())
	assert.Equal(float32(1), k.At(c, c))
	assert.Equal(float32(0), k.At(0, 0))

	for i := 1; i < c; i++ {
		assert.LessOrEqual(k.At(c+i, c), k.At(c+i-1, c), "cell %d", i)
		assert.Equal(k.At(c-i, c), k.At(c+i, c))
		assert.Equal(k.At(c, c-i), k.At(c, c+i))
	}
	for y := 0; y < k.Size(); y++ {
		for x := 0; x < k.Size(); x++ {
			a := k.At(x, y)
			assert.True(a >= 0 && a <= 1)
		}
	}
}

func TestKernel_SizeIsClamped(t *testing.T) {
	for _, size := range []int{0, -3, 1} {
		k := NewKernel(size)
		assert.Equal(t, 1, k.Size())
		assert.Equal(t, float32(1), k.At(0, 0))
	}
}

func TestKernel_OutOfRangeCellsAreClamped(t *testing.T) {
	k := NewKernel(8)
	assert.Equal(t, k.At(0, 0), k.At(-5, -5))
	assert.Equal(t, k.At(7, 7), k.At(100, 100))
	assert.Equal(t, k.At(4, 4), k.Sample(0.5, 0.5))
	assert.Equal(t, k.At(7, 7), k.Sample(1, 1))
}

func TestKernel_FromImage(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	img.SetNRGBA(3, 1, color.NRGBA{R: 9, A: 51})

	k := KernelFromImage(img)
	assert.Equal(4, k.Size())
	assert.Equal(float32(1), k.At(0, 0))
	assert.Equal(float32(0.2), k.At(3, 2))
	assert.Equal(float32(0), k.At(1, 0))

	empty := KernelFromImage(image.NewNRGBA(image.Rectangle{}))
	assert.Equal(1, empty.Size())
	assert.Equal(float32(0), empty.At(0, 0))
}
