package inkboard

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanvas_Bounds(t *testing.T) {
	assert := assert.New(t)

	c := NewCanvas(30, 20, White)
	assert.Equal(image.Rect(0, 0, 30, 20), c.Bounds())
	assert.Equal(30, c.Width())
	assert.Equal(20, c.Height())
	assert.Equal(White, c.Get(0, 0))
	assert.Equal(White, c.Get(29, 19))

	assert.True(c.Contains(29, 19))
	assert.False(c.Contains(30, 19))
	assert.False(c.Contains(-1, 0))
	assert.Equal(Outside, c.Get(-1, 0))
	assert.Equal(Outside, c.Get(0, 20))

	assert.NotPanics(func() {
		c.Set(-1, -1, color.NRGBA{A: 255})
		c.Set(30, 20, color.NRGBA{A: 255})
	})

	small := NewCanvas(0, -4, Transparent)
	assert.Equal(image.Rect(0, 0, 1, 1), small.Bounds())
}

func TestCanvas_Clear(t *testing.T) {
	bg := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	c := NewCanvas(4, 4, bg)
	c.Set(2, 2, color.NRGBA{R: 200, A: 255})
	assert.Equal(t, color.NRGBA{R: 200, A: 255}, c.Get(2, 2))

	c.Clear()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, bg, c.Get(x, y))
		}
	}
}

func TestCanvas_ResizeCopy(t *testing.T) {
	assert := assert.New(t)

	fill := color.NRGBA{R: 10, G: 120, B: 230, A: 255}
	src := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			src.SetNRGBA(x, y, fill)
		}
	}

	c := NewCanvas(100, 100, Transparent)
	c.ResizeCopy(src)
	assert.Equal(image.Rect(0, 0, 100, 100), c.Bounds())
	assert.Equal(image.Rect(0, 0, 100, 100), c.Image().Bounds())

	for _, p := range []image.Point{{0, 0}, {50, 50}, {99, 99}} {
		got := c.Get(p.X, p.Y)
		assert.InDelta(fill.R, got.R, 1)
		assert.InDelta(fill.G, got.G, 1)
		assert.InDelta(fill.B, got.B, 1)
		assert.Equal(uint8(255), got.A)
	}

	// Same size copies are exact and detached from the source.
	same := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	same.SetNRGBA(3, 4, color.NRGBA{R: 7, A: 9})
	c.ResizeCopy(same)
	same.SetNRGBA(3, 4, color.NRGBA{})
	assert.Equal(color.NRGBA{R: 7, A: 9}, c.Get(3, 4))
}

func TestCanvas_ResizeCopyInterpolates(t *testing.T) {
	assert := assert.New(t)

	// 2×2 checker: black and white cells.
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{A: 255})
	src.SetNRGBA(1, 0, White)
	src.SetNRGBA(0, 1, White)
	src.SetNRGBA(1, 1, color.NRGBA{A: 255})

	c := NewCanvas(4, 4, Transparent)
	c.ResizeCopy(src)

	// Corners map onto a single source pixel.
	assert.Equal(color.NRGBA{A: 255}, c.Get(0, 0))
	assert.Equal(White, c.Get(3, 0))

	// Inner pixels lie between two source centers on each axis,
	// so none of them keeps a pure checker value.
	for y := 1; y <= 2; y++ {
		for x := 1; x <= 2; x++ {
			got := c.Get(x, y)
			assert.Greater(got.R, uint8(0), "pixel (%d, %d)", x, y)
			assert.Less(got.R, uint8(255), "pixel (%d, %d)", x, y)
			assert.Equal(uint8(255), got.A)
		}
	}
	// Inner pixels sit a quarter cell away from the center: 5/8 of the near color.
	assert.InDelta(96, c.Get(1, 1).R, 2)
	assert.InDelta(159, c.Get(2, 1).R, 2)
}

func TestCanvas_SnapshotIsDetached(t *testing.T) {
	c := NewCanvas(2, 2, Transparent)
	snap := c.Snapshot()
	c.Set(0, 0, color.NRGBA{G: 255, A: 255})

	assert.Equal(t, color.NRGBA{}, snap.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, c.Get(0, 0))
}

func TestCanvas_ReaderNeverSeesPartialSwap(t *testing.T) {
	a := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	b := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range a.Pix {
		a.Pix[i] = 10
		b.Pix[i] = 20
	}
	c := NewCanvas(8, 8, Transparent)
	c.ResizeCopy(a)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				c.ResizeCopy(b)
			} else {
				c.ResizeCopy(a)
			}
		}
	}()

	for i := 0; i < 200; i++ {
		img := c.Image()
		first := img.Pix[0]
		for _, v := range img.Pix {
			if v != first {
				t.Fatalf("mixed buffer: %d and %d", first, v)
			}
		}
	}
	wg.Wait()
}
