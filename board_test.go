package inkboard

import (
	"image"
	"image/color"
	"path/filepath"
	"sync"
	"testing"

	"github.com/esimov/inkboard/imop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 100, 100
	cfg.BrushRadius = 10
	cfg.EraserRadius = 5
	return cfg
}

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	b, err := NewBoard(testConfig())
	require.NoError(t, err)
	return b
}

func TestBoard_New(t *testing.T) {
	assert := assert.New(t)

	b := newTestBoard(t)
	assert.Equal(image.Rect(0, 0, 100, 100), b.Bounds())
	assert.Equal(Outside, b.At(-1, 0))
	assert.Equal(Transparent, b.At(99, 99))
	assert.Equal(color.NRGBA{A: 255}, b.BrushColor())
	assert.Equal(float32(10), b.BrushRadius())
	assert.Equal(float32(5), b.EraserRadius())
	assert.Equal(imop.Normal, b.Blend())

	cfg := testConfig()
	cfg.BrushColor = "#zzz"
	_, err := NewBoard(cfg)
	assert.Error(err)

	cfg = testConfig()
	cfg.BrushImage = filepath.Join(t.TempDir(), "missing.png")
	_, err = NewBoard(cfg)
	assert.Error(err)

	cfg = testConfig()
	cfg.Width, cfg.BrushRadius = -5, 0
	b, err = NewBoard(cfg)
	require.NoError(t, err)
	assert.Equal(1, b.Bounds().Dx())
	assert.Equal(float32(MinRadius), b.BrushRadius())
}

func TestBoard_BrushImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brush.png")
	require.NoError(t, Save(NewCanvas(8, 8, color.NRGBA{A: 255}), path))

	cfg := testConfig()
	cfg.BrushImage = path
	b, err := NewBoard(cfg)
	require.NoError(t, err)

	b.OnStrokeBegin(UV{0.5, 0.5}, 1)
	// A solid stencil paints the whole footprint at full strength.
	assert.Equal(t, color.NRGBA{A: 255}, b.At(40, 40))
	assert.Equal(t, color.NRGBA{A: 255}, b.At(59, 59))
	assert.Equal(t, color.NRGBA{}, b.At(60, 60))
}

func TestBoard_StrokeLifecycle(t *testing.T) {
	assert := assert.New(t)
	b := newTestBoard(t)

	_, ok := b.ActiveStroke()
	assert.False(ok)

	b.OnStrokeBegin(UV{0.2, 0.2}, 1)
	b.OnStrokeMove(UV{0.2, 0.2}, UV{0.8, 0.2}, 1)
	s, ok := b.ActiveStroke()
	assert.True(ok)
	assert.Len(s.Samples, 2)
	assert.Equal(UV{0.8, 0.2}, s.Samples[1].UV)

	for x := 20; x <= 80; x++ {
		assert.Equal(color.NRGBA{A: 255}, b.At(x, 20), "pixel %d", x)
	}

	b.OnStrokeEnd()
	_, ok = b.ActiveStroke()
	assert.False(ok)

	// Ending twice is harmless.
	assert.NotPanics(b.OnStrokeEnd)
}

func TestBoard_MoveWithoutBeginDraws(t *testing.T) {
	b := newTestBoard(t)
	b.OnStrokeMove(UV{0.1, 0.5}, UV{0.3, 0.5}, 1)

	assert.Equal(t, color.NRGBA{A: 255}, b.At(20, 50))
	s, ok := b.ActiveStroke()
	assert.True(t, ok)
	assert.Len(t, s.Samples, 2)
}

func TestBoard_RadiusFactor(t *testing.T) {
	assert := assert.New(t)
	b := newTestBoard(t)

	// 10 px scaled by 0.05 falls below the minimum and is clamped to 1 px.
	b.OnStrokeBegin(UV{0.5, 0.5}, 0.05)
	assert.Equal(color.NRGBA{A: 255}, b.At(50, 50))
	assert.Equal(color.NRGBA{}, b.At(50, 52))

	b.OnStrokeBegin(UV{0.2, 0.2}, 2)
	assert.Greater(b.At(20, 38).A, uint8(0))
}

func TestBoard_Erase(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig()
	cfg.Background = "#ff0000"
	b, err := NewBoard(cfg)
	require.NoError(t, err)

	b.OnErase(UV{0.5, 0.5}, 1)
	assert.Equal(color.NRGBA{R: 255}, b.At(50, 50))
	assert.Equal(color.NRGBA{R: 255, A: 255}, b.At(50, 56))

	_, ok := b.ActiveStroke()
	assert.False(ok)
}

func TestBoard_Settings(t *testing.T) {
	assert := assert.New(t)
	b := newTestBoard(t)

	b.SetBrushRadius(0)
	assert.Equal(float32(MinRadius), b.BrushRadius())
	b.SetEraserRadius(-2)
	assert.Equal(float32(MinRadius), b.EraserRadius())
	b.SetEraserRadius(12)
	assert.Equal(float32(12), b.EraserRadius())

	assert.Error(b.SetBlend("bogus"))
	assert.Equal(imop.Normal, b.Blend())
	assert.NoError(b.SetBlend(imop.Multiply))
	assert.Equal(imop.Multiply, b.Blend())

	green := color.NRGBA{G: 255, A: 255}
	b.SetBrushColor(green)
	b.SetBrushRadius(3)
	b.OnStrokeBegin(UV{0.5, 0.5}, 1)
	assert.Equal(green, b.At(50, 50))

	b.SetKernel(nil)
	b.Clear()
	assert.Equal(color.NRGBA{}, b.At(50, 50))
}

func TestBoard_SaveLoad(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "board.png")

	b := newTestBoard(t)
	b.OnStrokeBegin(UV{0.5, 0.5}, 1)
	require.NoError(t, b.Save(path))

	other := newTestBoard(t)
	require.NoError(t, other.Load(path))
	assert.Equal(b.Pixels(), other.Pixels())

	before := other.Pixels()
	assert.ErrorIs(other.Load(filepath.Join(t.TempDir(), "nope.png")), ErrNotFound)
	assert.Equal(before, other.Pixels())
}

func TestBoard_ConcurrentInput(t *testing.T) {
	b := newTestBoard(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := float32(i+1) / 5
			b.OnStrokeBegin(UV{0.1, v}, 1)
			b.OnStrokeMove(UV{0.1, v}, UV{0.9, v}, 1)
			b.OnStrokeEnd()
			_ = b.Pixels()
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		y := (i + 1) * 20
		assert.Equal(t, color.NRGBA{A: 255}, b.At(50, y))
	}
}
