package inkboard

import (
	"image"
	"image/color"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"github.com/esimov/inkboard/utils"
)

var (
	// Transparent is the default board background.
	Transparent = color.NRGBA{}
	// White is the opaque whiteboard background.
	White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	// Outside is what Get reports for coordinates outside the canvas.
	Outside = color.NRGBA{}
)

// Canvas owns the fixed size pixel buffer of the board.
//
// Reads and writes outside the canvas are silently clipped. The buffer
// itself is held behind an atomic pointer: ResizeCopy and Clear build a new
// buffer and publish it in one step, so a reader never sees a half replaced
// image. Per pixel writes are not synchronized; callers serialize them.
type Canvas struct {
	width, height int
	bg            color.NRGBA
	buf           atomic.Pointer[image.NRGBA]
}

// NewCanvas creates a canvas filled with the background color.
// Dimensions below 1 are raised to 1.
func NewCanvas(width, height int, bg color.NRGBA) *Canvas {
	c := &Canvas{
		width:  utils.Max(width, 1),
		height: utils.Max(height, 1),
		bg:     bg,
	}
	c.buf.Store(c.blank())
	return c
}

func (c *Canvas) blank() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
	if c.bg != (color.NRGBA{}) {
		px := []uint8{c.bg.R, c.bg.G, c.bg.B, c.bg.A}
		for i := 0; i < len(img.Pix); i += 4 {
			copy(img.Pix[i:i+4], px)
		}
	}
	return img
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Bounds returns the canvas rectangle, always anchored at the origin.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// Background returns the color used by Clear.
func (c *Canvas) Background() color.NRGBA { return c.bg }

// Contains reports whether (x, y) addresses a pixel of the canvas.
func (c *Canvas) Contains(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the pixel at (x, y), or Outside when out of bounds.
func (c *Canvas) Get(x, y int) color.NRGBA {
	if !c.Contains(x, y) {
		return Outside
	}
	return c.buf.Load().NRGBAAt(x, y)
}

// Set writes the pixel at (x, y). Out of bounds writes are dropped.
func (c *Canvas) Set(x, y int, col color.NRGBA) {
	if !c.Contains(x, y) {
		return
	}
	c.buf.Load().SetNRGBA(x, y, col)
}

// Clear resets every pixel to the background color.
func (c *Canvas) Clear() {
	c.buf.Store(c.blank())
}

// ResizeCopy replaces the content of the canvas with src, bilinearly
// resampled to the canvas dimensions when the sizes differ.
// The canvas dimensions never change.
func (c *Canvas) ResizeCopy(src image.Image) {
	var img *image.NRGBA
	b := src.Bounds()
	if b.Dx() == c.width && b.Dy() == c.height {
		img = imaging.Clone(src)
	} else {
		img = imaging.Resize(src, c.width, c.height, imaging.Linear)
	}
	c.buf.Store(img)
}

// Image returns the live buffer. It must be treated as read-only.
func (c *Canvas) Image() *image.NRGBA {
	return c.buf.Load()
}

// Snapshot returns a deep copy of the current buffer.
func (c *Canvas) Snapshot() *image.NRGBA {
	return imaging.Clone(c.buf.Load())
}
