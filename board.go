package inkboard

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/esimov/inkboard/imop"
)

// Sample is one contact point of a stroke.
type Sample struct {
	UV     UV
	Radius float32
}

// Stroke is the ordered list of samples of one continuous contact,
// from stroke begin to stroke end.
type Stroke struct {
	Samples []Sample
}

// Board is the drawing engine: it owns the canvas and the brush settings and
// turns stroke and erase inputs into stamps, in the order they are received.
//
// All methods are safe for concurrent use. They are serialized by a single
// lock, which is what a renderer needs to take consistent snapshots while
// input keeps arriving.
type Board struct {
	mu sync.Mutex

	canvas  *Canvas
	kernel  *Kernel
	blend   *imop.Blend
	density float32

	brushColor   color.NRGBA
	brushRadius  float32
	eraserRadius float32

	stroke *Stroke
}

// NewBoard creates a board from the configuration. Out of range numbers are
// clamped; malformed colors, blend modes or brush images are reported.
func NewBoard(cfg Config) (*Board, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bg, brush, err := cfg.colors()
	if err != nil {
		return nil, err
	}

	var kernel *Kernel
	if cfg.BrushImage != "" {
		img, err := imaging.Open(cfg.BrushImage)
		if err != nil {
			return nil, fmt.Errorf("could not open the brush image: %w", err)
		}
		kernel = KernelFromImage(img)
	} else {
		kernel = NewKernel(cfg.KernelSize)
	}

	blend := imop.NewBlend()
	if err := blend.Set(cfg.Blend); err != nil {
		return nil, err
	}

	return &Board{
		canvas:       NewCanvas(cfg.Width, cfg.Height, bg),
		kernel:       kernel,
		blend:        blend,
		density:      cfg.StampDensity,
		brushColor:   brush,
		brushRadius:  cfg.BrushRadius,
		eraserRadius: cfg.EraserRadius,
	}, nil
}

// Bounds returns the board rectangle.
func (b *Board) Bounds() image.Rectangle {
	return b.canvas.Bounds()
}

// At returns the pixel at (x, y), or Outside when out of bounds.
func (b *Board) At(x, y int) color.NRGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canvas.Get(x, y)
}

// SetKernel replaces the brush stencil. A nil kernel restores the generated one.
func (b *Board) SetKernel(k *Kernel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if k == nil {
		k = NewKernel(DefaultKernelSize)
	}
	b.kernel = k
}

// SetBrushColor sets the ink color.
func (b *Board) SetBrushColor(c color.NRGBA) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.brushColor = c
}

// BrushColor returns the ink color.
func (b *Board) BrushColor() color.NRGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.brushColor
}

// SetBrushRadius sets the brush radius in pixels, clamped to MinRadius.
func (b *Board) SetBrushRadius(px float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.brushRadius = clampRadius("brush", px)
}

// BrushRadius returns the brush radius in pixels.
func (b *Board) BrushRadius() float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.brushRadius
}

// SetEraserRadius sets the eraser radius in pixels, clamped to MinRadius.
func (b *Board) SetEraserRadius(px float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eraserRadius = clampRadius("eraser", px)
}

// EraserRadius returns the eraser radius in pixels.
func (b *Board) EraserRadius() float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eraserRadius
}

// SetBlend selects the blend mode used when drawing.
func (b *Board) SetBlend(mode string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blend.Set(mode)
}

// Blend returns the active blend mode.
func (b *Board) Blend() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blend.Get()
}

func clampRadius(what string, px float32) float32 {
	if px < MinRadius {
		Logger().Warn("radius clamped", "tool", what, "radius", px, "min", MinRadius)
		return MinRadius
	}
	return px
}

// brush returns the stamp parameters for the mode with the contact factor applied.
// Caller must hold the lock.
func (b *Board) brush(mode Mode, factor float32) Brush {
	radius := b.brushRadius
	if mode == ModeErase {
		radius = b.eraserRadius
	}
	radius *= factor
	if radius < MinRadius {
		Logger().Warn("radius clamped", "tool", mode.String(), "radius", radius, "min", MinRadius)
		radius = MinRadius
	}
	return Brush{
		Kernel: b.kernel,
		Radius: radius,
		Mode:   mode,
		Color:  b.brushColor,
		Blend:  b.blend,
	}
}

// OnStrokeBegin starts a new stroke and stamps a single dot at uv.
// radius scales the configured brush radius, 1 being the nominal size.
func (b *Board) OnStrokeBegin(uv UV, radius float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stroke = &Stroke{Samples: []Sample{{UV: uv, Radius: radius}}}
	StampDot(b.canvas, b.brush(ModeDraw, radius), uv)
	Logger().Debug("stroke begin", "u", uv.U, "v", uv.V, "radius", radius)
}

// OnStrokeMove stamps a continuous line from one contact point to the next.
// A move without a preceding begin still draws the segment.
func (b *Board) OnStrokeMove(from, to UV, radius float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stroke == nil {
		b.stroke = &Stroke{Samples: []Sample{{UV: from, Radius: radius}}}
	}
	b.stroke.Samples = append(b.stroke.Samples, Sample{UV: to, Radius: radius})
	n := StampLine(b.canvas, b.brush(ModeDraw, radius), from, to, b.density)
	Logger().Debug("stroke move", "stamps", n)
}

// OnStrokeEnd closes the active stroke, if any.
func (b *Board) OnStrokeEnd() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stroke != nil {
		Logger().Debug("stroke end", "samples", len(b.stroke.Samples))
	}
	b.stroke = nil
}

// OnErase decays the ink under the eraser centered on uv.
func (b *Board) OnErase(uv UV, radius float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	StampDot(b.canvas, b.brush(ModeErase, radius), uv)
	Logger().Debug("erase", "u", uv.U, "v", uv.V, "radius", radius)
}

// ActiveStroke returns a copy of the stroke in progress.
func (b *Board) ActiveStroke() (Stroke, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stroke == nil {
		return Stroke{}, false
	}
	samples := make([]Sample, len(b.stroke.Samples))
	copy(samples, b.stroke.Samples)
	return Stroke{Samples: samples}, true
}

// Clear wipes the board back to its background.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.canvas.Clear()
}

// Save writes the board image to path. The board is only locked while
// its pixels are copied, not while the file is written.
func (b *Board) Save(path string) error {
	b.mu.Lock()
	img := b.canvas.Snapshot()
	b.mu.Unlock()

	if err := writeImage(img, path); err != nil {
		Logger().Warn("board save failed", "path", path, "err", err)
		return err
	}
	Logger().Info("board saved", "path", path)
	return nil
}

// Load replaces the board image with the one stored at path.
// The board is unchanged when loading fails.
func (b *Board) Load(path string) error {
	img, err := readImage(path)
	if err != nil {
		Logger().Warn("board load failed", "path", path, "err", err)
		return err
	}

	b.mu.Lock()
	b.canvas.ResizeCopy(img)
	b.mu.Unlock()
	Logger().Info("board loaded", "path", path)
	return nil
}

// Pixels returns a snapshot of the board for rendering.
func (b *Board) Pixels() image.Image {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canvas.Snapshot()
}
