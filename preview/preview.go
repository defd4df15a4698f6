// Package preview shows a board in a Gio window. The window is a read-only
// view: it repaints the board pixels and never feeds input back.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const (
	maxScreenX = 1366
	maxScreenY = 768
)

// DefaultRefresh is the repaint interval of a window.
const DefaultRefresh = 100 * time.Millisecond

var backdropColor = color.NRGBA{R: 0xd8, G: 0xd8, B: 0xd8, A: 0xff}

// Source provides the pixels to display. *inkboard.Board satisfies it.
type Source interface {
	Pixels() image.Image
}

// Window displays a Source until it is closed or Esc is pressed.
type Window struct {
	Title   string
	Refresh time.Duration

	src Source
	th  *material.Theme
}

// New creates a preview of src.
func New(src Source) *Window {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))

	return &Window{
		Title:   "Inkboard",
		Refresh: DefaultRefresh,
		src:     src,
		th:      th,
	}
}

// Run opens the window and blocks until it is destroyed.
// It must not be called on the main goroutine; the caller runs app.Main there.
func (p *Window) Run() error {
	img := p.src.Pixels()
	width, height := windowSize(img.Bounds().Dx(), img.Bounds().Dy())

	w := new(app.Window)
	w.Option(
		app.Title(p.Title),
		app.Size(unit.Dp(width), unit.Dp(height)),
	)

	done := make(chan struct{})
	defer close(done)
	if p.Refresh > 0 {
		go func() {
			ticker := time.NewTicker(p.Refresh)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					w.Invalidate()
				}
			}
		}()
	}

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			for {
				ev, ok := gtx.Event(key.Filter{Name: key.NameEscape})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					w.Perform(system.ActionClose)
				}
			}
			p.layout(gtx, p.src.Pixels())
			e.Frame(gtx.Ops)
		}
	}
}

func (p *Window) layout(gtx C, img image.Image) D {
	paint.Fill(gtx.Ops, backdropColor)

	b := img.Bounds()
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx C) D {
			return widget.Image{
				Src:      paint.NewImageOp(img),
				Fit:      widget.Contain,
				Position: layout.Center,
				Scale:    1 / gtx.Metric.PxPerDp,
			}.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx C) D {
				return material.Caption(p.th, fmt.Sprintf("%d × %d", b.Dx(), b.Dy())).Layout(gtx)
			})
		}),
	)
}

// windowSize fits the board into the screen limits, keeping its aspect ratio.
func windowSize(w, h int) (float32, float32) {
	fw, fh := float64(w), float64(h)
	if fw > maxScreenX || fh > maxScreenY {
		r := math.Min(maxScreenX/fw, maxScreenY/fh)
		fw, fh = fw*r, fh*r
	}
	return float32(math.Round(fw)), float32(math.Round(fh))
}
