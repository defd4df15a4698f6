package imop

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/esimov/inkboard/utils"
)

// Blend modes applied to the brush color before it is mixed into the backdrop.
const (
	Normal   = "normal"
	Darken   = "darken"
	Lighten  = "lighten"
	Multiply = "multiply"
	Screen   = "screen"
	Overlay  = "overlay"
)

var blendModes = []string{Normal, Darken, Lighten, Multiply, Screen, Overlay}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend using the normal mode.
func NewBlend() *Blend {
	return &Blend{OpType: Normal}
}

// Set activate one of the supported blend mode.
func (o *Blend) Set(opType string) error {
	if !slices.Contains(blendModes, opType) {
		return fmt.Errorf("unsupported blend mode: %q", opType)
	}
	o.OpType = opType
	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	if o == nil || len(o.OpType) == 0 {
		return Normal
	}
	return o.OpType
}

// Apply returns the color the source should converge to when laid over backdrop.
// The alpha channel is always taken from the source.
func (o *Blend) Apply(backdrop, source color.NRGBA) color.NRGBA {
	mode := o.Get()
	if mode == Normal {
		return source
	}

	fn := func(b, s uint8) uint8 {
		bn, sn := float64(b)/255, float64(s)/255
		var rn float64
		switch mode {
		case Darken:
			rn = utils.Min(bn, sn)
		case Lighten:
			rn = utils.Max(bn, sn)
		case Multiply:
			rn = bn * sn
		case Screen:
			rn = 1 - (1-bn)*(1-sn)
		case Overlay:
			if bn <= 0.5 {
				rn = 2 * bn * sn
			} else {
				rn = 1 - 2*(1-bn)*(1-sn)
			}
		default:
			rn = sn
		}
		return toUint8(rn * 255)
	}

	// A transparent backdrop has no color to blend against.
	if backdrop.A == 0 {
		return source
	}
	return color.NRGBA{
		R: fn(backdrop.R, source.R),
		G: fn(backdrop.G, source.G),
		B: fn(backdrop.B, source.B),
		A: source.A,
	}
}
