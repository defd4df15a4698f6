// Package imop implements the per-pixel composition operations used to lay
// a brush stamp onto the board: a convex blend toward the brush color for
// drawing and an alpha decay for erasing.
//
// Both operations touch exactly one pixel and leave any bounds policy to the
// Surface they operate on.
package imop

import (
	"image/color"
	"math"

	"github.com/esimov/inkboard/utils"
)

// Surface is a bounded pixel store.
type Surface interface {
	Get(x, y int) color.NRGBA
	Set(x, y int, c color.NRGBA)
}

// Draw linearly interpolates the pixel at (x, y) toward col by alpha.
// The blend mode, if not nil, decides the color being interpolated toward.
func Draw(s Surface, x, y int, alpha float64, col color.NRGBA, blend *Blend) {
	alpha = utils.Clamp(alpha, 0, 1)
	if alpha == 0 {
		return
	}
	dst := s.Get(x, y)
	target := blend.Apply(dst, col)

	s.Set(x, y, color.NRGBA{
		R: lerp(dst.R, target.R, alpha),
		G: lerp(dst.G, target.G, alpha),
		B: lerp(dst.B, target.B, alpha),
		A: lerp(dst.A, target.A, alpha),
	})
}

// Erase decreases the alpha of the pixel at (x, y) by alpha, flooring at zero.
// The color channels are left untouched.
func Erase(s Surface, x, y int, alpha float64) {
	alpha = utils.Clamp(alpha, 0, 1)
	dec := toUint8(alpha * 255)
	if dec == 0 {
		return
	}
	dst := s.Get(x, y)
	if dst.A <= dec {
		dst.A = 0
	} else {
		dst.A -= dec
	}
	s.Set(x, y, dst)
}

// lerp rounds a + (b-a)*t to the nearest channel value.
// Since a and b are integers the result always lies between them.
func lerp(a, b uint8, t float64) uint8 {
	fa := float64(a)
	return toUint8(fa + (float64(b)-fa)*t)
}

func toUint8(v float64) uint8 {
	return uint8(utils.Clamp(math.Round(v), 0, 255))
}
