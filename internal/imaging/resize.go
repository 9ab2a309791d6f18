package imaging

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Scale resamples src onto a fresh canvas of round(w*factor) x round(h*factor).
// A factor of 1 still copies onto a new RGBA buffer, which every later
// processing stage owns exclusively for the duration of the request.
func Scale(src image.Image, factor float64) *image.RGBA {
	bounds := src.Bounds()
	width := int(math.Round(float64(bounds.Dx()) * factor))
	height := int(math.Round(float64(bounds.Dy()) * factor))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)
	return dst
}
