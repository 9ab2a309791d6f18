package imaging

import (
	"image"
	"image/color"

	apperrors "media-gate/pkg/errors"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	badgeSize        = 400
	badgePadding     = 80
	badgeMinFontSize = 12
	badgeMaxFontSize = 200
	badgeLineSpacing = 1.2
)

// TextBadge renders a standalone circular badge: white disc, centered black
// text at the largest size that fits with word wrapping, transparent
// outside the circle. Encoded as PNG.
func TextBadge(text string) ([]byte, error) {
	radius := badgeSize / 2
	maxTextWidth := (radius - badgePadding) * 2
	maxTextHeight := (radius - badgePadding) * 2

	fontSize, lines, err := fitBadgeText(text, maxTextWidth, maxTextHeight)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, badgeSize, badgeSize))
	fillCircle(img, radius, color.RGBA{0xff, 0xff, 0xff, 0xff})

	face, err := labelFace(fontSize)
	if err != nil {
		return nil, apperrors.Render(errBadgeFontUnavailable, err)
	}
	defer face.Close()

	lineHeight := int(float64(fontSize) * badgeLineSpacing)
	totalHeight := len(lines) * lineHeight
	startY := radius - totalHeight/2 + lineHeight/2

	for i, line := range lines {
		drawBadgeLine(img, face, line, radius, startY+i*lineHeight)
	}

	clearOutsideCircle(img, radius)

	return EncodePNG(img)
}

// fitBadgeText binary-searches the largest font size whose wrapped lines
// fit both dimensions.
func fitBadgeText(text string, maxWidth, maxHeight int) (int, []string, error) {
	lo, hi := badgeMinFontSize, badgeMaxFontSize

	for hi-lo > 1 {
		size := (lo + hi) / 2

		face, err := labelFace(size)
		if err != nil {
			return 0, nil, apperrors.Render(errBadgeFontUnavailable, err)
		}

		lines := wrapText(face, text, maxWidth)
		fitsWidth := true
		for _, line := range lines {
			if font.MeasureString(face, line).Ceil() > maxWidth {
				fitsWidth = false
				break
			}
		}
		fitsHeight := len(lines)*int(float64(size)*badgeLineSpacing) <= maxHeight
		face.Close()

		if fitsWidth && fitsHeight {
			lo = size
		} else {
			hi = size
		}
	}

	face, err := labelFace(lo)
	if err != nil {
		return 0, nil, apperrors.Render(errBadgeFontUnavailable, err)
	}
	lines := wrapText(face, text, maxWidth)
	face.Close()

	return lo, lines, nil
}

func drawBadgeLine(dst *image.RGBA, face font.Face, line string, centerX, centerY int) {
	width := font.MeasureString(face, line).Ceil()
	metrics := face.Metrics()
	baseline := centerY + (metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2

	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{A: 0xff}),
		Face: face,
		Dot:  fixed.P(centerX-width/2, baseline),
	}
	drawer.DrawString(line)
}

func fillCircle(img *image.RGBA, radius int, c color.RGBA) {
	for y := 0; y < badgeSize; y++ {
		for x := 0; x < badgeSize; x++ {
			dx := x - radius
			dy := y - radius
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// clearOutsideCircle zeroes alpha beyond the disc so any text overdraw
// stays clipped to the badge shape.
func clearOutsideCircle(img *image.RGBA, radius int) {
	for y := 0; y < badgeSize; y++ {
		for x := 0; x < badgeSize; x++ {
			dx := x - radius
			dy := y - radius
			if dx*dx+dy*dy > radius*radius {
				i := y*img.Stride + x*4
				img.Pix[i] = 0
				img.Pix[i+1] = 0
				img.Pix[i+2] = 0
				img.Pix[i+3] = 0
			}
		}
	}
}

const errBadgeFontUnavailable = "badge font unavailable"
