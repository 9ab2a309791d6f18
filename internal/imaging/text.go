package imaging

import (
	"image"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	labelFontOnce sync.Once
	labelFont     *opentype.Font
	labelFontErr  error
)

// labelFace builds a bold face at the given pixel size. The underlying font
// is parsed once per process.
func labelFace(size int) (font.Face, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = opentype.Parse(gobold.TTF)
	})
	if labelFontErr != nil {
		return nil, labelFontErr
	}

	return opentype.NewFace(labelFont, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// drawTextLine draws one line of white text with its ink box centered on
// (centerX, centerY).
func drawTextLine(dst *image.RGBA, face font.Face, text string, centerX, centerY int) {
	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	baseline := centerY + (metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2

	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(white),
		Face: face,
		Dot:  fixed.P(centerX-width/2, baseline),
	}
	drawer.DrawString(text)
}

// wrapText splits text into lines no wider than maxWidth, breaking on
// spaces. A single word wider than maxWidth gets its own line.
func wrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	var lines []string
	var current string

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if font.MeasureString(face, candidate).Ceil() > maxWidth && current != "" {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}

	if current != "" {
		lines = append(lines, current)
	}

	return lines
}
