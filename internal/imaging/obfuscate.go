package imaging

import (
	"image"
	"image/color"
	"math/rand"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
)

const (
	minBlurRadius = 60
	maxBlurRadius = 120
	blurPasses    = 3

	overlayRetain = 0.15 // 85% opacity black overlay
	plateRetain   = 0.4  // 60% opacity label plate

	defaultLabel = "Login Required"

	markMinSize = 40
	markMaxSize = 180
)

// Renderer destroys visual structure in place: three passes of a
// stride-subsampled separable box blur, block-color averaging, a dark
// overlay, a centered gating label, and an optional brand mark in a random
// corner. Everything except the corner choice is a pure function of the
// input pixels and dimensions.
type Renderer struct {
	// Label is the centered gating message. Empty means the default.
	Label string
	// MarkProvider returns the brand mark image, or nil when unavailable.
	// Mark failures degrade to label-only output, never a failed request.
	MarkProvider func() image.Image
	// CornerSource picks the mark corner (0 top-left, 1 top-right,
	// 2 bottom-left, 3 bottom-right). Injectable for deterministic tests.
	CornerSource func() int
}

func NewRenderer(markProvider func() image.Image) *Renderer {
	return &Renderer{
		Label:        defaultLabel,
		MarkProvider: markProvider,
		CornerSource: func() int { return rand.Intn(4) },
	}
}

// Apply obfuscates img in place with the given blur radius, clamped to
// [60,120]. The stride subsampling trades blur fidelity for speed; the goal
// is irreversible structure destruction, not visual quality.
func (r *Renderer) Apply(img *image.RGBA, radius int) {
	if radius < minBlurRadius {
		radius = minBlurRadius
	}
	if radius > maxBlurRadius {
		radius = maxBlurRadius
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	for pass := 0; pass < blurPasses; pass++ {
		sweepHorizontal(img.Pix, img.Stride, width, height, radius)
		sweepVertical(img.Pix, img.Stride, width, height, radius)
	}

	averageBlocks(img.Pix, img.Stride, width, height, radius)
	darken(img.Pix, img.Stride, width, height)

	r.drawLabel(img)
	r.drawMark(img)
}

func sweepHorizontal(pix []byte, stride, width, height, radius int) {
	step := max(1, radius/20)
	src := make([]byte, len(pix))
	copy(src, pix)

	for y := 0; y < height; y++ {
		row := y * stride
		for x := 0; x < width; x++ {
			var sumR, sumG, sumB, count int
			startX := max(0, x-radius)
			endX := min(width-1, x+radius)
			for nx := startX; nx <= endX; nx += step {
				i := row + nx*4
				sumR += int(src[i])
				sumG += int(src[i+1])
				sumB += int(src[i+2])
				count++
			}
			i := row + x*4
			pix[i] = byte(sumR / count)
			pix[i+1] = byte(sumG / count)
			pix[i+2] = byte(sumB / count)
		}
	}
}

func sweepVertical(pix []byte, stride, width, height, radius int) {
	step := max(1, radius/20)
	src := make([]byte, len(pix))
	copy(src, pix)

	for x := 0; x < width; x++ {
		col := x * 4
		for y := 0; y < height; y++ {
			var sumR, sumG, sumB, count int
			startY := max(0, y-radius)
			endY := min(height-1, y+radius)
			for ny := startY; ny <= endY; ny += step {
				i := ny*stride + col
				sumR += int(src[i])
				sumG += int(src[i+1])
				sumB += int(src[i+2])
				count++
			}
			i := y*stride + col
			pix[i] = byte(sumR / count)
			pix[i+1] = byte(sumG / count)
			pix[i+2] = byte(sumB / count)
		}
	}
}

// averageBlocks flattens each square block to its mean color, removing any
// residual high-frequency pattern the separable passes leave behind at
// block-aliasing frequencies.
func averageBlocks(pix []byte, stride, width, height, radius int) {
	block := max(8, radius/4)

	for by := 0; by < height; by += block {
		for bx := 0; bx < width; bx += block {
			var sumR, sumG, sumB, count int
			endY := min(by+block, height)
			endX := min(bx+block, width)

			for y := by; y < endY; y++ {
				for x := bx; x < endX; x++ {
					i := y*stride + x*4
					sumR += int(pix[i])
					sumG += int(pix[i+1])
					sumB += int(pix[i+2])
					count++
				}
			}

			if count == 0 {
				continue
			}
			avgR := byte(sumR / count)
			avgG := byte(sumG / count)
			avgB := byte(sumB / count)

			for y := by; y < endY; y++ {
				for x := bx; x < endX; x++ {
					i := y*stride + x*4
					pix[i] = avgR
					pix[i+1] = avgG
					pix[i+2] = avgB
				}
			}
		}
	}
}

func darken(pix []byte, stride, width, height int) {
	for y := 0; y < height; y++ {
		row := y * stride
		for x := 0; x < width; x++ {
			i := row + x*4
			pix[i] = byte(float64(pix[i]) * overlayRetain)
			pix[i+1] = byte(float64(pix[i+1]) * overlayRetain)
			pix[i+2] = byte(float64(pix[i+2]) * overlayRetain)
		}
	}
}

// labelFontSize scales the gating message with the image: 5% of the smaller
// dimension for small images, 4% for medium, 3% for large, clamped [20,72].
func labelFontSize(width, height int) int {
	minDim := min(width, height)

	var base float64
	switch {
	case minDim < 400:
		base = float64(minDim) * 0.05
	case minDim < 1200:
		base = float64(minDim) * 0.04
	default:
		base = float64(minDim) * 0.03
	}

	return max(20, min(int(base), 72))
}

func (r *Renderer) drawLabel(img *image.RGBA) {
	face, err := labelFace(labelFontSize(img.Bounds().Dx(), img.Bounds().Dy()))
	if err != nil {
		// Degrade to mark-only output rather than failing the render.
		return
	}
	defer face.Close()

	label := r.Label
	if label == "" {
		label = defaultLabel
	}

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	textWidth := font.MeasureString(face, label).Ceil()
	metrics := face.Metrics()
	textHeight := metrics.Ascent.Ceil() + metrics.Descent.Ceil()

	const platePadding = 15
	plate := image.Rect(
		width/2-textWidth/2-platePadding,
		height/2-textHeight/2-platePadding,
		width/2+textWidth/2+platePadding,
		height/2+textHeight/2+platePadding,
	).Intersect(img.Bounds())

	for y := plate.Min.Y; y < plate.Max.Y; y++ {
		for x := plate.Min.X; x < plate.Max.X; x++ {
			i := y*img.Stride + x*4
			img.Pix[i] = byte(float64(img.Pix[i]) * plateRetain)
			img.Pix[i+1] = byte(float64(img.Pix[i+1]) * plateRetain)
			img.Pix[i+2] = byte(float64(img.Pix[i+2]) * plateRetain)
		}
	}

	drawTextLine(img, face, label, width/2, height/2)
}

func (r *Renderer) drawMark(img *image.RGBA) {
	if r.MarkProvider == nil {
		return
	}
	mark := r.MarkProvider()
	if mark == nil {
		return
	}

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	minDim := min(width, height)
	aspect := float64(width) / float64(height)

	var base float64
	switch {
	case aspect > 1.5:
		base = float64(height) * 0.12
	case aspect < 0.67:
		base = float64(width) * 0.12
	default:
		base = float64(minDim) * 0.12
	}
	size := max(markMinSize, min(int(base), markMaxSize))
	padding := max(15, min(size*3/10, minDim/20))

	markBounds := mark.Bounds()
	drawW, drawH := size, size
	if markBounds.Dx() > markBounds.Dy() {
		drawH = size * markBounds.Dy() / markBounds.Dx()
	} else {
		drawW = size * markBounds.Dx() / markBounds.Dy()
	}
	if drawW < 1 || drawH < 1 {
		return
	}

	var originX, originY int
	switch r.corner() {
	case 1: // top-right
		originX, originY = width-padding-size, padding
	case 2: // bottom-left
		originX, originY = padding, height-padding-size
	case 3: // bottom-right
		originX, originY = width-padding-size, height-padding-size
	default: // top-left
		originX, originY = padding, padding
	}

	target := image.Rect(
		originX+(size-drawW)/2,
		originY+(size-drawH)/2,
		originX+(size-drawW)/2+drawW,
		originY+(size-drawH)/2+drawH,
	)

	xdraw.ApproxBiLinear.Scale(img, target, mark, markBounds, xdraw.Over, nil)
}

func (r *Renderer) corner() int {
	if r.CornerSource == nil {
		return rand.Intn(4)
	}
	return r.CornerSource() & 3
}

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
