package imaging

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	apperrors "media-gate/pkg/errors"
)

// WebPDecoder decodes a WebP still into pixels. The capability is optional;
// nil means WebP bodies can pass through untouched but never be processed.
type WebPDecoder func(r io.Reader) (image.Image, error)

// Decode turns a sniffed body into pixels.
func Decode(data []byte, format Format, webp WebPDecoder) (image.Image, error) {
	r := bytes.NewReader(data)

	var (
		img image.Image
		err error
	)
	switch format {
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	case FormatGIF:
		img, err = gif.Decode(r)
	case FormatWebP:
		if webp == nil {
			return nil, apperrors.Render(errWebPUnavailable, nil)
		}
		img, err = webp(r)
	default:
		return nil, apperrors.Render(errUndecodableFormat, nil)
	}

	if err != nil {
		return nil, apperrors.Render(errDecodeFailed, err)
	}

	return img, nil
}

// EncodePNG re-encodes pixels losslessly. Obfuscated output is always PNG
// so compression artifacts cannot reintroduce leaked structure.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apperrors.Render(errEncodeFailed, err)
	}
	return buf.Bytes(), nil
}

const (
	errWebPUnavailable   = "webp processing capability unavailable"
	errUndecodableFormat = "no decoder for format"
	errDecodeFailed      = "failed to decode image"
	errEncodeFailed      = "failed to encode image"
)
