package imaging

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	apperrors "media-gate/pkg/errors"
)

// Format is one of the supported raster formats, identified by magic bytes.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatWebP
)

const (
	// Bodies under this size cannot carry any supported format's header.
	minImageBytes = 12

	htmlScanWindow = 100
	hexPreviewLen  = 16
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "PNG"
	case FormatJPEG:
		return "JPEG"
	case FormatGIF:
		return "GIF"
	case FormatWebP:
		return "WebP"
	default:
		return "unknown"
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatGIF:
		return "image/gif"
	case FormatWebP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// Sniff classifies a fetched body by magic bytes. Bodies under 12 bytes are
// rejected before any sniffing. When no supported format matches, the error
// distinguishes "upstream returned a document" from a generic unsupported
// payload with a hex preview; both diagnostics are for server logs only and
// are never exposed verbatim to the caller.
func Sniff(data []byte) (Format, error) {
	if len(data) < minImageBytes {
		return FormatUnknown, apperrors.Upstream(fmt.Sprintf(errBodyTooSmallFmt, len(data)), nil)
	}

	switch {
	case data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47:
		return FormatPNG, nil
	case data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return FormatJPEG, nil
	case data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46:
		return FormatGIF, nil
	case bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return FormatWebP, nil
	}

	window := data
	if len(window) > htmlScanWindow {
		window = window[:htmlScanWindow]
	}
	text := strings.ToLower(string(window))
	if strings.Contains(text, "<html") || strings.Contains(text, "<!doctype") {
		return FormatUnknown, apperrors.Upstream(errReceivedDocument, nil)
	}

	preview := data
	if len(preview) > hexPreviewLen {
		preview = preview[:hexPreviewLen]
	}
	return FormatUnknown, apperrors.Upstream(fmt.Sprintf(errUnsupportedFormatFmt, hex.EncodeToString(preview)), nil)
}

const (
	errBodyTooSmallFmt      = "response too small to be a valid image: %d bytes"
	errReceivedDocument     = "upstream returned a document, not an image"
	errUnsupportedFormatFmt = "unsupported image type, first bytes (hex): %s"
)
