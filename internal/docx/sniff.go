package docx

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnsupportedImage marks an image payload the archive cannot embed as a
// picture. Callers treat it like an unreachable image and degrade.
var ErrUnsupportedImage = errors.New("unsupported image format")

// SniffImageType inspects an image payload and returns its media type when
// it is a raster format word processors render (PNG, JPEG, GIF, TIFF, BMP).
// Vector formats such as SVG are not rasterized and are rejected, as is any
// payload that is not an image at all.
func SniffImageType(data []byte) (string, error) {
	ct := http.DetectContentType(data)
	switch ct {
	case "image/png", "image/jpeg", "image/gif", "image/tiff", "image/bmp":
		return ct, nil
	}
	if looksLikeSVG(data) {
		return "", fmt.Errorf("%w: image/svg+xml", ErrUnsupportedImage)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
}

// looksLikeSVG reports whether the payload head contains an svg root
// element. The content sniffer classifies SVG as generic XML or plain text,
// so the common vector-logo case is named explicitly.
func looksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = bytes.ToLower(head)
	return bytes.Contains(head, []byte("<svg"))
}
