package docx

import (
	"errors"
	"strings"
	"testing"
)

func TestSniffImageType(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0}, "image/png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0}, "image/jpeg"},
		{"gif", []byte("GIF89a\x00\x00"), "image/gif"},
		{"tiff", []byte("II*\x00\x00\x00"), "image/tiff"},
		{"bmp", []byte("BM\x00\x00\x00\x00"), "image/bmp"},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), ""},
		{"svg with prolog", []byte(`<?xml version="1.0"?><svg/>`), ""},
		{"plain text", []byte("not an image"), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SniffImageType(tc.data)
			if tc.want == "" {
				if !errors.Is(err, ErrUnsupportedImage) {
					t.Fatalf("expected ErrUnsupportedImage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestSniffImageType_NamesSVG(t *testing.T) {
	_, err := SniffImageType([]byte(`<SVG viewBox="0 0 1 1"></SVG>`))
	if err == nil || !strings.Contains(err.Error(), "image/svg+xml") {
		t.Fatalf("expected the error to name svg, got %v", err)
	}
}
