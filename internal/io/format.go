// Output formats
package io

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is one of the closed set of output encodings.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatPDF
	FormatTIFF

	formatCount
)

// JPEGQuality is used for JPEG output and for images embedded in PDFs.
const JPEGQuality = 95

// Formats lists every output format in presentation order.
func Formats() []Format {
	out := make([]Format, 0, formatCount)
	for f := FormatPNG; f < formatCount; f++ {
		out = append(out, f)
	}
	return out
}

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "PNG"
	case FormatJPEG:
		return "JPG"
	case FormatPDF:
		return "PDF"
	case FormatTIFF:
		return "TIFF"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Ext is the file extension including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatJPEG:
		return ".jpg"
	case FormatPDF:
		return ".pdf"
	case FormatTIFF:
		return ".tiff"
	default:
		return ""
	}
}

// MIME is the media type of the encoded bytes.
func (f Format) MIME() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat accepts names and extensions, with or without the dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ParseFormats parses a list, dropping duplicates while keeping order.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool)
	var out []Format
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}
