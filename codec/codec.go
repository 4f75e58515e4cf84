// Package codec reads and writes the image formats handled by the pipeline.
// Readers take a byte slice plus a MIME hint and return tightly packed 8-bit
// component buffers; the actual decoder is always chosen by header sniffing
// because source files frequently carry wrong extensions and MIME types.
package codec

import (
	"path/filepath"
	"strings"
)

// MIME types recognized by the pipeline.
const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeGIF  = "image/gif"
)

// HasPNGHeader reports whether data starts with the PNG signature.
func HasPNGHeader(data []byte) bool {
	const sig = "\x89PNG\r\n\x1a\n"
	return len(data) >= len(sig) && string(data[:len(sig)]) == sig
}

// HasJPEGHeader reports whether data starts with a JPEG SOI marker.
func HasJPEGHeader(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
}

// HasGIFHeader reports whether data starts with a GIF87a/GIF89a signature.
func HasGIFHeader(data []byte) bool {
	if len(data) < 6 {
		return false
	}
	return data[0] == 'G' && data[1] == 'I' && data[2] == 'F' &&
		data[3] == '8' && (data[4] == '7' || data[4] == '9') && data[5] == 'a'
}

// SniffMime returns the MIME type detected from the header, or "" when the
// header matches none of the primary formats.
func SniffMime(data []byte) string {
	switch {
	case HasPNGHeader(data):
		return MimePNG
	case HasJPEGHeader(data):
		return MimeJPEG
	case HasGIFHeader(data):
		return MimeGIF
	}
	return ""
}

// ExtensionForMime returns the canonical extension for a recognized MIME
// type, or "" otherwise.
func ExtensionForMime(mime string) string {
	switch mime {
	case MimePNG:
		return ".png"
	case MimeJPEG:
		return ".jpg"
	case MimeGIF:
		return ".gif"
	}
	return ""
}

// MimeForPath returns the MIME type implied by the path's extension, or ""
// when the extension is not a recognized image type.
func MimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return MimePNG
	case ".jpg", ".jpeg":
		return MimeJPEG
	case ".gif":
		return MimeGIF
	}
	return ""
}

// SetExtension replaces any recognized image extension on path with the
// canonical extension for mime.  This both allows the destination type to
// change and canonicalizes the extension (some apps recognize ".jpg" but not
// ".jpeg").  Unrecognized mimes leave the path untouched.
func SetExtension(path, mime string) string {
	ext := ExtensionForMime(mime)
	if ext == "" {
		return path
	}
	if MimeForPath(path) != "" {
		path = path[:len(path)-len(filepath.Ext(path))]
	}
	return path + ext
}
