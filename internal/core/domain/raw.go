package domain

import (
	"path/filepath"
	"strings"
)

// RawDocument represents the opaque bytes of an uploaded file.
// It is the input to text extraction.
type RawDocument struct {
	// Filename is the uploaded file name.
	Filename string

	// Content is the raw bytes.
	Content []byte
}

// TypeMarker returns the lower-cased file extension without the dot.
// It selects the normaliser used for extraction.
func (r *RawDocument) TypeMarker() string {
	return FileTypeMarker(r.Filename)
}

// FileTypeMarker returns the lower-cased extension of filename without the dot.
func FileTypeMarker(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}
