package track

import (
	"path/filepath"
	"strings"
)

// Format identifies the container a track is stored in.
type Format int

const (
	// FormatUnknown is any file we do not know how to read.
	FormatUnknown Format = iota
	// FormatVGM is an uncompressed VGM stream.
	FormatVGM
	// FormatGzippedVGM is a gzip-wrapped VGM stream (.vgz).
	FormatGzippedVGM
	// FormatSPC is an SNES SPC700 snapshot.
	FormatSPC
	// FormatArchive is a RAR-family archive of SPC files (.rsn).
	FormatArchive
)

// extensionFormats maps lower-case extensions to formats.
var extensionFormats = map[string]Format{
	".vgm": FormatVGM,
	".vgz": FormatGzippedVGM,
	".zip": FormatGzippedVGM,
	".spc": FormatSPC,
	".rsn": FormatArchive,
	".rar": FormatArchive,
}

// DetectFormat maps a path's extension to a Format, ignoring case.
// No file content is inspected and unknown extensions yield FormatUnknown.
func DetectFormat(path string) Format {
	if f, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return FormatUnknown
}

// Extensions returns every extension DetectFormat recognises.
func Extensions() []string {
	exts := make([]string, 0, len(extensionFormats))
	for ext := range extensionFormats {
		exts = append(exts, ext)
	}
	return exts
}

// String returns a human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatVGM:
		return "VGM"
	case FormatGzippedVGM:
		return "VGZ"
	case FormatSPC:
		return "SPC"
	case FormatArchive:
		return "RSN"
	default:
		return "Unknown"
	}
}
