package imagefile

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Class identifies how the pipeline may use a file. It is assigned once when
// the catalog is built and never re-derived downstream.
type Class string

const (
	// ClassRaw marks camera-native files. Raw files are never written to.
	ClassRaw Class = "raw"
	// ClassWritable marks image files whose metadata can be written in place.
	ClassWritable Class = "writable-image"
	// ClassSidecar marks XMP sidecar files.
	ClassSidecar Class = "sidecar"
	// ClassUnrecognized marks everything else. Unrecognized files are
	// counted during the scan but never catalogued.
	ClassUnrecognized Class = "unrecognized"
)

var classByExtension = map[string]Class{
	".xmp":  ClassSidecar,
	".arw":  ClassRaw,
	".cr2":  ClassRaw,
	".dng":  ClassRaw,
	".raf":  ClassRaw,
	".nef":  ClassRaw,
	".jpg":  ClassWritable,
	".jpeg": ClassWritable,
	".heic": ClassWritable,
	".heif": ClassWritable,
}

// Classify maps a filename to its Class. Extension comparison is
// case-insensitive; IMG_001.ARW and IMG_001.arw classify identically.
// A name that is all extension, such as a dotfile, has no class.
func Classify(name string) Class {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == base {
		return ClassUnrecognized
	}
	if class, ok := classByExtension[strings.ToLower(ext)]; ok {
		return class
	}
	return ClassUnrecognized
}

// Stem reduces a filename or path to its final component without the
// extension, normalized to NFC. Names that are all extension, such as
// dotfiles, keep their full name. Stems compare case-sensitively.
func Stem(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return norm.NFC.String(base)
}

// SidecarName returns the filename of the sidecar for a stem. Sidecars are
// always created with a lowercase extension regardless of how the anchor
// file spells its own.
func SidecarName(stem string) string {
	return stem + ".xmp"
}
