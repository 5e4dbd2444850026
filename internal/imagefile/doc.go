// Package imagefile defines the closed file classification used across the
// pipeline and the stem derivation both the input parser and the catalog
// rely on. Keeping both here guarantees an input row and a file on disk
// reduce to the same key.
package imagefile
