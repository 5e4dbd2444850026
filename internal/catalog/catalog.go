package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/brodkewitz/brphoto-metadata-tools/internal/imagefile"
)

// File is one catalogued entry under the search root.
type File struct {
	Path  string
	Stem  string
	Class imagefile.Class
}

// Catalog is the complete snapshot of recognized files grouped by stem.
// Every group is sorted lexicographically by path so downstream tie-breaks
// are reproducible regardless of traversal order.
type Catalog struct {
	Root    string
	Stems   map[string][]File
	Scanned int
	Indexed int
}

// Lookup returns the catalogued files for a stem, possibly none.
func (c *Catalog) Lookup(stem string) []File {
	return c.Stems[stem]
}

// Options bound and filter a scan.
type Options struct {
	// MaxItems aborts the scan once more than this many files have been
	// visited. Zero or negative means unbounded.
	MaxItems int
	// ExcludeDirs lists directory names pruned from the walk. Their
	// contents are neither catalogued nor counted.
	ExcludeDirs []string
	// IgnoreWritableImages drops jpg, jpeg, and heic files from the
	// catalog. Their visits still count toward MaxItems.
	IgnoreWritableImages bool
}

// Scan walks root and builds the catalog. Every file visit counts toward the
// ceiling whether or not the file is recognized; directories do not count.
// The walk fails with LimitExceededError as soon as the ceiling is crossed.
func Scan(root string, opts Options) (*Catalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("search root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("search root %q is not a directory", root)
	}

	excluded := make(map[string]struct{}, len(opts.ExcludeDirs))
	for _, name := range opts.ExcludeDirs {
		excluded[name] = struct{}{}
	}

	cat := &Catalog{
		Root:  root,
		Stems: make(map[string][]File),
	}

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("walk %s: %w", path, walkErr)
		}
		if entry.IsDir() {
			if path != root {
				if _, skip := excluded[entry.Name()]; skip {
					return fs.SkipDir
				}
			}
			return nil
		}

		cat.Scanned++
		if opts.MaxItems > 0 && cat.Scanned > opts.MaxItems {
			return &LimitExceededError{Limit: opts.MaxItems}
		}

		class := imagefile.Classify(entry.Name())
		if class == imagefile.ClassUnrecognized {
			return nil
		}
		if opts.IgnoreWritableImages && class == imagefile.ClassWritable {
			return nil
		}

		stem := imagefile.Stem(entry.Name())
		cat.Stems[stem] = append(cat.Stems[stem], File{
			Path:  path,
			Stem:  stem,
			Class: class,
		})
		cat.Indexed++
		return nil
	})
	if err != nil {
		return nil, err
	}

	for stem := range cat.Stems {
		group := cat.Stems[stem]
		sort.Slice(group, func(i, j int) bool { return group[i].Path < group[j].Path })
	}

	return cat, nil
}
