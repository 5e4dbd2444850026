// Package catalog builds the filesystem snapshot the resolver works from.
// A scan walks the search root once, classifies every recognized file, and
// groups entries by stem. Resolution never touches the filesystem again; it
// sees only this snapshot.
package catalog
