package manifest

import (
	"fmt"
	"strings"
)

// MalformedRowError reports a line that does not match the two-column shape.
type MalformedRowError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Occurrence records one input line claiming a stem.
type Occurrence struct {
	Line int
	Name string
}

// DuplicateStem lists every line that produced the same stem.
type DuplicateStem struct {
	Stem        string
	Occurrences []Occurrence
}

// DuplicateStemError reports stems that appear more than once in the input.
// All collisions are collected before parsing fails so the caller can fix the
// input in one pass.
type DuplicateStemError struct {
	Stems []DuplicateStem
}

func (e *DuplicateStemError) Error() string {
	parts := make([]string, 0, len(e.Stems))
	for _, dup := range e.Stems {
		lines := make([]string, 0, len(dup.Occurrences))
		for _, occ := range dup.Occurrences {
			lines = append(lines, fmt.Sprintf("%d", occ.Line))
		}
		parts = append(parts, fmt.Sprintf("%s (lines %s)", dup.Stem, strings.Join(lines, ", ")))
	}
	return fmt.Sprintf("duplicate stems in input: %s", strings.Join(parts, "; "))
}
