// Package workflow drives one descwrite run end to end: parse the input,
// scan the search root, build the plan, and hand matched entries to the
// writer. A lock file keeps runs from overlapping. Dry runs execute every
// stage except the writer.
package workflow
