// Package plan zips parsed input records with their resolution outcomes
// into the execution plan the write phase consumes. Building the plan is a
// pure computation over the catalog snapshot; dry runs and real runs share
// it unchanged.
package plan
