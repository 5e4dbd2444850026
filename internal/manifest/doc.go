// Package manifest parses the tab-delimited description input into ordered
// records keyed by filename stem. Parsing is strict: rows must have exactly
// two columns and stems must be unique across the whole input. Stems and
// descriptions are normalized to NFC so records match catalog entries
// regardless of how the source text was composed.
package manifest
