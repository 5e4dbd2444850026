// Package resolve decides, for one stem at a time, which file receives a
// description. The policy never selects a raw file: an existing sidecar wins,
// then a single writable image, then a fresh sidecar derived from the raw
// file's directory. Anything the policy cannot decide deterministically is
// reported as ambiguous instead of guessed.
package resolve
