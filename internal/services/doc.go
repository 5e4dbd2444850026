// Package services defines shared utilities consumed by the workflow runner
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers for logging correlation.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (configuration vs validation vs external tool) uniform
//     across the pipeline.
//
// Use these helpers when wiring new stages so operational behaviour stays
// consistent end to end.
package services
