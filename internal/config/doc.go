// Package config loads, normalizes, and validates descwrite configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: the search root, scan bounds and exclusions, exiftool
// invocation settings, write policy, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths, canonical log formats, and clear validation
// errors.
package config
