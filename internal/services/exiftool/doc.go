// Package exiftool wraps the exiftool command line for reading and writing
// image description metadata. All invocations run through an Executor so
// tests can script responses without the binary installed.
package exiftool
