// Package cli implements the provider-generator commands: generate, check,
// inspect and manifest.
package cli
