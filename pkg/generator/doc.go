// Package generator turns configuration records into artifact trees, one
// Builder per artifact kind, and exposes a Registry for lookup by kind.
package generator
