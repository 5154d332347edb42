// Package packager bundles a generated output tree into a zip archive with a
// manifest, a module descriptor, the kind directories, their summaries and an
// installation guide.
package packager
