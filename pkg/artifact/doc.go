// Package artifact defines the in-memory artifact tree produced by builders and
// consumed by the XML serializer, together with the catalogue of artifact kinds
// (configuration key, output directory, root element, summary file name).
//
// Trees are built once per configuration record and never mutated after the
// builder returns them. Cross-references between artifacts are plain strings.
package artifact
