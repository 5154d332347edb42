// Package summary renders the per-kind summary documents that accompany the
// generated XML: markdown tables, plain-text listings and a Mermaid flowchart
// for workflows. Templates are pongo2 files embedded under templates/.
package summary
