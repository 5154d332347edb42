// Package orchestrator wires the config loader → builder → XML serializer →
// emitter pipeline for one artifact kind at a time, with optional summary
// documents, behind a single dependency-injection friendly entry point.
package orchestrator
