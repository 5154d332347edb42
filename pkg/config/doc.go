// Package config exposes the configuration contracts: ordered records parsed
// from YAML, documents with provenance, the Loader interface and its options,
// and the embedded default configuration for every artifact kind.
package config
