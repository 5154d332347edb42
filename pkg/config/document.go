package config

import "path/filepath"

// Source identifies where a configuration document originated.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the places a document can be read from.
type SourceKind string

const (
	SourceKindFile     SourceKind = "file"
	SourceKindEmbedded SourceKind = "embedded"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type embeddedSource struct {
	name string
}

func (s embeddedSource) Location() string { return "embedded:" + s.name }
func (s embeddedSource) Kind() SourceKind { return SourceKindEmbedded }

// SourceFromDefaults identifies a file inside the embedded default set.
func SourceFromDefaults(name string) Source {
	return embeddedSource{name: name}
}

// Origin records which step of the fallback chain produced a document.
type Origin string

const (
	OriginRequested   Origin = "requested"
	OriginAlternative Origin = "alternative"
	OriginDefault     Origin = "default"
)

// Document is a parsed configuration plus its provenance.
type Document struct {
	Source Source
	Origin Origin
	Root   Record
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.Source == nil {
		return ""
	}
	return d.Source.Location()
}

// Entries returns the list stored under a top-level key, along with whether
// the key was present at all.
func (d Document) Entries(key string) ([]any, bool) {
	if !d.Root.Has(key) {
		return nil, false
	}
	return d.Root.List(key), true
}
