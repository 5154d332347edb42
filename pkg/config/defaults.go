package config

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
)

//go:embed defaults/*.yaml
var embeddedDefaults embed.FS

// Defaults exposes the embedded default configurations. Each file is named
// after a kind's configuration key, e.g. "entities.yaml".
func Defaults() fs.FS {
	sub, err := fs.Sub(embeddedDefaults, "defaults")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return sub
}

// DefaultFile returns the embedded file name holding kind's default records.
func DefaultFile(kind artifact.Kind) string {
	spec, ok := artifact.Lookup(kind)
	if !ok {
		return ""
	}
	return spec.ConfigKey + ".yaml"
}

// LoadDefault parses the default document for kind from files.
func LoadDefault(files fs.FS, kind artifact.Kind) (Document, error) {
	name := DefaultFile(kind)
	if name == "" {
		return Document{}, fmt.Errorf("config: unknown kind %q", kind)
	}
	data, err := fs.ReadFile(files, name)
	if err != nil {
		return Document{}, fmt.Errorf("config: read default %s: %w", name, err)
	}
	root, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("config: default %s: %w", name, err)
	}
	return Document{
		Source: SourceFromDefaults(name),
		Origin: OriginDefault,
		Root:   root,
	}, nil
}
