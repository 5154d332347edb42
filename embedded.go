package lowcodegen

import (
	"bytes"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
	"github.com/goliatone/go-lowcodegen/pkg/summary"
)

// DefaultsFS exposes the embedded default configuration, one file per kind.
func DefaultsFS() fs.FS {
	return config.Defaults()
}

// SummaryTemplates exposes the built-in summary templates so callers can copy
// or extend them and pass the result back through summary.WithFS.
func SummaryTemplates() fs.FS {
	return summary.Templates()
}

// DefaultConfig merges the embedded per-kind defaults into a single
// configuration document, in generation order, suitable as a starting point
// for a project's own file.
func DefaultConfig() ([]byte, error) {
	files := config.Defaults()
	merged := &yaml.Node{Kind: yaml.MappingNode}
	for _, kind := range artifact.Kinds() {
		name := config.DefaultFile(kind)
		data, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("lowcodegen: read default %s: %w", name, err)
		}
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("lowcodegen: decode default %s: %w", name, err)
		}
		if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
			return nil, fmt.Errorf("lowcodegen: default %s is not a mapping", name)
		}
		merged.Content = append(merged.Content, doc.Content[0].Content...)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{merged}}); err != nil {
		return nil, fmt.Errorf("lowcodegen: encode defaults: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("lowcodegen: encode defaults: %w", err)
	}
	return buf.Bytes(), nil
}
