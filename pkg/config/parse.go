package config

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML (or JSON) document into an ordered Record. The top level
// must be a mapping; empty documents are rejected.
func Parse(data []byte) (Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Record{}, errors.New("config: document is empty")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Record{}, fmt.Errorf("config: parse yaml: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return Record{}, errors.New("config: document is empty")
		}
		root = root.Content[0]
	}
	root = resolveAlias(root)
	if root.Kind != yaml.MappingNode {
		return Record{}, fmt.Errorf("config: top level must be a mapping, got %s", nodeKind(root))
	}

	value, err := convert(root)
	if err != nil {
		return Record{}, err
	}
	return value.(Record), nil
}

func convert(node *yaml.Node) (any, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		return convertMapping(node)
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := convert(child)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil
	case yaml.ScalarNode:
		return convertScalar(node)
	default:
		return nil, fmt.Errorf("config: line %d: unsupported node %s", node.Line, nodeKind(node))
	}
}

func convertMapping(node *yaml.Node) (Record, error) {
	record := NewRecord()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := resolveAlias(node.Content[i]), node.Content[i+1]

		if keyNode.Tag == "!!merge" {
			if err := mergeInto(&record, valueNode); err != nil {
				return Record{}, err
			}
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return Record{}, fmt.Errorf("config: line %d: mapping keys must be scalars", keyNode.Line)
		}

		value, err := convert(valueNode)
		if err != nil {
			return Record{}, err
		}
		record.Set(keyNode.Value, value)
	}
	return record, nil
}

// mergeInto applies YAML merge keys (<<). Explicit keys win over merged ones.
func mergeInto(record *Record, node *yaml.Node) error {
	node = resolveAlias(node)
	var sources []*yaml.Node
	switch node.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{node}
	case yaml.SequenceNode:
		sources = node.Content
	default:
		return fmt.Errorf("config: line %d: merge value must be a mapping", node.Line)
	}
	for _, src := range sources {
		merged, err := convert(src)
		if err != nil {
			return err
		}
		nested, ok := merged.(Record)
		if !ok {
			return fmt.Errorf("config: line %d: merge value must be a mapping", src.Line)
		}
		for _, key := range nested.keys {
			if record.Has(key) {
				continue
			}
			record.Set(key, nested.values[key])
		}
	}
	return nil
}

func convertScalar(node *yaml.Node) (any, error) {
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, fmt.Errorf("config: line %d: %w", node.Line, err)
	}
	switch value.(type) {
	case nil, string, int, int64, uint64, float64, bool:
		return value, nil
	case time.Time:
		// timestamps stay textual; builders only ever print them
		return node.Value, nil
	default:
		return node.Value, nil
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
