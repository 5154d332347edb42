package generator

import (
	"strings"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
)

// componentAttributes are copied onto <component> in this order when present.
var componentAttributes = []string{
	"entity", "field", "action", "constraint", "enumeration",
	"data", "metric", "target", "condition",
}

// PageBuilder builds page skeletons with role restrictions and components.
type PageBuilder struct{}

// Kind implements Builder.
func (PageBuilder) Kind() artifact.Kind { return artifact.KindPage }

// Build implements Builder.
func (b PageBuilder) Build(record config.Record, opts Options) (*artifact.Node, error) {
	name, err := NameOf(b.Kind(), record, "UnknownPage")
	if err != nil {
		return nil, err
	}
	components, err := children(b.Kind(), name, record, "components")
	if err != nil {
		return nil, err
	}

	root := newRoot(b.Kind(), name, "").Set("type", record.String("type", "page"))
	comment(root, opts, "Page skeleton; adjust layout and data sources in the modeler")
	if doc := record.String("description", ""); doc != "" {
		rootDocumentation(root, doc, opts)
	}

	if record.Has("security_roles") {
		security := root.Element("security")
		for _, role := range record.Strings("security_roles") {
			security.Element("allowedRole").Set("name", role)
		}
	}
	if layout := record.String("layout", ""); layout != "" {
		root.Element("layout").Set("type", layout)
	}

	if len(components) > 0 {
		list := root.Element("components")
		for _, component := range components {
			node := list.Element("component").
				Set("type", component.String("type", "Unknown")).
				Set("title", component.String("title", "Untitled"))
			for _, key := range componentAttributes {
				node.SetIf(key, component.String(key, ""))
			}
		}
	}
	return root, nil
}

// Describe implements Builder.
func (b PageBuilder) Describe(record config.Record) artifact.Entry {
	name := record.String("name", "UnknownPage")
	components := lenientChildren(record, "components")

	table := &artifact.Table{Headers: []string{"Component", "Title", "Binding"}}
	for _, component := range components {
		var binding []string
		for _, key := range componentAttributes {
			if value := component.String(key, ""); value != "" {
				binding = append(binding, key+"="+value)
			}
		}
		table.Rows = append(table.Rows, []string{
			component.String("type", "Unknown"),
			component.String("title", "Untitled"),
			strings.Join(binding, ", "),
		})
	}

	facts := []artifact.Fact{
		{Label: "Type", Value: record.String("type", "page")},
		{Label: "Roles", Value: strings.Join(record.Strings("security_roles"), ", ")},
	}
	if layout := record.String("layout", ""); layout != "" {
		facts = append(facts, artifact.Fact{Label: "Layout", Value: layout})
	}

	return artifact.Entry{
		Name:        name,
		Description: description(record, "No description"),
		Facts:       facts,
		Table:       table,
	}
}
