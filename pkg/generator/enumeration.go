package generator

import (
	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
)

// EnumerationBuilder builds enumerations with their values and captions.
type EnumerationBuilder struct{}

// Kind implements Builder.
func (EnumerationBuilder) Kind() artifact.Kind { return artifact.KindEnumeration }

// Build implements Builder.
func (b EnumerationBuilder) Build(record config.Record, opts Options) (*artifact.Node, error) {
	name, err := NameOf(b.Kind(), record, "UnknownEnumeration")
	if err != nil {
		return nil, err
	}
	values, err := children(b.Kind(), name, record, "values")
	if err != nil {
		return nil, err
	}

	root := newRoot(b.Kind(), name, NamespaceDomain)
	comment(root, opts, "Enumeration %s with %d value(s)", name, len(values))
	rootDocumentation(root, description(record, "LAB Workflow Enumeration: "+name), opts)

	list := root.Element("values")
	for _, value := range values {
		valueName := value.String("name", "UnknownValue")
		node := list.Element("value").Set("name", valueName)
		node.Element("caption").Set("defaultValue", value.String("caption", valueName))
		if doc := value.String("description", ""); doc != "" {
			node.TextElement("documentation", doc)
		}
	}
	return root, nil
}

// Describe implements Builder.
func (b EnumerationBuilder) Describe(record config.Record) artifact.Entry {
	name := record.String("name", "UnknownEnumeration")
	values := lenientChildren(record, "values")

	table := &artifact.Table{Headers: []string{"Name", "Caption", "Description"}}
	for _, value := range values {
		valueName := value.String("name", "UnknownValue")
		table.Rows = append(table.Rows, []string{
			valueName,
			value.String("caption", valueName),
			description(value, "No description"),
		})
	}

	return artifact.Entry{
		Name:        name,
		Description: description(record, "No description"),
		Facts:       []artifact.Fact{countFact("Values", len(values))},
		Table:       table,
	}
}
