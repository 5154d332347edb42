package generator

import (
	"strings"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
)

// Attribute types understood by the entity builder.
const (
	TypeString      = "String"
	TypeInteger     = "Integer"
	TypeLong        = "Long"
	TypeBoolean     = "Boolean"
	TypeDateTime    = "DateTime"
	TypeDecimal     = "Decimal"
	TypeEnumeration = "Enumeration"
)

var attributeTypes = map[string]string{
	"string":      TypeString,
	"integer":     TypeInteger,
	"long":        TypeLong,
	"boolean":     TypeBoolean,
	"datetime":    TypeDateTime,
	"decimal":     TypeDecimal,
	"enum":        TypeEnumeration,
	"enumeration": TypeEnumeration,
}

// AttributeType maps a configured logical type to the platform type. Missing
// or unknown types become String.
func AttributeType(raw string) string {
	if mapped, ok := attributeTypes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return mapped
	}
	return TypeString
}

// EntityBuilder builds domain model entities.
type EntityBuilder struct{}

// Kind implements Builder.
func (EntityBuilder) Kind() artifact.Kind { return artifact.KindEntity }

// Build implements Builder.
func (b EntityBuilder) Build(record config.Record, opts Options) (*artifact.Node, error) {
	name, err := NameOf(b.Kind(), record, "UnknownEntity")
	if err != nil {
		return nil, err
	}
	attributes, err := children(b.Kind(), name, record, "attributes")
	if err != nil {
		return nil, err
	}
	associations, err := children(b.Kind(), name, record, "associations")
	if err != nil {
		return nil, err
	}

	root := newRoot(b.Kind(), name, NamespaceDomain)
	comment(root, opts, "Entity %s generated from configuration", name)
	rootDocumentation(root, description(record, "LAB Workflow Entity: "+name), opts)

	if parent := record.String("generalization", ""); parent != "" {
		if !strings.Contains(parent, ".") {
			parent = "System." + parent
		}
		root.TextElement("generalization", parent)
	}

	attrs := comment(root.Element("attributes"), opts, "%d attribute(s)", len(attributes))
	for _, attr := range attributes {
		attrs.Add(entityAttribute(attr, opts))
	}

	assocs := root.Element("associations")
	if len(associations) > 0 {
		comment(assocs, opts, "Associations are cross-references and are not checked at generation time")
	}
	for _, assoc := range associations {
		assocs.Element("association").
			Set("name", assoc.String("name", "UnknownAssociation")).
			Set("target", assoc.String("target", "")).
			Set("type", assoc.String("type", "Reference")).
			Set("owner", assoc.String("owner", "Default"))
	}

	root.Element("indexes")
	root.Element("rules")
	root.Element("eventHandlers")
	return root, nil
}

func entityAttribute(attr config.Record, opts Options) *artifact.Node {
	name := attr.String("name", "UnknownAttribute")
	typ := AttributeType(attr.String("type", ""))

	node := artifact.NewNode("attribute").Set("name", name).Set("type", typ)
	if typ == TypeString || typ == TypeDecimal {
		node.SetIf("length", attr.String("length", ""))
	}
	if opts.Verbose {
		node.WithComment(typ + " attribute " + name)
	}
	node.TextElement("documentation", description(attr, name+" attribute"))

	if typ == TypeEnumeration {
		node.TextElement("enumeration", enumReference(attr, name))
	}
	if value := attr.String("default", ""); value != "" {
		node.TextElement("value", value)
	}
	return node
}

func enumReference(attr config.Record, attrName string) string {
	if ref := attr.String("enum_name", ""); ref != "" {
		return ref
	}
	if ref := attr.String("enumeration", ""); ref != "" {
		return ref
	}
	return attrName + "Enum"
}

// Describe implements Builder.
func (b EntityBuilder) Describe(record config.Record) artifact.Entry {
	name := record.String("name", "UnknownEntity")
	attributes := lenientChildren(record, "attributes")

	table := &artifact.Table{Headers: []string{"Attribute", "Type", "Description"}}
	for _, attr := range attributes {
		attrName := attr.String("name", "UnknownAttribute")
		typ := AttributeType(attr.String("type", ""))
		if typ == TypeEnumeration {
			typ += " (" + enumReference(attr, attrName) + ")"
		}
		table.Rows = append(table.Rows, []string{attrName, typ, description(attr, attrName+" attribute")})
	}

	facts := []artifact.Fact{countFact("Attributes", len(attributes))}
	if parent := record.String("generalization", ""); parent != "" {
		facts = append(facts, artifact.Fact{Label: "Generalization", Value: parent})
	}
	if assocs := lenientChildren(record, "associations"); len(assocs) > 0 {
		facts = append(facts, countFact("Associations", len(assocs)))
	}

	return artifact.Entry{
		Name:        name,
		Description: description(record, "LAB Workflow Entity: "+name),
		Facts:       facts,
		Table:       table,
	}
}
