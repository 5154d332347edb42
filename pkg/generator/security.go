package generator

import (
	"fmt"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
)

// SecurityRoleBuilder builds module roles with entity, page and microflow
// access rules.
type SecurityRoleBuilder struct{}

// Kind implements Builder.
func (SecurityRoleBuilder) Kind() artifact.Kind { return artifact.KindSecurityRole }

type entityRule struct {
	entity string
	access string
	xpath  string
}

// Build implements Builder.
func (b SecurityRoleBuilder) Build(record config.Record, opts Options) (*artifact.Node, error) {
	name, err := NameOf(b.Kind(), record, "UnknownRole")
	if err != nil {
		return nil, err
	}
	rules, err := entityRules(name, record)
	if err != nil {
		return nil, err
	}

	root := newRoot(b.Kind(), name, NamespaceProjects)
	comment(root, opts, "Module role %s", name)
	rootDocumentation(root, description(record, "Module role "+name), opts)

	entityNode := comment(root.Element("entityAccessRules"), opts, "XPath constraints use the [%%CurrentUser%%] token")
	for _, rule := range rules {
		node := entityNode.Element("entityAccess").Set("entity", rule.entity).Set("access", rule.access)
		if rule.xpath != "" {
			node.TextElement("xPathConstraint", rule.xpath)
		}
	}

	pages := root.Element("pageAccessRules")
	for _, page := range record.Strings("page_access") {
		pages.Element("pageAccess").Set("page", page).Set("access", "Full")
	}
	microflows := root.Element("microflowAccessRules")
	for _, microflow := range record.Strings("microflow_access") {
		microflows.Element("microflowAccess").Set("microflow", microflow).Set("access", "Full")
	}
	return root, nil
}

// entityRules reads entity_access, which is either a mapping of entity name to
// access (string, or mapping with access/xpath) or a list of mappings carrying
// an explicit entity field.
func entityRules(name string, record config.Record) ([]entityRule, error) {
	raw, ok := record.Get("entity_access")
	if !ok || raw == nil {
		return nil, nil
	}

	switch typed := raw.(type) {
	case config.Record:
		rules := make([]entityRule, 0, typed.Len())
		for _, entity := range typed.Keys() {
			value, _ := typed.Get(entity)
			rule, err := entityRuleFrom(name, entity, value)
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
		return rules, nil
	case []any:
		items, err := children(artifact.KindSecurityRole, name, record, "entity_access")
		if err != nil {
			return nil, err
		}
		rules := make([]entityRule, 0, len(items))
		for _, item := range items {
			rules = append(rules, entityRule{
				entity: item.String("entity", "UnknownEntity"),
				access: item.String("access", "R"),
				xpath:  item.String("xpath", ""),
			})
		}
		return rules, nil
	default:
		return nil, &RecordError{
			Kind:   artifact.KindSecurityRole,
			Name:   name,
			Field:  "entity_access",
			Reason: fmt.Sprintf("expected a mapping, got %s", describeValue(raw)),
		}
	}
}

func entityRuleFrom(role, entity string, value any) (entityRule, error) {
	switch typed := value.(type) {
	case nil:
		return entityRule{entity: entity, access: "R"}, nil
	case config.Record:
		return entityRule{
			entity: entity,
			access: typed.String("access", "R"),
			xpath:  typed.String("xpath", ""),
		}, nil
	default:
		access, ok := config.ScalarString(value)
		if !ok {
			return entityRule{}, &RecordError{
				Kind:   artifact.KindSecurityRole,
				Name:   role,
				Field:  "entity_access." + entity,
				Reason: fmt.Sprintf("expected an access string or mapping, got %s", describeValue(value)),
			}
		}
		return entityRule{entity: entity, access: access}, nil
	}
}

// Describe implements Builder.
func (b SecurityRoleBuilder) Describe(record config.Record) artifact.Entry {
	name := record.String("name", "UnknownRole")
	rules, _ := entityRules(name, record)

	table := &artifact.Table{Headers: []string{"Entity", "Access", "XPath"}}
	constrained := 0
	for _, rule := range rules {
		if rule.xpath != "" {
			constrained++
		}
		table.Rows = append(table.Rows, []string{rule.entity, rule.access, rule.xpath})
	}

	return artifact.Entry{
		Name:        name,
		Description: description(record, "Module role "+name),
		Facts: []artifact.Fact{
			countFact("Entity Access", len(rules)),
			countFact("XPath Constraints", constrained),
			countFact("Page Access", len(record.Strings("page_access"))),
			countFact("Microflow Access", len(record.Strings("microflow_access"))),
		},
		Table: table,
	}
}
