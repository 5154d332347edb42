package generator

import (
	"strings"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
)

// MicroflowBuilder builds microflow skeletons: a start event, one action
// activity and an end event joined by sequence flows.
type MicroflowBuilder struct{}

// Kind implements Builder.
func (MicroflowBuilder) Kind() artifact.Kind { return artifact.KindMicroflow }

// Build implements Builder.
func (b MicroflowBuilder) Build(record config.Record, opts Options) (*artifact.Node, error) {
	name, err := NameOf(b.Kind(), record, "UnknownMicroflow")
	if err != nil {
		return nil, err
	}
	params, err := children(b.Kind(), name, record, "parameters")
	if err != nil {
		return nil, err
	}
	returnType := microflowReturnType(record)

	root := newRoot(b.Kind(), name, NamespaceMicroflows)
	comment(root, opts, "Microflow skeleton; add business logic in the modeler")
	rootDocumentation(root, description(record, "Microflow "+name), opts)

	objects := root.Element("objectCollection")
	start := objects.Element("startEvent")
	position(start, "100", "100", "20", "20")

	activity := comment(objects.Element("actionActivity").Set("name", "ProcessAction"), opts, "Placeholder activity")
	position(activity, "200", "100", "120", "60")
	activity.Element("action").Set("type", "CreateObject").
		TextElement("documentation", "Main processing logic for "+name)

	end := objects.Element("endEvent")
	position(end, "400", "100", "20", "20")
	end.TextElement("returnValue", strings.ToLower(returnType))

	flows := root.Element("flows")
	sequenceFlow(flows, "startEvent", "ProcessAction")
	sequenceFlow(flows, "ProcessAction", "endEvent")

	paramsNode := root.Element("parameters")
	for _, param := range params {
		paramsNode.Element("parameter").
			Set("name", param.String("name", "Parameter")).
			Set("type", param.String("type", "String"))
	}
	root.TextElement("returnType", returnType)

	roles := root.Element("allowedRoles")
	for _, role := range microflowRoles(record) {
		roles.Element("allowedRole").Set("name", role)
	}
	return root, nil
}

func position(node *artifact.Node, x, y, width, height string) {
	node.Element("position").Set("x", x).Set("y", y)
	node.Element("size").Set("width", width).Set("height", height)
}

func sequenceFlow(flows *artifact.Node, origin, destination string) {
	flow := flows.Element("sequenceFlow")
	flow.TextElement("origin", origin)
	flow.TextElement("destination", destination)
}

func microflowReturnType(record config.Record) string {
	if value := record.String("return_type", ""); value != "" {
		return value
	}
	return record.String("returnType", "Boolean")
}

func microflowRoles(record config.Record) []string {
	if record.Has("security_roles") {
		return record.Strings("security_roles")
	}
	return record.Strings("allowed_roles")
}

// Describe implements Builder.
func (b MicroflowBuilder) Describe(record config.Record) artifact.Entry {
	name := record.String("name", "UnknownMicroflow")
	params := lenientChildren(record, "parameters")

	table := &artifact.Table{Headers: []string{"Parameter", "Type"}}
	for _, param := range params {
		table.Rows = append(table.Rows, []string{param.String("name", "Parameter"), param.String("type", "String")})
	}

	return artifact.Entry{
		Name:        name,
		Description: description(record, "Microflow "+name),
		Facts: []artifact.Fact{
			{Label: "Return Type", Value: microflowReturnType(record)},
			{Label: "Security Roles", Value: strings.Join(microflowRoles(record), ", ")},
		},
		Table: table,
	}
}
