package generator

import (
	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
)

// WorkflowBuilder builds workflow definitions: steps, their outcomes and the
// flows between them.
type WorkflowBuilder struct{}

// Kind implements Builder.
func (WorkflowBuilder) Kind() artifact.Kind { return artifact.KindWorkflow }

// Build implements Builder.
func (b WorkflowBuilder) Build(record config.Record, opts Options) (*artifact.Node, error) {
	name, err := NameOf(b.Kind(), record, "UnknownWorkflow")
	if err != nil {
		return nil, err
	}
	steps, err := children(b.Kind(), name, record, "steps")
	if err != nil {
		return nil, err
	}
	flows, err := children(b.Kind(), name, record, "flows")
	if err != nil {
		return nil, err
	}

	root := newRoot(b.Kind(), name, "")
	comment(root, opts, "Workflow %s: %d step(s), %d flow(s)", name, len(steps), len(flows))
	if doc := record.String("description", ""); doc != "" {
		rootDocumentation(root, doc, opts)
	}
	if entity := contextEntity(record); entity != "" {
		root.Element("contextEntity").Set("name", entity)
	}

	if len(steps) > 0 {
		list := root.Element("steps")
		for _, step := range steps {
			list.Add(workflowStep(step))
		}
	}
	if len(flows) > 0 {
		list := root.Element("flows")
		for _, flow := range flows {
			node := list.Element("flow").
				Set("from", flow.String("from", "")).
				Set("to", flow.String("to", ""))
			if condition := flow.String("condition", ""); condition != "" {
				node.TextElement("condition", condition)
			}
		}
	}
	return root, nil
}

func workflowStep(step config.Record) *artifact.Node {
	node := artifact.NewNode("step").
		Set("id", step.String("id", "unknown")).
		Set("name", step.String("name", "Unknown Step")).
		Set("type", step.String("type", "task")).
		SetIf("page", step.String("page", "")).
		SetIf("microflow", step.String("microflow", "")).
		SetIf("result", step.String("result", ""))

	if doc := step.String("description", ""); doc != "" {
		node.TextElement("documentation", doc)
	}
	if assignee := stepAssignee(step); assignee != "" {
		node.TextElement("assignee", assignee)
	}
	if role := step.String("assignee_role", ""); role != "" {
		node.TextElement("assigneeRole", role)
	}
	if condition := step.String("condition", ""); condition != "" {
		node.TextElement("condition", condition)
	}
	if step.Has("outcomes") {
		outcomes := node.Element("outcomes")
		for _, outcome := range step.Strings("outcomes") {
			outcomes.Element("outcome").Set("name", outcome)
		}
	}
	return node
}

func stepAssignee(step config.Record) string {
	if value := step.String("assignee_expression", ""); value != "" {
		return value
	}
	return step.String("assignee", "")
}

func contextEntity(record config.Record) string {
	if value := record.String("context_entity", ""); value != "" {
		return value
	}
	return record.String("contextEntity", "")
}

// Describe implements Builder. The graph mirrors the configured steps and
// flows so diagrams never drift from the generated definition.
func (b WorkflowBuilder) Describe(record config.Record) artifact.Entry {
	name := record.String("name", "UnknownWorkflow")
	steps := lenientChildren(record, "steps")
	flows := lenientChildren(record, "flows")

	graph := &artifact.Graph{}
	table := &artifact.Table{Headers: []string{"Step", "Type", "Assigned To", "Description"}}
	for _, step := range steps {
		id := step.String("id", "unknown")
		label := step.String("name", "Unknown Step")
		typ := step.String("type", "task")
		graph.Nodes = append(graph.Nodes, artifact.GraphNode{ID: id, Label: label, Type: typ})

		assigned := step.String("assignee_role", "")
		if assigned == "" {
			assigned = stepAssignee(step)
		}
		if assigned == "" {
			assigned = step.String("microflow", "")
		}
		table.Rows = append(table.Rows, []string{label, typ, assigned, step.String("description", "")})
	}
	for _, flow := range flows {
		graph.Edges = append(graph.Edges, artifact.GraphEdge{
			From:  flow.String("from", ""),
			To:    flow.String("to", ""),
			Label: flow.String("condition", ""),
		})
	}

	facts := []artifact.Fact{
		countFact("Steps", len(steps)),
		countFact("Flows", len(flows)),
	}
	if entity := contextEntity(record); entity != "" {
		facts = append(facts, artifact.Fact{Label: "Context Entity", Value: entity})
	}

	return artifact.Entry{
		Name:        name,
		Description: description(record, "No description"),
		Facts:       facts,
		Table:       table,
		Graph:       graph,
	}
}
