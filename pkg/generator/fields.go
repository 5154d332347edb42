package generator

import (
	"fmt"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
)

// Entry asserts that a raw list item from the configuration is a mapping.
func Entry(kind artifact.Kind, raw any, index int) (config.Record, error) {
	record, ok := raw.(config.Record)
	if !ok {
		return config.Record{}, &RecordError{
			Kind:   kind,
			Index:  index,
			Reason: fmt.Sprintf("entry %d is %s, want a mapping", index, describeValue(raw)),
		}
	}
	return record, nil
}

// children returns the mappings listed under key. A missing or null key yields
// no children; anything that is not a list of mappings is a RecordError.
func children(kind artifact.Kind, name string, record config.Record, key string) ([]config.Record, error) {
	raw, ok := record.Get(key)
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, &RecordError{Kind: kind, Name: name, Field: key, Reason: fmt.Sprintf("expected a list, got %s", describeValue(raw))}
	}
	out := make([]config.Record, 0, len(items))
	for i, item := range items {
		child, ok := item.(config.Record)
		if !ok {
			return nil, &RecordError{
				Kind:   kind,
				Name:   name,
				Index:  i,
				Field:  key,
				Reason: fmt.Sprintf("item %d is %s, want a mapping", i, describeValue(item)),
			}
		}
		out = append(out, child)
	}
	return out, nil
}

// lenientChildren is the non-failing variant used by Describe.
func lenientChildren(record config.Record, key string) []config.Record {
	var out []config.Record
	for _, item := range record.List(key) {
		if child, ok := item.(config.Record); ok {
			out = append(out, child)
		}
	}
	return out
}

func describeValue(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case config.Record:
		return "a mapping"
	case []any:
		return "a list"
	default:
		return fmt.Sprintf("a scalar (%v)", value)
	}
}

// newRoot creates the root element with the name attribute followed by the
// namespace declarations, when the kind carries them.
func newRoot(kind artifact.Kind, name, namespace string) *artifact.Node {
	root := artifact.NewNode(artifact.MustLookup(kind).Root).Set("name", name)
	if namespace != "" {
		root.Set("xmlns", namespace).Set("xmlns:xsi", NamespaceXSI)
	}
	return root
}

// rootDocumentation appends the root documentation element. Verbose output
// names the target platform.
func rootDocumentation(root *artifact.Node, text string, opts Options) {
	if opts.Verbose {
		text = fmt.Sprintf("%s - Compatible with %s", text, opts.platform())
	}
	root.TextElement("documentation", text)
}

// comment attaches text to node only in verbose mode.
func comment(node *artifact.Node, opts Options, format string, args ...any) *artifact.Node {
	if opts.Verbose {
		node.WithComment(fmt.Sprintf(format, args...))
	}
	return node
}

func description(record config.Record, def string) string {
	return record.String("description", def)
}

func countFact(label string, n int) artifact.Fact {
	return artifact.Fact{Label: label, Value: fmt.Sprintf("%d", n)}
}
