package summary

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
)

// Mermaid renders graph as a top-down flowchart. Node shapes follow the step
// type: decisions are rhombi, start and end events are stadiums, everything
// else is a box. Output ends with a newline.
func Mermaid(graph *artifact.Graph) string {
	var b strings.Builder
	b.WriteString("flowchart TD\n")
	if graph == nil {
		return b.String()
	}
	ids := newMermaidIDs()

	for _, node := range graph.Nodes {
		id := ids.get(node.ID)
		label := mermaidLabel(node.Label)
		b.WriteString("    ")
		b.WriteString(id)
		switch strings.ToLower(node.Type) {
		case "decision":
			b.WriteString(`{"` + label + `"}`)
		case "start", "end":
			b.WriteString(`(["` + label + `"])`)
		default:
			b.WriteString(`["` + label + `"]`)
		}
		b.WriteByte('\n')
	}
	for _, edge := range graph.Edges {
		b.WriteString("    ")
		b.WriteString(ids.get(edge.From))
		if edge.Label != "" {
			b.WriteString(" -->|" + mermaidLabel(edge.Label) + "| ")
		} else {
			b.WriteString(" --> ")
		}
		b.WriteString(ids.get(edge.To))
		b.WriteByte('\n')
	}
	return b.String()
}

// mermaidIDs assigns each raw step id a distinct diagram id. Ids that
// sanitize to the same text get a numeric suffix in order of appearance.
type mermaidIDs struct {
	assigned map[string]string
	taken    map[string]bool
}

func newMermaidIDs() *mermaidIDs {
	return &mermaidIDs{assigned: make(map[string]string), taken: make(map[string]bool)}
}

func (m *mermaidIDs) get(raw string) string {
	if id, ok := m.assigned[raw]; ok {
		return id
	}
	base := mermaidID(raw)
	id := base
	for n := 2; m.taken[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	m.assigned[raw] = id
	m.taken[id] = true
	return id
}

func mermaidID(raw string) string {
	if raw == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range raw {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

var labelEscaper = strings.NewReplacer(
	`"`, "#quot;",
	"|", "#124;",
	"\n", " ",
	"\r", "",
)

func mermaidLabel(raw string) string {
	return labelEscaper.Replace(raw)
}
