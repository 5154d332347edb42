package artifact

// Entry is the summary-facing description of one generated artifact.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Facts       []Fact `json:"facts,omitempty"`
	Table       *Table `json:"table,omitempty"`
	Graph       *Graph `json:"graph,omitempty"`
}

// Fact is a labelled value shown alongside an entry.
type Fact struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table lists child records (attributes, enumeration values, components).
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Graph describes steps and transitions for diagram output.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode is one step in a Graph.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// GraphEdge is a transition between two GraphNode IDs.
type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}
