package artifact

// Attr is a single element attribute. Attributes keep the order in which they
// were added.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of an artifact tree. A node holds either text or
// children; when both are set the text is written before the children.
type Node struct {
	Name     string
	Attrs    []Attr
	Text     string
	Comment  string
	Children []*Node
}

// NewNode creates an element with the given name.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Set appends an attribute and returns the node for chaining.
func (n *Node) Set(name, value string) *Node {
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// SetIf appends the attribute only when value is non-empty.
func (n *Node) SetIf(name, value string) *Node {
	if value == "" {
		return n
	}
	return n.Set(name, value)
}

// Attr returns the value of the first attribute called name.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Add appends child and returns it, so nested elements read top-down.
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Element appends and returns a new child element.
func (n *Node) Element(name string) *Node {
	return n.Add(NewNode(name))
}

// TextElement appends a child element holding text.
func (n *Node) TextElement(name, text string) *Node {
	child := n.Element(name)
	child.Text = text
	return child
}

// WithComment sets the comment written immediately before the element.
func (n *Node) WithComment(comment string) *Node {
	n.Comment = comment
	return n
}

// Find returns the first direct child called name.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// FindAll returns every direct child called name.
func (n *Node) FindAll(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		if child.Name == name {
			out = append(out, child)
		}
	}
	return out
}
