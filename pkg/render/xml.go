package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
)

// Header is the declaration written at the top of every generated document.
const Header = `<?xml version="1.0" encoding="UTF-8"?>`

const defaultIndent = "  "

// XML serializes node into a complete UTF-8 document: the fixed header line,
// then the tree with two-space indentation and attributes in insertion order.
// The output for a given tree is byte-identical across calls.
func XML(node *artifact.Node) ([]byte, error) {
	return NewXMLRenderer().Render(node)
}

// XMLRenderer writes artifact trees as XML text.
type XMLRenderer struct {
	indent     string
	withHeader bool
}

// Option customises an XMLRenderer.
type Option func(*XMLRenderer)

// WithIndent overrides the per-level indentation string.
func WithIndent(indent string) Option {
	return func(r *XMLRenderer) {
		r.indent = indent
	}
}

// WithoutHeader omits the XML declaration, for fragments embedded elsewhere.
func WithoutHeader() Option {
	return func(r *XMLRenderer) {
		r.withHeader = false
	}
}

// NewXMLRenderer constructs a renderer using the default header and indent.
func NewXMLRenderer(options ...Option) *XMLRenderer {
	r := &XMLRenderer{
		indent:     defaultIndent,
		withHeader: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Render serializes node.
func (r *XMLRenderer) Render(node *artifact.Node) ([]byte, error) {
	if node == nil {
		return nil, errors.New("render: node is nil")
	}

	var buf bytes.Buffer
	if r.withHeader {
		buf.WriteString(Header)
		buf.WriteByte('\n')
	}
	if err := r.writeNode(&buf, node, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *XMLRenderer) writeNode(buf *bytes.Buffer, node *artifact.Node, depth int) error {
	if !isName(node.Name) {
		return fmt.Errorf("render: invalid element name %q", node.Name)
	}
	prefix := strings.Repeat(r.indent, depth)

	if node.Comment != "" {
		buf.WriteString(prefix)
		buf.WriteString("<!-- ")
		buf.WriteString(commentText(node.Comment))
		buf.WriteString(" -->\n")
	}

	buf.WriteString(prefix)
	buf.WriteByte('<')
	buf.WriteString(node.Name)
	for _, attr := range node.Attrs {
		if !isName(attr.Name) {
			return fmt.Errorf("render: element %q has invalid attribute name %q", node.Name, attr.Name)
		}
		buf.WriteByte(' ')
		buf.WriteString(attr.Name)
		buf.WriteString(`="`)
		buf.WriteString(escapeAttr(attr.Value))
		buf.WriteByte('"')
	}

	switch {
	case node.Text == "" && len(node.Children) == 0:
		buf.WriteString("/>\n")
	case len(node.Children) == 0:
		buf.WriteByte('>')
		buf.WriteString(escapeText(node.Text))
		buf.WriteString("</")
		buf.WriteString(node.Name)
		buf.WriteString(">\n")
	default:
		buf.WriteString(">\n")
		if node.Text != "" {
			buf.WriteString(prefix)
			buf.WriteString(r.indent)
			buf.WriteString(escapeText(node.Text))
			buf.WriteByte('\n')
		}
		for _, child := range node.Children {
			if child == nil {
				continue
			}
			if err := r.writeNode(buf, child, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString(prefix)
		buf.WriteString("</")
		buf.WriteString(node.Name)
		buf.WriteString(">\n")
	}
	return nil
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
		"\n", "&#xA;",
		"\r", "&#xD;",
		"\t", "&#x9;",
	)
)

func escapeText(s string) string {
	return textEscaper.Replace(validChars(s))
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(validChars(s))
}

// validChars drops runes outside the XML 1.0 Char production and repairs
// invalid UTF-8 so free-text input cannot break well-formedness.
func validChars(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	clean := true
	for _, r := range s {
		if !isXMLChar(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, s)
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

func commentText(s string) string {
	s = validChars(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	if strings.HasSuffix(s, "-") {
		s += " "
	}
	return s
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == ':' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
