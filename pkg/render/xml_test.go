package render_test

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/render"
)

func sampleTree() *artifact.Node {
	root := artifact.NewNode("entity").Set("name", "Widget")
	root.TextElement("documentation", "Widget entity")
	attrs := root.Element("attributes")
	attrs.Element("attribute").Set("name", "Count").Set("type", "Integer")
	root.Element("indexes")
	return root
}

func TestXML_Layout(t *testing.T) {
	got, err := render.XML(sampleTree())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := strings.Join([]string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<entity name="Widget">`,
		`  <documentation>Widget entity</documentation>`,
		`  <attributes>`,
		`    <attribute name="Count" type="Integer"/>`,
		`  </attributes>`,
		`  <indexes/>`,
		`</entity>`,
		``,
	}, "\n")

	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestXML_AttributeOrderIsInsertionOrder(t *testing.T) {
	node := artifact.NewNode("component").Set("type", "DataGrid").Set("title", "Tasks").Set("entity", "Account")
	got, err := render.XML(node)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(got), `<component type="DataGrid" title="Tasks" entity="Account"/>`) {
		t.Fatalf("attributes reordered:\n%s", got)
	}
}

func TestXML_Deterministic(t *testing.T) {
	tree := sampleTree()
	first, err := render.XML(tree)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := render.XML(tree)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("output differs between calls:\n%s\n---\n%s", first, second)
	}
}

func TestXML_EscapesHostileInput(t *testing.T) {
	hostile := `Tom & "Jerry" <script>alert('x')</script>` + "\x00\x1b"
	root := artifact.NewNode("page").Set("name", hostile)
	root.TextElement("documentation", hostile)
	root.Element("constraint").Set("xpath", "[Owner = '[%CurrentUser%]']")
	root.WithComment("generated -- do not edit -")

	out, err := render.XML(root)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	name, doc := parseBack(t, out)
	wantText := `Tom & "Jerry" <script>alert('x')</script>`
	if name != wantText {
		t.Fatalf("attribute round trip mismatch: %q", name)
	}
	if doc != wantText {
		t.Fatalf("text round trip mismatch: %q", doc)
	}
	if strings.Contains(string(out), "-- do") {
		t.Fatalf("comment was not sanitised:\n%s", out)
	}
}

func TestXML_TextWithChildren(t *testing.T) {
	root := artifact.NewNode("module")
	root.Text = "intro"
	root.Element("dependencies")

	got, err := render.XML(root)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := render.Header + "\n<module>\n  intro\n  <dependencies/>\n</module>\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestXML_Options(t *testing.T) {
	r := render.NewXMLRenderer(render.WithoutHeader(), render.WithIndent("\t"))
	got, err := r.Render(sampleTree())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.HasPrefix(string(got), "<?xml") {
		t.Fatalf("header should be omitted:\n%s", got)
	}
	if !strings.Contains(string(got), "\n\t\t<attribute ") {
		t.Fatalf("expected tab indentation:\n%s", got)
	}
}

func TestXML_RejectsInvalidNames(t *testing.T) {
	cases := []*artifact.Node{
		nil,
		artifact.NewNode(""),
		artifact.NewNode("1abc"),
		artifact.NewNode("ok").Set("bad name", "x"),
	}
	for i, node := range cases {
		if _, err := render.XML(node); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func parseBack(t *testing.T, data []byte) (string, string) {
	t.Helper()

	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		name, doc string
		inDoc     bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("parse back: %v\n%s", err, data)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "page" {
				for _, attr := range el.Attr {
					if attr.Name.Local == "name" {
						name = attr.Value
					}
				}
			}
			inDoc = el.Name.Local == "documentation"
		case xml.CharData:
			if inDoc {
				doc += string(el)
			}
		case xml.EndElement:
			inDoc = false
		}
	}
	return name, doc
}
