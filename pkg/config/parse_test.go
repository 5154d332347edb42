package config_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
)

func TestParse_PreservesDocumentOrder(t *testing.T) {
	record, err := config.Parse([]byte(`
zeta: 1
alpha: two
mid:
  b: true
  a: 2.5
list: [x, 3, null]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff([]string{"zeta", "alpha", "mid", "list"}, record.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	mid, ok := record.Record("mid")
	if !ok {
		t.Fatalf("mid is not a record")
	}
	if diff := cmp.Diff([]string{"b", "a"}, mid.Keys()); diff != "" {
		t.Fatalf("nested keys mismatch (-want +got):\n%s", diff)
	}

	want := map[string]any{
		"zeta":  1,
		"alpha": "two",
		"mid":   map[string]any{"b": true, "a": 2.5},
		"list":  []any{"x", 3, nil},
	}
	if diff := cmp.Diff(want, record.Map()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_AcceptsJSON(t *testing.T) {
	record, err := config.Parse([]byte(`{"entities": [{"name": "Widget"}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	items := record.List("entities")
	if len(items) != 1 {
		t.Fatalf("expected one entity, got %d", len(items))
	}
	entity := items[0].(config.Record)
	if got := entity.String("name", ""); got != "Widget" {
		t.Fatalf("name = %q", got)
	}
}

func TestParse_ResolvesAnchorsAndMerges(t *testing.T) {
	record, err := config.Parse([]byte(`
base: &base
  type: String
  length: 10
attr:
  <<: *base
  name: Code
  length: 20
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	attr, _ := record.Record("attr")
	if diff := cmp.Diff([]string{"type", "length", "name"}, attr.Keys()); diff != "" {
		t.Fatalf("merged keys mismatch (-want +got):\n%s", diff)
	}
	if got := attr.String("length", ""); got != "20" {
		t.Fatalf("explicit key should win over merge, got %q", got)
	}
	if got := attr.String("type", ""); got != "String" {
		t.Fatalf("merged type = %q", got)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":        "   \n",
		"scalar":       "just text",
		"sequence":     "- a\n- b\n",
		"syntax error": "entities: [unclosed",
	}
	for name, source := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := config.Parse([]byte(source)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestRecord_Accessors(t *testing.T) {
	record, err := config.Parse([]byte(`
name: Widget
count: 3
ratio: 0.5
enabled: "true"
roles: [LABAdmin, "", LABViewer]
role: LABAdmin
nested: {a: 1}
empty: ""
nothing: null
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got := record.String("count", ""); got != "3" {
		t.Fatalf("count = %q", got)
	}
	if got := record.String("ratio", ""); got != "0.5" {
		t.Fatalf("ratio = %q", got)
	}
	if got := record.String("empty", "fallback"); got != "fallback" {
		t.Fatalf("empty string should use default, got %q", got)
	}
	if got := record.String("nothing", "fallback"); got != "fallback" {
		t.Fatalf("null should use default, got %q", got)
	}
	if got := record.String("nested", "fallback"); got != "fallback" {
		t.Fatalf("mapping should use default, got %q", got)
	}
	if !record.Bool("enabled", false) {
		t.Fatalf("expected string bool to convert")
	}
	if !record.Has("nothing") || record.Has("missing") {
		t.Fatalf("Has mismatch")
	}
	if _, ok := record.Scalar("nested"); ok {
		t.Fatalf("nested mapping should not be scalar")
	}
	if diff := cmp.Diff([]string{"LABAdmin", "LABViewer"}, record.Strings("roles")); diff != "" {
		t.Fatalf("roles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"LABAdmin"}, record.Strings("role")); diff != "" {
		t.Fatalf("single role mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_SetKeepsFirstPosition(t *testing.T) {
	record := config.NewRecord()
	record.Set("a", 1).Set("b", 2).Set("a", 3)

	if diff := cmp.Diff([]string{"a", "b"}, record.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if value, _ := record.Get("a"); value != 3 {
		t.Fatalf("a = %v", value)
	}
}

func TestDefaults_CoverEveryKind(t *testing.T) {
	files := config.Defaults()
	for _, spec := range artifact.Specs() {
		doc, err := config.LoadDefault(files, spec.Kind)
		if err != nil {
			t.Fatalf("%s: %v", spec.Kind, err)
		}
		entries, ok := doc.Entries(spec.ConfigKey)
		if !ok || len(entries) == 0 {
			t.Fatalf("%s: default has no %q entries", spec.Kind, spec.ConfigKey)
		}
		if doc.Origin != config.OriginDefault {
			t.Fatalf("%s: origin = %q", spec.Kind, doc.Origin)
		}
		if !strings.HasPrefix(doc.Location(), "embedded:") {
			t.Fatalf("%s: location = %q", spec.Kind, doc.Location())
		}
	}
}

func TestLoadDefault_ReportsBrokenFile(t *testing.T) {
	files := fstest.MapFS{
		"entities.yaml": &fstest.MapFile{Data: []byte("- not a mapping\n")},
	}
	if _, err := config.LoadDefault(files, artifact.KindEntity); err == nil {
		t.Fatalf("expected error for non-mapping default")
	}
	if _, err := config.LoadDefault(files, artifact.KindPage); err == nil {
		t.Fatalf("expected error for missing default")
	}
}
