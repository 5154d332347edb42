package loader_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-lowcodegen/internal/config/loader"
	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	pkgconfig "github.com/goliatone/go-lowcodegen/pkg/config"
	"github.com/goliatone/go-lowcodegen/pkg/testsupport"
)

const widgetConfig = `
entities:
  - name: Widget
    attributes:
      - name: Count
        type: Integer
`

func newLoader(t *testing.T, alternatives []string, opts ...pkgconfig.LoaderOption) (*loader.Loader, func() []string) {
	t.Helper()

	logger, logs := testsupport.ObservedLogger(zapcore.DebugLevel)
	options := append([]pkgconfig.LoaderOption{
		pkgconfig.WithAlternatives(artifact.KindEntity, alternatives...),
		pkgconfig.WithLogger(logger),
	}, opts...)

	messages := func() []string {
		var out []string
		for _, entry := range logs.All() {
			out = append(out, entry.Level.String()+": "+entry.Message)
		}
		return out
	}
	return loader.New(pkgconfig.NewLoaderOptions(options...)), messages
}

func TestLoad_RequestedPath(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteFile(t, dir, "config.yaml", widgetConfig)

	l, _ := newLoader(t, nil)
	doc, err := l.Load(context.Background(), pkgconfig.Request{Kind: artifact.KindEntity, Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Origin != pkgconfig.OriginRequested {
		t.Fatalf("origin = %q", doc.Origin)
	}
	if doc.Location() != filepath.Clean(path) {
		t.Fatalf("location = %q", doc.Location())
	}
	entries, ok := doc.Entries("entities")
	if !ok || len(entries) != 1 {
		t.Fatalf("expected one entity, got %v", entries)
	}
}

func TestLoad_RequestedPathParseFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteFile(t, dir, "broken.yaml", "entities: [unclosed")
	alt := testsupport.WriteFile(t, dir, "alt.yaml", widgetConfig)

	l, _ := newLoader(t, []string{alt})
	_, err := l.Load(context.Background(), pkgconfig.Request{Kind: artifact.KindEntity, Path: path})

	var cfgErr *pkgconfig.Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *config.Error, got %v", err)
	}
	if cfgErr.Path != path {
		t.Fatalf("error path = %q", cfgErr.Path)
	}
}

func TestLoad_StrictMissingPath(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.yaml")

	l, _ := newLoader(t, nil)
	_, err := l.Load(context.Background(), pkgconfig.Request{Kind: artifact.KindEntity, Path: missing, Strict: true})

	var cfgErr *pkgconfig.Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *config.Error, got %v", err)
	}
}

func TestLoad_FirstValidAlternativeWins(t *testing.T) {
	dir := t.TempDir()
	broken := testsupport.WriteFile(t, dir, "broken.yaml", "entities: [unclosed")
	first := testsupport.WriteFile(t, dir, "first.yaml", widgetConfig)
	second := testsupport.WriteFile(t, dir, "second.yaml", "entities:\n  - name: Other\n")

	l, messages := newLoader(t, []string{
		filepath.Join(dir, "absent.yaml"),
		broken,
		first,
		second,
	})

	doc, err := l.Load(context.Background(), pkgconfig.Request{
		Kind: artifact.KindEntity,
		Path: filepath.Join(dir, "requested.yaml"),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Origin != pkgconfig.OriginAlternative {
		t.Fatalf("origin = %q", doc.Origin)
	}
	if doc.Location() != filepath.Clean(first) {
		t.Fatalf("location = %q, want %q", doc.Location(), first)
	}

	want := []string{
		"debug: requested configuration not found",
		"warn: skipping unreadable configuration",
		"info: using alternative configuration",
	}
	if diff := cmp.Diff(want, messages()); diff != "" {
		t.Fatalf("log mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FallsBackToDeterministicDefault(t *testing.T) {
	dir := t.TempDir()
	l, messages := newLoader(t, []string{filepath.Join(dir, "absent.yaml")})
	req := pkgconfig.Request{Kind: artifact.KindEntity, Path: filepath.Join(dir, "requested.yaml")}

	first, err := l.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, err := l.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if first.Origin != pkgconfig.OriginDefault {
		t.Fatalf("origin = %q", first.Origin)
	}
	if diff := cmp.Diff(first.Root.Map(), second.Root.Map()); diff != "" {
		t.Fatalf("default differs between calls (-first +second):\n%s", diff)
	}
	entries, _ := first.Entries("entities")
	if len(entries) == 0 {
		t.Fatalf("default has no entities")
	}

	logged := messages()
	if len(logged) == 0 || logged[len(logged)-1] != "warn: no configuration file found, using embedded defaults" {
		t.Fatalf("expected default warning, got %v", logged)
	}
}

func TestLoad_UnknownKind(t *testing.T) {
	l, _ := newLoader(t, nil)
	if _, err := l.Load(context.Background(), pkgconfig.Request{Kind: "gadget"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l, _ := newLoader(t, nil)
	if _, err := l.Load(ctx, pkgconfig.Request{Kind: artifact.KindEntity}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
