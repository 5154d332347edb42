package orchestrator_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	internalLoader "github.com/goliatone/go-lowcodegen/internal/config/loader"
	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
	"github.com/goliatone/go-lowcodegen/pkg/generator"
	"github.com/goliatone/go-lowcodegen/pkg/orchestrator"
	"github.com/goliatone/go-lowcodegen/pkg/testsupport"
)

func isolatedLoader() config.Loader {
	return internalLoader.New(config.NewLoaderOptions(config.WithoutAlternatives()))
}

func fixedClock() time.Time {
	return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestOrchestrator_WidgetEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := testsupport.WriteFile(t, dir, "lab.yaml", `
entities:
  - name: Widget
    attributes:
      - name: Count
        type: Integer
`)
	out := filepath.Join(dir, "out")

	orch := orchestrator.New(orchestrator.WithLoader(isolatedLoader()))
	report, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Kind:       artifact.KindEntity,
		ConfigPath: cfg,
		OutputRoot: out,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !report.OK() {
		t.Fatalf("unexpected failures: %v", report.Failures)
	}
	if report.Origin != config.OriginRequested {
		t.Fatalf("origin = %q, want requested", report.Origin)
	}

	got := testsupport.ReadFile(t, filepath.Join(out, "domain-model", "Widget.xml"))
	want := testsupport.MustReadGoldenString(t, filepath.Join("..", "generator", "testdata", "widget_entity.xml"))
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("Widget.xml mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_MalformedRecordDoesNotStopBatch(t *testing.T) {
	dir := t.TempDir()
	cfg := testsupport.WriteFile(t, dir, "lab.yaml", `
enumerations:
  - name: First
    values: [{name: A}]
  - just a string
  - name: Third
    values: [{name: C}]
`)
	logger, logs := testsupport.ObservedLogger(zapcore.ErrorLevel)

	orch := orchestrator.New(
		orchestrator.WithLoader(isolatedLoader()),
		orchestrator.WithLogger(logger),
	)
	report, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Kind:       artifact.KindEnumeration,
		ConfigPath: cfg,
		OutputRoot: dir,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if report.Records != 3 || len(report.Written) != 2 || len(report.Failures) != 1 {
		t.Fatalf("records=%d written=%d failures=%d", report.Records, len(report.Written), len(report.Failures))
	}
	if report.OK() {
		t.Fatalf("report should not be OK")
	}
	var recordErr *generator.RecordError
	if !errors.As(report.Failures[0], &recordErr) || recordErr.Index != 1 {
		t.Fatalf("expected RecordError for entry 1, got %v", report.Failures[0])
	}
	files := testsupport.ListFiles(t, filepath.Join(dir, "enumerations"), ".xml")
	if len(files) != 2 {
		t.Fatalf("expected 2 files on disk, got %v", files)
	}
	if logs.FilterMessage("skipping record").Len() != 1 {
		t.Fatalf("expected one skipping record log")
	}
}

func TestOrchestrator_DuplicateNamesFail(t *testing.T) {
	dir := t.TempDir()
	cfg := testsupport.WriteFile(t, dir, "lab.yaml", `
pages:
  - name: Home
  - name: Home
    title: second
`)

	report, err := orchestrator.New(orchestrator.WithLoader(isolatedLoader())).Generate(testsupport.Context(), orchestrator.Request{
		Kind:       artifact.KindPage,
		ConfigPath: cfg,
		OutputRoot: dir,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(report.Written) != 1 || len(report.Failures) != 1 {
		t.Fatalf("written=%v failures=%v", report.Written, report.Failures)
	}
	if report.Failures[0].Name != "Home" || report.Failures[0].Index != 1 {
		t.Fatalf("unexpected failure %+v", report.Failures[0])
	}
}

func TestOrchestrator_DuplicateNamesIgnoreCase(t *testing.T) {
	dir := t.TempDir()
	cfg := testsupport.WriteFile(t, dir, "lab.yaml", `
entities:
  - name: Widget
  - name: widget
`)

	report, err := orchestrator.New(orchestrator.WithLoader(isolatedLoader())).Generate(testsupport.Context(), orchestrator.Request{
		Kind:       artifact.KindEntity,
		ConfigPath: cfg,
		OutputRoot: dir,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(report.Written) != 1 || len(report.Failures) != 1 {
		t.Fatalf("written=%v failures=%v", report.Written, report.Failures)
	}
	if report.Failures[0].Name != "widget" || report.Failures[0].Index != 1 {
		t.Fatalf("unexpected failure %+v", report.Failures[0])
	}
}

func TestOrchestrator_MissingKeyIsEmptySuccess(t *testing.T) {
	dir := t.TempDir()
	cfg := testsupport.WriteFile(t, dir, "lab.yaml", "entities: []\n")
	logger, logs := testsupport.ObservedLogger(zapcore.WarnLevel)

	orch := orchestrator.New(orchestrator.WithLoader(isolatedLoader()), orchestrator.WithLogger(logger))
	report, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Kind:       artifact.KindWorkflow,
		ConfigPath: cfg,
		OutputRoot: dir,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !report.OK() || len(report.Written) != 0 {
		t.Fatalf("expected empty success, got %+v", report)
	}
	if logs.FilterMessage("configuration has no entries for kind").Len() != 1 {
		t.Fatalf("expected a warning about the missing key")
	}
}

func TestOrchestrator_NonListKeyIsConfigurationError(t *testing.T) {
	dir := t.TempDir()
	cfg := testsupport.WriteFile(t, dir, "lab.yaml", "microflows: nope\n")

	_, err := orchestrator.New(orchestrator.WithLoader(isolatedLoader())).Generate(testsupport.Context(), orchestrator.Request{
		Kind:       artifact.KindMicroflow,
		ConfigPath: cfg,
		OutputRoot: dir,
	})
	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *config.Error, got %v", err)
	}
}

func TestOrchestrator_StrictConfigMissing(t *testing.T) {
	dir := t.TempDir()
	orch := orchestrator.New(
		orchestrator.WithLoader(isolatedLoader()),
		orchestrator.WithStrictConfig(true),
	)

	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Kind:       artifact.KindEntity,
		ConfigPath: filepath.Join(dir, "absent.yaml"),
		OutputRoot: dir,
	})
	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *config.Error, got %v", err)
	}
}

func TestOrchestrator_GenerateAllFromDefaults(t *testing.T) {
	out := t.TempDir()
	orch := orchestrator.New(
		orchestrator.WithLoader(isolatedLoader()),
		orchestrator.WithSummary(true),
		orchestrator.WithClock(fixedClock),
	)

	reports, err := orch.GenerateAll(testsupport.Context(), "", out)
	if err != nil {
		t.Fatalf("generate all: %v", err)
	}
	if len(reports) != len(artifact.Kinds()) {
		t.Fatalf("expected %d reports, got %d", len(artifact.Kinds()), len(reports))
	}

	for _, report := range reports {
		spec := artifact.MustLookup(report.Kind)
		if !report.OK() {
			t.Fatalf("%s: unexpected failures %v", report.Kind, report.Failures)
		}
		if report.Origin != config.OriginDefault {
			t.Fatalf("%s: origin = %q, want default", report.Kind, report.Origin)
		}

		doc, err := config.LoadDefault(config.Defaults(), report.Kind)
		if err != nil {
			t.Fatalf("load default %s: %v", report.Kind, err)
		}
		entries, _ := doc.Entries(spec.ConfigKey)
		files := testsupport.ListFiles(t, filepath.Join(out, spec.Dir), ".xml")
		if len(files) != len(entries) || len(report.Written) != len(entries) {
			t.Fatalf("%s: %d entries, %d files, %d written", report.Kind, len(entries), len(files), len(report.Written))
		}
		if want := filepath.Join(out, spec.Dir, spec.SummaryFile); report.SummaryPath != want {
			t.Fatalf("%s: summary path = %q, want %q", report.Kind, report.SummaryPath, want)
		}
	}
}

func TestOrchestrator_SelectedKindsOnly(t *testing.T) {
	out := t.TempDir()
	orch := orchestrator.New(orchestrator.WithLoader(isolatedLoader()))

	reports, err := orch.GenerateAll(testsupport.Context(), "", out, artifact.KindSecurityRole)
	if err != nil {
		t.Fatalf("generate all: %v", err)
	}
	if len(reports) != 1 || reports[0].Kind != artifact.KindSecurityRole {
		t.Fatalf("unexpected reports %+v", reports)
	}
	if reports[0].SummaryPath != "" {
		t.Fatalf("summary written without WithSummary")
	}
}

func TestOrchestrator_UnknownKind(t *testing.T) {
	_, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{Kind: "bogus"})
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
