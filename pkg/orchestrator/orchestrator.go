package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-lowcodegen/internal/config/loader"
	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
	"github.com/goliatone/go-lowcodegen/pkg/emitter"
	"github.com/goliatone/go-lowcodegen/pkg/generator"
	"github.com/goliatone/go-lowcodegen/pkg/render"
	"github.com/goliatone/go-lowcodegen/pkg/summary"
)

// DefaultOutputRoot is used when a request omits OutputRoot.
const DefaultOutputRoot = "output"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom configuration loader.
func WithLoader(loader config.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a builder registry.
func WithRegistry(registry *generator.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithEmitter injects the file emitter.
func WithEmitter(e *emitter.Emitter) Option {
	return func(o *Orchestrator) {
		o.emitter = e
	}
}

// WithSummaryEngine injects the engine used for summary documents.
func WithSummaryEngine(engine *summary.Engine) Option {
	return func(o *Orchestrator) {
		o.summaries = engine
	}
}

// WithLogger injects the logger shared by the default collaborators.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithVerbose adds explanatory comments and the platform note to every
// generated document.
func WithVerbose(verbose bool) Option {
	return func(o *Orchestrator) {
		o.verbose = verbose
	}
}

// WithSummary toggles the per-kind summary document.
func WithSummary(enabled bool) Option {
	return func(o *Orchestrator) {
		o.summary = enabled
	}
}

// WithStrictConfig turns a missing requested configuration file into an error
// instead of walking the fallback chain.
func WithStrictConfig(strict bool) Option {
	return func(o *Orchestrator) {
		o.strict = strict
	}
}

// WithPlatform overrides the platform named in documentation and summaries.
func WithPlatform(platform string) Option {
	return func(o *Orchestrator) {
		o.platform = platform
	}
}

// WithClock injects the time source used by the default summary engine.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// Orchestrator coordinates the pipeline from configuration document to files
// on disk. Missing collaborators are initialised with the built-in
// implementations so callers can start with a single constructor call.
type Orchestrator struct {
	loader    config.Loader
	registry  *generator.Registry
	emitter   *emitter.Emitter
	summaries *summary.Engine
	logger    *zap.Logger
	clock     func() time.Time
	platform  string
	verbose   bool
	summary   bool
	strict    bool

	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:   zap.NewNop(),
		platform: generator.DefaultPlatform,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request selects one kind and where its configuration and output live.
type Request struct {
	Kind artifact.Kind

	// ConfigPath is the requested configuration file. Empty walks the
	// alternatives and then the embedded defaults.
	ConfigPath string

	// OutputRoot is the directory holding one subdirectory per kind.
	OutputRoot string
}

// Failure records one record, file or summary that did not make it to disk.
type Failure struct {
	Name  string
	Index int
	Err   error
}

func (f Failure) Error() string {
	if f.Name == "" {
		return fmt.Sprintf("entry %d: %v", f.Index, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report summarises one Generate call.
type Report struct {
	Kind        artifact.Kind
	Source      string
	Origin      config.Origin
	Dir         string
	Records     int
	Written     []string
	Failures    []Failure
	SummaryPath string
}

// OK reports whether every record was generated and written.
func (r Report) OK() bool {
	return len(r.Failures) == 0
}

// Generate executes the load → build → serialize → emit sequence for one kind.
// A configuration that cannot be loaded or an output directory that cannot be
// created aborts the call; problems with individual records are collected in
// Report.Failures while the rest of the batch continues.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Report, error) {
	if ctx == nil {
		return Report{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Report{}, err
	}

	spec, ok := artifact.Lookup(req.Kind)
	if !ok {
		return Report{}, fmt.Errorf("orchestrator: unknown kind %q", req.Kind)
	}
	builder, err := o.registry.Get(req.Kind)
	if err != nil {
		return Report{}, fmt.Errorf("orchestrator: %w", err)
	}

	root := req.OutputRoot
	if root == "" {
		root = DefaultOutputRoot
	}
	report := Report{Kind: req.Kind, Dir: filepath.Join(root, spec.Dir)}

	doc, err := o.loader.Load(ctx, config.Request{Kind: req.Kind, Path: req.ConfigPath, Strict: o.strict})
	if err != nil {
		return report, err
	}
	report.Source = doc.Location()
	report.Origin = doc.Origin
	logger := o.logger.With(zap.String("kind", string(req.Kind)), zap.String("source", report.Source))

	raw, present := doc.Root.Get(spec.ConfigKey)
	if !present || raw == nil {
		logger.Warn("configuration has no entries for kind", zap.String("key", spec.ConfigKey))
		return report, nil
	}
	items, isList := raw.([]any)
	if !isList {
		return report, &config.Error{
			Path: report.Source,
			Err:  fmt.Errorf("%s must be a list", spec.ConfigKey),
		}
	}
	report.Records = len(items)

	docs, entries := o.buildAll(logger, builder, items, &report)

	result, err := o.emitter.Emit(ctx, report.Dir, docs)
	if err != nil {
		return report, err
	}
	report.Written = result.Written
	for _, failure := range result.Failures {
		report.Failures = append(report.Failures, Failure{Name: failure.Name, Index: -1, Err: failure})
	}

	if o.summary {
		o.writeSummary(logger, req.Kind, spec, entries, &report)
	}

	logger.Info("generation finished",
		zap.String("dir", report.Dir),
		zap.Int("records", report.Records),
		zap.Int("written", len(report.Written)),
		zap.Int("failed", len(report.Failures)),
	)
	return report, nil
}

func (o *Orchestrator) buildAll(logger *zap.Logger, builder generator.Builder, items []any, report *Report) ([]emitter.Document, []artifact.Entry) {
	opts := generator.Options{Verbose: o.verbose, Platform: o.platform}
	docs := make([]emitter.Document, 0, len(items))
	entries := make([]artifact.Entry, 0, len(items))
	seen := make(map[string]int, len(items))

	fail := func(name string, index int, err error) {
		logger.Error("skipping record", zap.Int("index", index), zap.String("name", name), zap.Error(err))
		report.Failures = append(report.Failures, Failure{Name: name, Index: index, Err: err})
	}

	for i, item := range items {
		record, err := generator.Entry(builder.Kind(), item, i)
		if err != nil {
			fail("", i, err)
			continue
		}
		node, err := builder.Build(record, opts)
		if err != nil {
			fail(record.String("name", ""), i, err)
			continue
		}
		name, _ := node.Attr("name")
		// Names differing only in case share a file on case-insensitive
		// filesystems.
		key := strings.ToLower(name)
		if first, dup := seen[key]; dup {
			fail(name, i, &generator.RecordError{
				Kind:   builder.Kind(),
				Name:   name,
				Index:  i,
				Reason: fmt.Sprintf("duplicate name, already generated from entry %d", first),
			})
			continue
		}
		content, err := render.XML(node)
		if err != nil {
			fail(name, i, err)
			continue
		}

		seen[key] = i
		docs = append(docs, emitter.Document{Name: name, Content: content})
		entries = append(entries, builder.Describe(record))
		logger.Debug("built record", zap.String("name", name))
	}
	return docs, entries
}

func (o *Orchestrator) writeSummary(logger *zap.Logger, kind artifact.Kind, spec artifact.Spec, entries []artifact.Entry, report *Report) {
	content, err := o.summaries.Summarize(kind, entries)
	if err == nil {
		report.SummaryPath, err = o.emitter.WriteSummary(report.Dir, spec.SummaryFile, content)
	}
	if err != nil {
		logger.Error("summary failed", zap.String("file", spec.SummaryFile), zap.Error(err))
		report.Failures = append(report.Failures, Failure{Name: spec.SummaryFile, Index: -1, Err: err})
	}
}

// GenerateAll runs Generate for each kind in generation order (every kind when
// none are given). It stops at the first fatal error and returns the reports
// gathered so far.
func (o *Orchestrator) GenerateAll(ctx context.Context, configPath, outputRoot string, kinds ...artifact.Kind) ([]Report, error) {
	if len(kinds) == 0 {
		kinds = o.registry.List()
	}
	reports := make([]Report, 0, len(kinds))
	for _, kind := range kinds {
		report, err := o.Generate(ctx, Request{Kind: kind, ConfigPath: configPath, OutputRoot: outputRoot})
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.loader == nil {
		o.loader = internalLoader.New(config.NewLoaderOptions(config.WithLogger(o.logger)))
	}
	if o.registry == nil {
		o.registry = generator.Default()
	}
	if o.emitter == nil {
		o.emitter = emitter.New(emitter.WithLogger(o.logger.Named("emitter")))
	}
	if o.summaries == nil {
		engine, err := summary.New(summary.WithClock(o.clock), summary.WithPlatform(o.platform))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: summary engine: %w", err)
		}
		o.summaries = engine
	}

	o.defaultsApplied = true
}
