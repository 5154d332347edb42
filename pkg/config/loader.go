package config

import (
	"context"
	"io/fs"

	"go.uber.org/zap"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
)

// Request describes one configuration lookup.
type Request struct {
	// Kind selects the alternative candidates and the embedded default.
	Kind artifact.Kind
	// Path is the requested configuration file. Empty skips straight to the
	// alternatives.
	Path string
	// Strict turns a missing requested file into an error instead of walking
	// the fallback chain.
	Strict bool
}

// Loader resolves configuration documents through the fallback chain:
// requested path, alternative candidates, embedded default. Implementations
// live under internal/config but satisfy this contract.
type Loader interface {
	Load(ctx context.Context, req Request) (Document, error)
}

// LoaderOptions configures how a Loader resolves documents.
type LoaderOptions struct {
	// Alternatives overrides the candidate paths tried per kind when the
	// requested path does not exist.
	Alternatives map[artifact.Kind][]string

	// Defaults holds the embedded default documents, one file per kind named
	// after its configuration key. Nil means the package defaults.
	Defaults fs.FS

	// Logger receives fallback diagnostics. Nil means a no-op logger.
	Logger *zap.Logger
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithAlternatives replaces the candidate paths for kind, leaving other kinds
// untouched. No paths disables alternatives for that kind.
func WithAlternatives(kind artifact.Kind, paths ...string) LoaderOption {
	return func(opts *LoaderOptions) {
		if opts.Alternatives == nil {
			opts.Alternatives = make(map[artifact.Kind][]string)
		}
		opts.Alternatives[kind] = append([]string{}, paths...)
	}
}

// WithoutAlternatives disables the alternative candidates for every kind.
func WithoutAlternatives() LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Alternatives = make(map[artifact.Kind][]string, len(artifact.Kinds()))
		for _, kind := range artifact.Kinds() {
			opts.Alternatives[kind] = []string{}
		}
	}
}

// WithDefaults injects an alternative set of embedded defaults.
func WithDefaults(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Defaults = files
	}
}

// WithLogger injects the logger used for fallback diagnostics.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Logger = logger
	}
}

// NewLoaderOptions applies a set of LoaderOption values and fills in defaults.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{Alternatives: DefaultAlternatives()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Defaults == nil {
		cfg.Defaults = Defaults()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// DefaultAlternatives returns the stock candidate paths for every kind.
func DefaultAlternatives() map[artifact.Kind][]string {
	out := make(map[artifact.Kind][]string, len(artifact.Kinds()))
	for _, kind := range artifact.Kinds() {
		second := "config/domain-model-config.yaml"
		if kind == artifact.KindWorkflow {
			second = "config/workflow-config.yaml"
		}
		out[kind] = []string{
			"config/lab-workflow-config.yaml",
			second,
			"../config/lab-workflow-config.yaml",
		}
	}
	return out
}

// Construction helpers live in the top-level lowcodegen package to prevent
// import cycles.
