package lowcodegen

import (
	"context"

	internalLoader "github.com/goliatone/go-lowcodegen/internal/config/loader"
	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
	"github.com/goliatone/go-lowcodegen/pkg/orchestrator"
)

// Report aliases orchestrator.Report for callers that only import the root
// package.
type Report = orchestrator.Report

// NewLoader constructs a configuration loader using the internal
// implementation while keeping the concrete type hidden from consumers.
func NewLoader(options ...config.LoaderOption) config.Loader {
	return internalLoader.New(config.NewLoaderOptions(options...))
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate loads configPath, builds every requested kind (all kinds when none
// are given) and writes the XML files under outputRoot. It is the simplest
// entry point for callers that just want the output tree.
func Generate(ctx context.Context, configPath, outputRoot string, kinds []artifact.Kind, options ...orchestrator.Option) ([]Report, error) {
	return orchestrator.New(options...).GenerateAll(ctx, configPath, outputRoot, kinds...)
}
