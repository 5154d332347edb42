package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/orchestrator"
	"github.com/goliatone/go-lowcodegen/pkg/watch"
)

type generateFlags struct {
	summary  bool
	verbose  bool
	strict   bool
	watch    bool
	platform string
}

func newGenerateCommand(a *app) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate [kind...]",
		Short: "Generate XML artifacts for every kind, or only the kinds given",
		Long: "Kinds may be named by kind (entity), configuration key (entities) or output directory (domain-model): " +
			strings.Join(kindNames(), ", "),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(args)
			if err != nil {
				return err
			}
			return a.generate(cmd.Context(), flags, kinds)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.summary, "summary", false, "write a summary document per kind")
	f.BoolVar(&flags.verbose, "verbose-docs", false, "add explanatory comments to generated XML")
	f.BoolVar(&flags.strict, "strict-config", false, "fail when the configuration file is missing instead of falling back")
	f.BoolVar(&flags.watch, "watch", false, "regenerate whenever the configuration file changes")
	f.StringVar(&flags.platform, "platform", "", "target platform named in documentation")
	return cmd
}

func (a *app) generate(ctx context.Context, flags generateFlags, kinds []artifact.Kind) error {
	opts := []orchestrator.Option{
		orchestrator.WithLogger(a.logger),
		orchestrator.WithSummary(flags.summary),
		orchestrator.WithVerbose(flags.verbose),
		orchestrator.WithStrictConfig(flags.strict),
	}
	if platform := a.platform(flags.platform); platform != "" {
		opts = append(opts, orchestrator.WithPlatform(platform))
	}
	orch := orchestrator.New(opts...)

	run := func(ctx context.Context) error {
		reports, err := orch.GenerateAll(ctx, a.configPath, a.outputRoot, kinds...)
		failed := 0
		for _, report := range reports {
			fmt.Fprintf(a.stdout, "%-14s %3d written  %d failed  -> %s\n",
				report.Kind, len(report.Written), len(report.Failures), report.Dir)
			for _, failure := range report.Failures {
				fmt.Fprintf(a.stdout, "  ! %v\n", failure)
			}
			if report.SummaryPath != "" {
				fmt.Fprintf(a.stdout, "  summary: %s\n", report.SummaryPath)
			}
			failed += len(report.Failures)
		}
		if err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("generate: %d record(s) failed", failed)
		}
		return nil
	}

	if !flags.watch {
		return run(ctx)
	}

	if err := run(ctx); err != nil {
		a.logger.Error("initial generation failed", zap.Error(err))
	}
	w, err := watch.New(a.configPath, watch.WithLogger(a.logger.Named("watch")))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "watching %s (Ctrl+C to stop)\n", w.Path())
	return w.Run(ctx, run)
}

func parseKinds(args []string) ([]artifact.Kind, error) {
	kinds := make([]artifact.Kind, 0, len(args))
	for _, arg := range args {
		kind, err := artifact.ParseKind(arg)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func kindNames() []string {
	names := make([]string, 0, len(artifact.Kinds()))
	for _, kind := range artifact.Kinds() {
		names = append(names, kind.String())
	}
	return names
}
