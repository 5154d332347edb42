package main

import (
	"context"
	"fmt"
	"os"

	lowcodegen "github.com/goliatone/go-lowcodegen"
	"github.com/goliatone/go-lowcodegen/pkg/orchestrator"
)

func main() {
	ctx := context.Background()

	const (
		configPath = "config/lab-workflow-config.yaml"
		outputRoot = "output"
	)

	reports, err := lowcodegen.Generate(ctx, configPath, outputRoot, nil, orchestrator.WithSummary(true))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate artifacts: %v\n", err)
		os.Exit(1)
	}

	written, failed := 0, 0
	for _, report := range reports {
		written += len(report.Written)
		failed += len(report.Failures)
		for _, failure := range report.Failures {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", report.Kind, failure)
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "Failed to generate %d record(s)\n", failed)
		os.Exit(1)
	}

	fmt.Printf("✓ Generated %d artifacts across %d kinds → %s\n", written, len(reports), outputRoot)
}
