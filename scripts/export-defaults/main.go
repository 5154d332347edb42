package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	lowcodegen "github.com/goliatone/go-lowcodegen"
)

func main() {
	outputPath := flag.String("output", "config/lab-workflow-config.yaml", "where to write the merged default configuration")
	force := flag.Bool("force", false, "overwrite an existing file")
	flag.Parse()

	if _, err := os.Stat(*outputPath); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "%s already exists (use -force to overwrite)\n", *outputPath)
		os.Exit(1)
	}

	data, err := lowcodegen.DefaultConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to merge defaults: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Wrote default configuration (%d bytes) → %s\n", len(data), *outputPath)
}
