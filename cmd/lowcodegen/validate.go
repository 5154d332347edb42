package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-lowcodegen/pkg/validator"
)

func newValidateCommand(a *app) *cobra.Command {
	var (
		comprehensive bool
		rulesPath     string
		report        bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the generated output tree for structure, required artifacts and compatibility issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []validator.Option{validator.WithLogger(a.logger.Named("validator"))}
			if p := a.platform(""); p != "" {
				opts = append(opts, validator.WithPlatform(p))
			}
			if rulesPath == "" {
				rulesPath = a.settings.RulesPath
			}
			if rulesPath != "" {
				rules, err := validator.LoadRules(rulesPath)
				if err != nil {
					return err
				}
				opts = append(opts, validator.WithRules(rules))
			}
			v, err := validator.New(opts...)
			if err != nil {
				return err
			}

			req := validator.Request{Root: a.outputRoot, Comprehensive: comprehensive}
			if a.configExplicit {
				req.ConfigPath = a.configPath
			}
			result, err := v.Validate(cmd.Context(), req)
			if err != nil {
				return err
			}

			if report || a.debug {
				if err := v.WriteReport(filepath.Join(a.outputRoot, validator.ReportFile), result); err != nil {
					return err
				}
			}

			if result.Passed() {
				fmt.Fprintf(a.stdout, "validation passed: %d files checked\n", result.Checked)
				return nil
			}
			for _, issue := range result.Issues {
				fmt.Fprintf(a.stdout, "[%s] %s\n", issue.Category, issue)
			}
			return fmt.Errorf("validate: %d issue(s) found", result.Total())
		},
	}

	f := cmd.Flags()
	f.BoolVar(&comprehensive, "comprehensive", false, "also run the compatibility checks")
	f.StringVar(&rulesPath, "rules", "", "YAML rule set replacing the built-in rules (env LOWCODEGEN_RULES)")
	f.BoolVar(&report, "report", false, "write "+validator.ReportFile+" at the output root (implied by --debug/--verbose)")
	return cmd
}
