package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-lowcodegen/internal/prompt"
	"github.com/goliatone/go-lowcodegen/pkg/packager"
)

func newPackageCommand(a *app) *cobra.Command {
	var (
		filename string
		confirm  bool
		platform string
	)

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Bundle the generated output tree into an importable archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []packager.Option{packager.WithLogger(a.logger.Named("packager"))}
			if p := a.platform(platform); p != "" {
				opts = append(opts, packager.WithPlatform(p))
			}
			if confirm {
				opts = append(opts, packager.WithConfirm(prompt.Overwrite(prompt.Survey())))
			}
			pkg, err := packager.New(opts...)
			if err != nil {
				return err
			}

			result, err := pkg.Build(cmd.Context(), packager.Request{Root: a.outputRoot, Filename: filename})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "package created: %s (%d bytes, %d XML files, %d entries)\n",
				result.Path, result.Size, result.Total, len(result.Entries))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&filename, "filename", "", "archive file name under the output root (default <Name>_v<Version>.mpk)")
	f.BoolVar(&confirm, "confirm", false, "ask before replacing an existing archive")
	f.StringVar(&platform, "platform", "", "target platform named in the installation guide")
	return cmd
}
