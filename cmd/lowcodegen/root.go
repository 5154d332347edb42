package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-lowcodegen/internal/logging"
	"github.com/goliatone/go-lowcodegen/internal/settings"
)

// app holds the state shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	outputRoot string
	envFile    string
	debug      bool

	// configExplicit is set when the configuration path came from a flag or
	// the environment rather than the built-in default.
	configExplicit bool
	settings       settings.Settings
	logger         *zap.Logger
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "lowcodegen",
		Short:         "Generate, package and validate low-code platform artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", settings.DefaultConfigPath, "configuration file (env "+settings.EnvConfig+")")
	flags.StringVarP(&a.outputRoot, "output", "o", settings.DefaultOutputRoot, "output root directory (env "+settings.EnvOutput+")")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging (env "+settings.EnvDebug+")")
	flags.BoolVar(&a.debug, "verbose", false, "alias for --debug")
	flags.StringVar(&a.envFile, "env-file", "", "dotenv file with defaults (default .env when present)")

	root.AddCommand(
		newGenerateCommand(a),
		newPackageCommand(a),
		newValidateCommand(a),
	)

	return root
}

// init resolves flag values that were not set explicitly from the environment
// and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	resolved, err := settings.Load(a.envFile)
	if err != nil {
		return err
	}
	a.settings = resolved

	flags := cmd.Flags()
	a.configExplicit = flags.Changed("config") || resolved.ConfigPath != settings.DefaultConfigPath
	if !flags.Changed("config") {
		a.configPath = resolved.ConfigPath
	}
	if !flags.Changed("output") {
		a.outputRoot = resolved.OutputRoot
	}
	if !flags.Changed("debug") && !flags.Changed("verbose") {
		a.debug = resolved.Debug
	}

	a.logger = logging.New(logging.Options{Debug: a.debug, Output: a.stderr})
	a.logger.Debug("settings resolved",
		zap.String("config", a.configPath),
		zap.String("output", a.outputRoot),
		zap.Bool("configExplicit", a.configExplicit),
	)
	return nil
}

// platform returns the flag value when set, otherwise the environment value.
func (a *app) platform(flag string) string {
	if flag != "" {
		return flag
	}
	return a.settings.Platform
}
