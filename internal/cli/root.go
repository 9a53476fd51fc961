// Package cli implements the mazebatch command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/samdwyer/mazebatch/internal/config"
	"github.com/samdwyer/mazebatch/internal/logging"
	"github.com/samdwyer/mazebatch/internal/presets"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	preset     string
	logLevel   string
	debug      bool
	runID      string
}

// Execute runs the command tree with args and returns the first error.
func Execute(ctx context.Context, runID string, args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCmd(runID)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

// NewRootCmd builds the root command. runID tags every log line of the run.
func NewRootCmd(runID string) *cobra.Command {
	opts := &globalOptions{runID: runID}

	cmd := &cobra.Command{
		Use:           "mazebatch",
		Short:         "Generate reproducible batches of mazes as JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.preset, "preset", "", "start from an embedded preset (see 'mazebatch presets')")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "shorthand for --log-level debug")

	cmd.AddCommand(
		newRunCmd(opts),
		newGenerateCmd(opts),
		newSweepCmd(opts),
		newServeCmd(opts),
		newPreviewCmd(opts),
		newVerifyCmd(opts),
		newPresetsCmd(),
	)
	return cmd
}

// loadConfig resolves preset, file, and environment into a configuration.
// Flag overrides are applied by the caller before validation.
func (o *globalOptions) loadConfig() (config.Config, error) {
	base := config.Default()
	if o.preset != "" {
		p, err := presets.Get(o.preset)
		if err != nil {
			return base, err
		}
		base = p
	}
	cfg, err := config.LoadFrom(base, o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.ValidateLog(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// logger builds the run logger and stores it in the command context.
func (o *globalOptions) logger(cmd *cobra.Command, level string) (context.Context, zerolog.Logger) {
	logger := logging.New(level, cmd.ErrOrStderr()).
		With().
		Str("run_id", o.runID).
		Logger()
	logger = logging.Component(logger, cmd.Name())
	return logger.WithContext(cmd.Context()), logger
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
