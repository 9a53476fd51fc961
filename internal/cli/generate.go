package cli

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/mazebatch/internal/batch"
	"github.com/samdwyer/mazebatch/internal/config"
	"github.com/samdwyer/mazebatch/internal/maze"
	"github.com/samdwyer/mazebatch/internal/mazeapi"
	"github.com/samdwyer/mazebatch/internal/output"
	"github.com/samdwyer/mazebatch/internal/seed"
	"github.com/samdwyer/mazebatch/internal/telemetry"
)

// batchFlags mirror the config fields that can be overridden per run.
type batchFlags struct {
	width, height int
	count         int
	policy        string
	offset        int64
	seedMax       int64
	flatten       bool
	imperfect     bool
	outDir        string
	name          string
	generator     string
	generatorURL  string
	timeout       time.Duration

	sweepMin, sweepMax int
	keepGoing          bool
}

func (f *batchFlags) register(cmd *cobra.Command, single, sweep bool) {
	fs := cmd.Flags()
	if single {
		fs.IntVar(&f.width, "width", 0, "maze width in cells")
		fs.IntVar(&f.height, "height", 0, "maze height in cells")
		fs.StringVar(&f.name, "name", "", "output file name for a single batch")
	}
	if sweep {
		fs.IntVar(&f.sweepMin, "min-size", 0, "smallest sweep size")
		fs.IntVar(&f.sweepMax, "max-size", 0, "largest sweep size (inclusive)")
		fs.BoolVar(&f.keepGoing, "keep-going", false, "continue the sweep after a failed size")
	}
	fs.IntVarP(&f.count, "count", "n", 0, "mazes per batch")
	fs.StringVar(&f.policy, "policy", "", "seed policy: sequential, offset, spread")
	fs.Int64Var(&f.offset, "offset", 0, "seed offset for the offset policy")
	fs.Int64Var(&f.seedMax, "seed-max", 0, "largest seed for the spread policy")
	fs.BoolVar(&f.flatten, "flatten", false, "store each maze as a flat row-major cell array")
	fs.BoolVar(&f.imperfect, "imperfect", false, "request mazes with loops")
	fs.StringVarP(&f.outDir, "out", "o", "", "output directory")
	fs.StringVar(&f.generator, "generator", "", "maze service: local or http")
	fs.StringVar(&f.generatorURL, "generator-url", "", "base URL of the http maze service")
	fs.DurationVar(&f.timeout, "timeout", 0, "http maze service timeout")
}

// apply copies every flag the user set onto cfg.
func (f *batchFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("width") {
		cfg.Maze.Width = f.width
	}
	if changed("height") {
		cfg.Maze.Height = f.height
	}
	if changed("name") {
		cfg.Output.Name = f.name
	}
	if changed("min-size") {
		cfg.Sweep.Min = f.sweepMin
	}
	if changed("max-size") {
		cfg.Sweep.Max = f.sweepMax
	}
	if changed("keep-going") {
		cfg.Sweep.KeepGoing = f.keepGoing
	}
	if changed("count") {
		cfg.Count = f.count
	}
	if changed("policy") {
		cfg.Seed.Policy = f.policy
	}
	if changed("offset") {
		cfg.Seed.Offset = f.offset
	}
	if changed("seed-max") {
		cfg.Seed.Max = f.seedMax
	}
	if changed("flatten") {
		cfg.Maze.Flatten = f.flatten
	}
	if changed("imperfect") {
		cfg.Maze.Perfect = !f.imperfect
	}
	if changed("out") {
		cfg.Output.Dir = f.outDir
	}
	if changed("generator") {
		cfg.Generator.Kind = f.generator
	}
	if changed("generator-url") {
		cfg.Generator.URL = f.generatorURL
	}
	if changed("timeout") {
		cfg.Generator.Timeout = f.timeout
	}
}

type mode int

const (
	modeFromConfig mode = iota
	modeSingle
	modeSweep
)

func newRunCmd(opts *globalOptions) *cobra.Command {
	flags := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single batch or a sweep, as the configuration says",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatches(cmd, opts, flags, modeFromConfig)
		},
	}
	flags.register(cmd, true, true)
	return cmd
}

func newGenerateCmd(opts *globalOptions) *cobra.Command {
	flags := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one batch of mazes into a single JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatches(cmd, opts, flags, modeSingle)
		},
	}
	flags.register(cmd, true, false)
	return cmd
}

func newSweepCmd(opts *globalOptions) *cobra.Command {
	flags := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Generate one batch per square size and write mazes_<size>.json for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatches(cmd, opts, flags, modeSweep)
		},
	}
	flags.register(cmd, false, true)
	return cmd
}

func runBatches(cmd *cobra.Command, opts *globalOptions, flags *batchFlags, m mode) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	flags.apply(cmd, &cfg)
	switch m {
	case modeSingle:
		cfg.Sweep.Enabled = false
	case modeSweep:
		cfg.Sweep.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, logger := opts.logger(cmd, cfg.Log.Level)
	ctx, span := telemetry.Tracer("cli").Start(ctx, "mazebatch."+cmd.Name())
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", opts.runID),
		attribute.String("generator.kind", cfg.Generator.Kind),
	)

	policy, err := cfg.SeedPolicy()
	if err != nil {
		return err
	}
	writer, err := output.NewWriter(cfg.Output.Dir)
	if err != nil {
		return err
	}
	gen := &batch.Generator{
		Service: newService(cfg, logger),
		Flatten: cfg.Maze.Flatten,
		Perfect: cfg.Maze.Perfect,
	}

	if cfg.Sweep.Enabled {
		return runSweep(ctx, cmd, cfg, gen, writer, policy)
	}
	return runSingle(ctx, cmd, cfg, gen, writer, policy)
}

func runSingle(ctx context.Context, cmd *cobra.Command, cfg config.Config, gen *batch.Generator, w *output.Writer, policy seed.Policy) error {
	b, err := gen.Generate(ctx, batch.Request{
		Width:  cfg.Maze.Width,
		Height: cfg.Maze.Height,
		Count:  cfg.Count,
		Policy: policy,
	})
	if err != nil {
		return err
	}
	path, err := w.Write(ctx, cfg.Output.Name, b)
	if err != nil {
		return err
	}
	printf(cmd, "%s\n", path)
	return nil
}

func runSweep(ctx context.Context, cmd *cobra.Command, cfg config.Config, gen *batch.Generator, w *output.Writer, policy seed.Policy) error {
	sink := batch.SinkFunc(func(ctx context.Context, size int, b *batch.Batch) error {
		path, err := w.Write(ctx, output.FileName(size), b)
		if err != nil {
			return err
		}
		printf(cmd, "%s\n", path)
		return nil
	})
	return gen.Sweep(ctx, batch.SweepRequest{
		MinSize:   cfg.Sweep.Min,
		MaxSize:   cfg.Sweep.Max,
		Count:     cfg.Count,
		Policy:    policy,
		KeepGoing: cfg.Sweep.KeepGoing,
	}, sink)
}

// newService returns the configured maze backend.
func newService(cfg config.Config, logger zerolog.Logger) maze.Service {
	if cfg.Generator.Kind == config.GeneratorHTTP {
		logger.Debug().Str("url", cfg.Generator.URL).Msg("using http maze service")
		return mazeapi.NewClient(cfg.Generator.URL, cfg.Generator.Timeout)
	}
	return maze.NewCarver()
}

// NewRunID returns a fresh identifier for one process run.
func NewRunID() string {
	return uuid.NewString()
}
