package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mircut/mircut/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output  string // output file path (stdout if empty)
	noCache bool   // disable the result cache
	refresh bool   // bypass the cache read, still write back

	skipTableau     bool
	skipFormulation bool
	skipMIR         bool
	skipTwoStep     bool

	tMin, tMax      int
	qMin, qMax      int
	aMax            int
	depth, pass     int
	formulationRows int
	seed            uint64
}

// pipelineOptions converts the flags into pipeline options, layering
// config-file defaults under explicit flags.
func (o *generateOpts) pipelineOptions(cfg *pipeline.Config, problem, state string) pipeline.Options {
	opts := pipeline.Options{
		ProblemMPS:      problem,
		StateJSON:       state,
		SkipTableau:     o.skipTableau,
		SkipFormulation: o.skipFormulation,
		SkipMIR:         o.skipMIR,
		SkipTwoStep:     o.skipTwoStep,
		TMin:            o.tMin,
		TMax:            o.tMax,
		QMin:            o.qMin,
		QMax:            o.qMax,
		AMax:            o.aMax,
		Depth:           o.depth,
		Pass:            o.pass,
		FormulationRows: o.formulationRows,
		Seed:            o.seed,
		Refresh:         o.refresh,
	}
	cfg.Generate.ApplyTo(&opts)
	return opts
}

// newGenerateCmd creates the generate command.
//
// The command reads the problem in MPS format and the relaxation state
// as JSON, runs the cut-generation pipeline, and writes the result as
// JSON to --output or stdout.
func newGenerateCmd() *cobra.Command {
	opts := generateOpts{}

	cmd := &cobra.Command{
		Use:   "generate <problem.mps> <state.json>",
		Short: "Generate MIR and two-step MIR cuts for a relaxation",
		Long: `Generate cutting planes from a problem and a relaxation state.

The relaxation state is the JSON snapshot of the host solver's LP
relaxation: column values, reduced costs, row duals, and basis status.

Examples:
  mircut generate model.mps state.json
  mircut generate model.mps state.json -o cuts.json
  mircut generate model.mps state.json --skip-two-step --seed 42`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return runGenerate(c.Context(), c, &opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the cache read")
	cmd.Flags().BoolVar(&opts.skipTableau, "skip-tableau", false, "skip tableau-row cuts")
	cmd.Flags().BoolVar(&opts.skipFormulation, "skip-formulation", false, "skip formulation-row cuts")
	cmd.Flags().BoolVar(&opts.skipMIR, "skip-mir", false, "skip plain MIR cuts")
	cmd.Flags().BoolVar(&opts.skipTwoStep, "skip-two-step", false, "skip two-step MIR cuts")
	cmd.Flags().IntVar(&opts.tMin, "t-min", 0, "minimum MIR scale (0: default)")
	cmd.Flags().IntVar(&opts.tMax, "t-max", 0, "maximum MIR scale (0: default)")
	cmd.Flags().IntVar(&opts.qMin, "q-min", 0, "minimum two-step scale (0: default)")
	cmd.Flags().IntVar(&opts.qMax, "q-max", 0, "maximum two-step scale (0: default)")
	cmd.Flags().IntVar(&opts.aMax, "a-max", 0, "two-step alpha ratio cap (0: default)")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "search tree depth of the relaxation")
	cmd.Flags().IntVar(&opts.pass, "pass", 0, "cut pass number at this node")
	cmd.Flags().IntVar(&opts.formulationRows, "formulation-rows", 0, "cap on formulation rows scanned (0: all)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for row sub-selection (0: default)")

	return cmd
}

// runGenerate executes the pipeline and writes the result.
func runGenerate(ctx context.Context, cmd *cobra.Command, opts *generateOpts, problemPath, statePath string) error {
	logger := loggerFromContext(ctx)

	problem, err := os.ReadFile(problemPath)
	if err != nil {
		return fmt.Errorf("read problem: %w", err)
	}
	state, err := os.ReadFile(statePath)
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}

	runner, cfg, err := newRunner(ctx, cmd, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Generating cuts...")
	spinner.Start()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts.pipelineOptions(cfg, string(problem), string(state)))
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Generation failed: %v", err))
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Generated %d cuts", result.Stats.CutCount))

	printSuccess("Generated %d cuts", result.Stats.CutCount)
	printStats(result.Stats.Rows, result.Stats.Cols, result.Stats.CutCount, result.CacheInfo.CutsHit)

	if err := writeResult(result, opts.output); err != nil {
		return err
	}
	if opts.output != "" {
		printFile(opts.output)
		printNextStep("Inspect the cuts", fmt.Sprintf("%s inspect %s", appName, opts.output))
	}
	return nil
}

// writeResult serializes the result as indented JSON to path (or
// stdout if empty).
func writeResult(result *pipeline.Result, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
