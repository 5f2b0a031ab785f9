package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mircut/mircut/pkg/mps"
	"github.com/mircut/mircut/pkg/render"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format   string // "dot" or "svg"
	output   string // output file path (stdout if empty)
	detailed bool   // include bounds and senses in labels
	maxRows  int    // cap on constraint rows drawn
}

// newGraphCmd creates the graph command for constraint-graph rendering.
func newGraphCmd() *cobra.Command {
	opts := graphOpts{format: "dot"}

	cmd := &cobra.Command{
		Use:   "graph <problem.mps>",
		Short: "Render the problem's constraint graph",
		Long: `Render a bipartite diagram of variables and the constraint rows
they appear in.

Examples:
  mircut graph model.mps                      # DOT to stdout
  mircut graph model.mps -f svg -o model.svg  # SVG to file
  mircut graph model.mps --max-rows 50        # first 50 rows only`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runGraph(&opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include bounds and row senses in labels")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", 0, "cap on constraint rows drawn (0: all)")

	return cmd
}

func runGraph(opts *graphOpts, problemPath string) error {
	model, err := mps.ReadFile(problemPath)
	if err != nil {
		return fmt.Errorf("read problem: %w", err)
	}

	data, err := render.Render(model, opts.format, render.Options{
		Detailed: opts.detailed,
		MaxRows:  opts.maxRows,
	})
	if err != nil {
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Rendered %s graph of %s", opts.format, model.Name)
		printFile(opts.output)
	}
	return nil
}
