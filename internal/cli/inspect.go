package cli

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mircut/mircut/pkg/pipeline"
)

// newInspectCmd creates the inspect command for summarizing cut files.
func newInspectCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect <cuts.json>",
		Short: "Summarize a cut file produced by generate",
		Long: `Inspect a result file written by the generate command.

Prints run metadata and a table of the generated cuts. With
--interactive, opens a browser to step through individual cuts and
their coefficients.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runInspect(args[0], interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse cuts interactively")
	return cmd
}

func runInspect(path string, interactive bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read result: %w", err)
	}

	var result pipeline.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("parse result %s: %w", path, err)
	}

	if interactive {
		_, err := tea.NewProgram(NewCutListModel(result.Cuts)).Run()
		return err
	}

	printKeyValue("run", result.RunID)
	printKeyValue("model", result.ModelHash)
	printKeyValue("state", result.StateHash)
	printKeyValue("problem", fmt.Sprintf("%d rows, %d cols, %d integer",
		result.Stats.Rows, result.Stats.Cols, result.Stats.Integers))
	printKeyValue("cuts", fmt.Sprintf("%d", result.Stats.CutCount))
	printNewline()
	fmt.Println(renderCutTable(result.Cuts))
	return nil
}
