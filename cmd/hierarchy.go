package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/output"
)

var (
	htmlOut   string
	jsonlHier bool
)

// hierarchyCmd: rethrow hierarchy [paths...] -o out.html
var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy [paths...]",
	Short: "Render the exception hierarchy of the given sources as a Mermaid page",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		result, err := analyze(ctx, cfg, args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if result.Hierarchy == nil {
			return fmt.Errorf("no sources analyzed")
		}

		if jsonlHier {
			_, err = output.ExportHierarchy(cmd.OutOrStdout(), result.Hierarchy)
			return err
		}
		if err := output.ExportMermaidHTML(htmlOut, result.Hierarchy, result.Verdicts); err != nil {
			return fmt.Errorf("failed to write %s: %w", htmlOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exception hierarchy written to %s (%d types)\n", htmlOut, len(result.Hierarchy.Types()))
		return nil
	},
}

func init() {
	hierarchyCmd.Flags().StringVarP(&htmlOut, "output", "o", "hierarchy.html", "Path of the generated HTML page")
	hierarchyCmd.Flags().BoolVar(&jsonlHier, "jsonl", false, "Print the hierarchy as JSON lines instead of HTML")
	hierarchyCmd.Flags().BoolVar(&checkUnchecked, "check-unchecked", false, "Highlight unchecked exceptions as missing too")
	hierarchyCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent workers (default: number of CPUs)")
}
