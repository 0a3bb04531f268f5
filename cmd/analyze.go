package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/synthlab/internal/analysis"
	"github.com/KaramelBytes/synthlab/internal/utils"
)

var (
	anaFlags      engineFlags
	anaOutputPath string
	anaJSON       bool
	anaSampleRows int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Parse a CSV/TSV/XLSX file and summarize each column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := anaFlags.engine(cmd)
		if err != nil {
			return err
		}
		ds, err := eng.ProcessFile(args[0])
		if err != nil {
			return err
		}
		out, err := renderDataset(ds, anaJSON, sampleRows(cmd, anaSampleRows))
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func renderDataset(ds *analysis.Dataset, asJSON bool, rows int) ([]byte, error) {
	if asJSON {
		return utils.PrettyJSON(ds)
	}
	return []byte(ds.Markdown(rows)), nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "print the full dataset as JSON instead of Markdown")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows in the Markdown report")
}
