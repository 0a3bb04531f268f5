package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/synthlab/internal/analysis"
	"github.com/KaramelBytes/synthlab/internal/utils"
)

var (
	expFlags      engineFlags
	expOutputPath string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Parse a CSV/TSV/XLSX file and write the typed table back out as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := expFlags.engine(cmd)
		if err != nil {
			return err
		}
		ds, err := eng.ProcessFile(args[0])
		if err != nil {
			return err
		}
		if expOutputPath == "" {
			return analysis.WriteCSV(cmd.OutOrStdout(), ds)
		}
		var buf bytes.Buffer
		if err := analysis.WriteCSV(&buf, ds); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(expOutputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d rows to %s\n", ds.Rows, expOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	expFlags.register(exportCmd)
	exportCmd.Flags().StringVarP(&expOutputPath, "output", "o", "", "path of the CSV to write (default stdout)")
}
