package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/synthlab/internal/analysis"
	"github.com/KaramelBytes/synthlab/internal/utils"
)

var (
	abFlags       engineFlags
	abOutputDir   string
	abJSON        bool
	abSampleRows  int
	abConcurrency int
	abFailFast    bool
	abQuiet       bool
)

type batchResult struct {
	path string
	ds   *analysis.Dataset
	err  error
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := utils.ExpandGlobs(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		eng, err := abFlags.engine(cmd)
		if err != nil {
			return err
		}
		limit := currentConfig().BatchConcurrency
		if cmd.Flags().Changed("concurrency") {
			limit = abConcurrency
		}
		if limit <= 0 {
			return fmt.Errorf("--concurrency must be > 0, got %d", limit)
		}
		rows := sampleRows(cmd, abSampleRows)

		results := make([]batchResult, len(files))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(limit)
		for i, path := range files {
			results[i].path = path
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					results[i].err = err
					return nil
				}
				ds, err := eng.ProcessFile(path)
				results[i].ds, results[i].err = ds, err
				if err != nil && abFailFast {
					return fmt.Errorf("%s: %w", path, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		written := make(map[string]bool)
		failed := 0
		for i, r := range results {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] %s\n", i+1, len(results), r.path)
			}
			if r.err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", r.path, r.err)
				continue
			}
			body, err := renderDataset(r.ds, abJSON, rows)
			if err != nil {
				return err
			}
			if abOutputDir == "" {
				if !abQuiet {
					fmt.Fprintln(out, string(body))
				}
				continue
			}
			dst := summaryPath(abOutputDir, r.path, abJSON, written)
			if err := utils.SafeWriteFile(dst, body); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", dst)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(results))
		}
		fmt.Fprintf(out, "✓ Analyzed %d file(s)\n", len(results))
		return nil
	},
}

// summaryPath picks <dir>/<base>.summary.{md,json}, adding a __N suffix when
// the name is already taken on disk or earlier in this run.
func summaryPath(dir, src string, asJSON bool, taken map[string]bool) string {
	ext := ".summary.md"
	if asJSON {
		ext = ".summary.json"
	}
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	cand := filepath.Join(dir, stem+ext)
	for idx := 2; ; idx++ {
		if !taken[cand] {
			if _, err := os.Stat(cand); os.IsNotExist(err) {
				break
			}
		}
		cand = filepath.Join(dir, fmt.Sprintf("%s__%d%s", stem, idx, ext))
	}
	taken[cand] = true
	return cand
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.register(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "write one summary file per input into this directory")
	analyzeBatchCmd.Flags().BoolVar(&abJSON, "json", false, "emit JSON datasets instead of Markdown")
	analyzeBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", 5, "number of sample rows in each Markdown report")
	analyzeBatchCmd.Flags().IntVar(&abConcurrency, "concurrency", 4, "number of files analyzed in parallel")
	analyzeBatchCmd.Flags().BoolVar(&abFailFast, "fail-fast", false, "stop at the first file that fails")
	analyzeBatchCmd.Flags().BoolVarP(&abQuiet, "quiet", "q", false, "suppress progress and report output")
}
