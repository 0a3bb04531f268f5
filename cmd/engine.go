package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/synthlab/internal/analysis"
	cfgpkg "github.com/KaramelBytes/synthlab/internal/config"
	"github.com/KaramelBytes/synthlab/internal/parser"
)

// engineFlags are the ingestion and statistics flags shared by the commands
// that run the engine. Unset flags fall back to the configuration.
type engineFlags struct {
	strict      bool
	mockMetrics bool
	delimiter   string
	sheet       string
	duplicates  string
}

func (f *engineFlags) register(c *cobra.Command) {
	fl := c.Flags()
	fl.BoolVar(&f.strict, "strict", false, "fail when a column has no numeric values")
	fl.BoolVar(&f.mockMetrics, "mock-metrics", false, "attach simulated quality scores to each column")
	fl.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' | 'auto'")
	fl.StringVar(&f.sheet, "sheet", "", "XLSX: sheet name (default first sheet)")
	fl.StringVar(&f.duplicates, "duplicates", "", "duplicate header policy: last-wins | reject")
}

func (f *engineFlags) engine(c *cobra.Command) (*analysis.Engine, error) {
	g := currentConfig()
	opt, err := g.ParserOptions()
	if err != nil {
		return nil, err
	}
	fl := c.Flags()
	if fl.Changed("delimiter") {
		if opt.Comma, err = cfgpkg.ParseDelimiter(f.delimiter); err != nil {
			return nil, err
		}
	}
	if fl.Changed("duplicates") {
		if opt.Duplicates, err = parser.ParseDuplicates(f.duplicates); err != nil {
			return nil, err
		}
	}
	opt.Sheet = f.sheet

	strict := g.Strict
	if fl.Changed("strict") {
		strict = f.strict
	}
	mock := g.MockMetrics
	if fl.Changed("mock-metrics") {
		mock = f.mockMetrics
	}
	opts := []analysis.EngineOption{
		analysis.WithParserOptions(opt),
		analysis.WithStrict(strict),
		analysis.WithLogger(logger),
	}
	if mock {
		opts = append(opts, analysis.WithMetrics(analysis.NewUniformMetrics(nil)))
	}
	return analysis.NewEngine(opts...), nil
}

// sampleRows resolves --sample-rows against the configuration.
func sampleRows(c *cobra.Command, flagVal int) int {
	if c.Flags().Changed("sample-rows") {
		return flagVal
	}
	return currentConfig().SampleRows
}
