package analysis

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/KaramelBytes/synthlab/internal/parser"
)

// Dataset is the result of ingesting one file: the typed rows plus statistics
// for every column. A Dataset is never mutated after Process returns it.
type Dataset struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Checksum  string                 `json:"checksum"`
	CreatedAt time.Time              `json:"createdAt"`
	Rows      int                    `json:"rows"`
	Columns   []string               `json:"columns"`
	Data      [][]parser.Cell        `json:"data"`
	Stats     map[string]ColumnStats `json:"stats"`
}

// DegenerateColumns lists, in column order, the columns without numeric values.
func (d *Dataset) DegenerateColumns() []string {
	var out []string
	for _, c := range d.Columns {
		if d.Stats[c].Degenerate() {
			out = append(out, c)
		}
	}
	return out
}

// Engine parses input files and assembles Datasets. It holds no mutable state
// of its own, so one Engine may serve concurrent calls on distinct inputs.
type Engine struct {
	parse   parser.Options
	strict  bool
	metrics MetricsProvider
	logger  *zap.Logger
	now     func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithParserOptions overrides the ingestion options.
func WithParserOptions(opt parser.Options) EngineOption {
	return func(e *Engine) { e.parse = opt }
}

// WithStrict makes degenerate columns fail with *InsufficientDataError.
func WithStrict(strict bool) EngineOption {
	return func(e *Engine) { e.strict = strict }
}

// WithMetrics attaches simulated scores to every column; nil disables them.
func WithMetrics(p MetricsProvider) EngineOption {
	return func(e *Engine) { e.metrics = p }
}

// WithLogger sets the logger; the default discards output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine builds an Engine with default ingestion options and NaN stats for
// degenerate columns.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		parse:  parser.DefaultOptions(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ProcessFile opens path and delegates to Process.
func (e *Engine) ProcessFile(path string) (*Dataset, error) {
	if !parser.Supported(path) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), parser.ErrUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return e.Process(filepath.Base(path), f)
}

// Process reads r completely, parses it according to name's extension and
// computes statistics for every column. On any failure no Dataset is returned.
func (e *Engine) Process(name string, r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &parser.ParseError{Err: fmt.Errorf("read %s: %w", name, err)}
	}
	t, err := parser.Parse(name, bytes.NewReader(raw), e.parse)
	if err != nil {
		e.logger.Debug("parse failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	ds, err := e.Assemble(name, t)
	if err != nil {
		return nil, err
	}
	sum := blake3.Sum256(raw)
	ds.Checksum = hex.EncodeToString(sum[:])
	return ds, nil
}

// Assemble computes per-column statistics over an already parsed table.
func (e *Engine) Assemble(name string, t *parser.Table) (*Dataset, error) {
	opt := StatsOptions{Strict: e.strict, Metrics: e.metrics}
	stats := make(map[string]ColumnStats, len(t.Columns))
	for j, col := range t.Columns {
		s, err := ComputeStats(col, t.Column(j), opt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		stats[col] = s
	}
	ds := &Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: e.now().UTC(),
		Rows:      len(t.Rows),
		Columns:   t.Columns,
		Data:      t.Rows,
		Stats:     stats,
	}
	if deg := ds.DegenerateColumns(); len(deg) > 0 {
		e.logger.Debug("columns without numeric values", zap.String("name", name), zap.Strings("columns", deg))
	}
	e.logger.Info("dataset processed",
		zap.String("id", ds.ID),
		zap.String("name", name),
		zap.Int("columns", len(ds.Columns)),
		zap.Int("rows", ds.Rows))
	return ds, nil
}
