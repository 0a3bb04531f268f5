package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Duplicates selects how repeated header names are handled.
type Duplicates int

const (
	// DuplicatesLastWins keeps the first position of a repeated name and fills it
	// from the last occurrence, matching object-key semantics.
	DuplicatesLastWins Duplicates = iota
	// DuplicatesReject fails the parse with a *ParseError.
	DuplicatesReject
)

// ParseDuplicates maps a config value ("last-wins" | "reject") to a policy.
func ParseDuplicates(s string) (Duplicates, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last-wins", "last":
		return DuplicatesLastWins, nil
	case "reject", "error":
		return DuplicatesReject, nil
	default:
		return 0, fmt.Errorf("invalid duplicate header policy: %s (use last-wins or reject)", s)
	}
}

func (d Duplicates) String() string {
	if d == DuplicatesReject {
		return "reject"
	}
	return "last-wins"
}

// Options controls ingestion. Header handling and dynamic typing are always on.
type Options struct {
	// Comma is the CSV delimiter. If 0, ',' is used (or '\t' for .tsv names).
	Comma rune
	// Duplicates selects the repeated-header policy.
	Duplicates Duplicates
	// Sheet names the XLSX sheet to read; empty selects the first sheet.
	Sheet string
}

// DefaultOptions returns the fixed ingestion configuration: comma-delimited
// (tab for .tsv names), last-wins duplicate headers, first sheet.
func DefaultOptions() Options {
	return Options{}
}

// Table is a rectangular, typed view of a parsed file. Every row has exactly
// len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// Column returns the cells of column j across all rows.
func (t *Table) Column(j int) []Cell {
	out := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out
}

// Record returns row i keyed by column name.
func (t *Table) Record(i int) map[string]Cell {
	rec := make(map[string]Cell, len(t.Columns))
	for j, name := range t.Columns {
		rec[name] = t.Rows[i][j]
	}
	return rec
}

// recordSource yields raw records; it returns io.EOF when exhausted. line is the
// 1-based input line of the record just returned, used for error reporting.
type recordSource func() (rec []string, line int, err error)

// buildTable consumes a header and all data records, reconciling every record
// to the header width.
func buildTable(next recordSource, opt Options) (*Table, error) {
	header, line, err := next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &EmptyDataError{}
		}
		return nil, wrapParse(line, err)
	}
	columns, src, err := reconcileHeader(header, opt.Duplicates, line)
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: columns, Rows: [][]Cell{}}
	for {
		rec, line, err := next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, wrapParse(line, err)
		}
		row := make([]Cell, len(columns))
		for j, k := range src {
			if k < len(rec) {
				row[j] = Coerce(rec[k])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// reconcileHeader dedupes header names and returns, per output column, the index
// of the source field that feeds it.
func reconcileHeader(header []string, policy Duplicates, line int) ([]string, []int, error) {
	nonEmpty := 0
	for _, h := range header {
		if strings.TrimSpace(h) != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return nil, nil, &EmptyDataError{}
	}
	pos := make(map[string]int, len(header))
	columns := make([]string, 0, len(header))
	src := make([]int, 0, len(header))
	for k, h := range header {
		if j, ok := pos[h]; ok {
			if policy == DuplicatesReject {
				return nil, nil, &ParseError{Line: line, Err: fmt.Errorf("duplicate header %q", h)}
			}
			src[j] = k
			continue
		}
		pos[h] = len(columns)
		columns = append(columns, h)
		src = append(src, k)
	}
	return columns, src, nil
}

func wrapParse(line int, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Line: line, Err: err}
}
