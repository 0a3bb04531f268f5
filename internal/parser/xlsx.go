package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".xlsx")
}

func (xlsxReader) Read(name string, r io.Reader, opt Options) (*Table, error) {
	t, err := ParseXLSX(r, opt)
	if ee, ok := err.(*EmptyDataError); ok {
		ee.Source = name
	}
	return t, err
}

// ParseXLSX reads one worksheet (opt.Sheet, or the first sheet) and applies the
// same header, typing and row reconciliation rules as ParseCSV. Empty rows are
// skipped.
func ParseXLSX(r io.Reader, opt Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &EmptyDataError{}
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}

	i := 0
	next := func() ([]string, int, error) {
		for i < len(rows) {
			row := rows[i]
			i++
			if len(row) > 0 {
				return row, i, nil
			}
		}
		return nil, i, io.EOF
	}
	return buildTable(next, opt)
}
