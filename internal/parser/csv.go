package parser

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type csvReader struct{}

func (csvReader) CanRead(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".tsv")
}

func (csvReader) Read(name string, r io.Reader, opt Options) (*Table, error) {
	if opt.Comma == 0 {
		opt.Comma = sniffDelimiter(name)
	}
	t, err := ParseCSV(r, opt)
	if err != nil {
		var ee *EmptyDataError
		if errors.As(err, &ee) {
			ee.Source = name
		}
		return nil, err
	}
	return t, nil
}

// ParseCSV reads delimited text with the first row as header and dynamic typing
// applied to every data cell. Short rows are padded with Null and extra fields
// are dropped; blank lines are skipped.
func ParseCSV(r io.Reader, opt Options) (*Table, error) {
	// Strip a leading UTF-8 BOM so it does not end up in the first column name.
	src := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(src)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.Comma = ','
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}

	next := func() ([]string, int, error) {
		rec, err := cr.Read()
		if err != nil {
			var ce *csv.ParseError
			if errors.As(err, &ce) {
				return nil, ce.Line, err
			}
			return nil, 0, err
		}
		line, _ := cr.FieldPos(0)
		return rec, line, nil
	}
	return buildTable(next, opt)
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}
