package parser_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/synthlab/internal/parser"
)

// buildWorkbook returns an in-memory workbook; rows are written to sheet
// starting at A1. A second sheet "Other" is always present.
func buildWorkbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"z"}))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseXLSX_FirstSheet(t *testing.T) {
	data := buildWorkbook(t, "Data", [][]any{
		{"a", "b"},
		{1, 2.5},
		{3, "x"},
	})
	tbl, err := parser.ParseXLSX(bytes.NewReader(data), parser.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, parser.Number(1), tbl.Rows[0][0])
	assert.Equal(t, parser.Number(2.5), tbl.Rows[0][1])
	assert.Equal(t, parser.String("x"), tbl.Rows[1][1])
}

func TestParseXLSX_NamedSheet(t *testing.T) {
	data := buildWorkbook(t, "Data", [][]any{{"a"}, {1}})
	opt := parser.DefaultOptions()
	opt.Sheet = "Other"
	tbl, err := parser.ParseXLSX(bytes.NewReader(data), opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, tbl.Columns)
	assert.Empty(t, tbl.Rows)
}

func TestParseXLSX_MissingSheet(t *testing.T) {
	data := buildWorkbook(t, "Data", [][]any{{"a"}})
	opt := parser.DefaultOptions()
	opt.Sheet = "Nope"
	_, err := parser.ParseXLSX(bytes.NewReader(data), opt)
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseXLSX_NotAWorkbook(t *testing.T) {
	_, err := parser.ParseXLSX(strings.NewReader("a,b\n1,2\n"), parser.DefaultOptions())
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseFile_XLSX(t *testing.T) {
	data := buildWorkbook(t, "Sheet1", [][]any{{"n"}, {4}, {}, {6}})
	p := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, os.WriteFile(p, data, 0o644))
	tbl, err := parser.ParseFile(p, parser.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"n"}, tbl.Columns)
	assert.Len(t, tbl.Rows, 2)
}
