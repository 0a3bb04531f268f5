package analysis_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/KaramelBytes/synthlab/internal/analysis"
)

func TestMarkdownReport(t *testing.T) {
	ds := process(t, analysis.NewEngine(), "name,age\nAlice,30\nBob,25\nCarol,41\n")
	md := ds.Markdown(2)

	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: input.csv",
		"Rows: 3",
		"Columns: 2",
		"[COLUMN STATISTICS]",
		"- name: no numeric values",
		"- age: n=3, mean 32, median 30, std",
		"[HEAD AND SAMPLE ROWS]",
		"| name | age |",
		"| Bob | 25 |",
		"[NOTES]",
		`column "name" has no numeric values`,
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Carol") {
		t.Fatalf("expected only 2 sample rows:\n%s", md)
	}
	if strings.Contains(md, "simulated") {
		t.Fatalf("unexpected simulated scores without metrics provider")
	}
}

func TestMarkdownReportNoSamples(t *testing.T) {
	ds := process(t, analysis.NewEngine(), "a\n1\n")
	md := ds.Markdown(0)
	if strings.Contains(md, "[HEAD AND SAMPLE ROWS]") || strings.Contains(md, "[NOTES]") {
		t.Fatalf("unexpected sections:\n%s", md)
	}
}

func TestHTMLReport(t *testing.T) {
	ds := process(t, analysis.NewEngine(), "a,b\n1,2\n")
	out := string(ds.HTML(5))
	if !strings.Contains(out, "<title>") || !strings.Contains(out, "input.csv") {
		t.Fatalf("expected page title, got:\n%s", out)
	}
	if !strings.Contains(out, "<table>") {
		t.Fatalf("expected sample table, got:\n%s", out)
	}
}

func TestHTMLReportEscapesInput(t *testing.T) {
	in := "<script>alert(1)</script>,b\n<img src=x onerror=alert(2)>,2\n[x](javascript:alert(3)),3\n"
	ds := process(t, analysis.NewEngine(), in)
	out := string(ds.HTML(5))
	for _, bad := range []string{"<script", "<img", `href="javascript`} {
		if strings.Contains(out, bad) {
			t.Fatalf("raw %q in report:\n%s", bad, out)
		}
	}
	if !strings.Contains(out, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("expected escaped header, got:\n%s", out)
	}
	if !strings.Contains(out, "&lt;img src=x onerror=alert(2)&gt;") {
		t.Fatalf("expected escaped cell, got:\n%s", out)
	}

	// The plain Markdown report keeps the text verbatim.
	if !strings.Contains(ds.Markdown(5), "<script>alert(1)</script>") {
		t.Fatalf("markdown should not be escaped")
	}
}

func TestMarkdownTruncatesByRune(t *testing.T) {
	long := strings.Repeat("a", 76) + strings.Repeat("é", 10)
	ds := process(t, analysis.NewEngine(), "v\n"+long+"\n")
	md := ds.Markdown(1)
	if !utf8.ValidString(md) {
		t.Fatalf("report is not valid UTF-8")
	}
	if !strings.Contains(md, strings.Repeat("a", 76)+"é...") {
		t.Fatalf("expected rune-aware truncation:\n%s", md)
	}
	if !utf8.Valid(ds.HTML(1)) {
		t.Fatalf("html is not valid UTF-8")
	}
}
