package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
)

// Markdown renders a compact report of the dataset: summary, per-column
// statistics, up to sampleRows example rows and notes on degenerate columns.
func (d *Dataset) Markdown(sampleRows int) string {
	return d.markdown(sampleRows, func(s string) string { return s })
}

// markdown builds the report, passing every user-supplied string (file name,
// column names, cell values) through esc.
func (d *Dataset) markdown(sampleRows int, esc func(string) string) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n\n")
	if d.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s  \n", esc(d.Name)))
	}
	b.WriteString(fmt.Sprintf("Rows: %d  \n", d.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d  \n", len(d.Columns)))
	if d.Checksum != "" {
		b.WriteString(fmt.Sprintf("Checksum: %s  \n", shortSum(d.Checksum)))
	}

	b.WriteString("\n[COLUMN STATISTICS]\n\n")
	for _, c := range d.Columns {
		s := d.Stats[c]
		name := esc(safeName(c))
		if s.Degenerate() {
			b.WriteString(fmt.Sprintf("- %s: no numeric values\n", name))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s: n=%d, mean %.4g, median %.4g, std %.4g, min %.4g, max %.4g\n",
			name, s.Count, s.Mean, s.Median, s.StdDev, s.Min, s.Max))
		if m := s.MockMetrics; m != nil {
			b.WriteString(fmt.Sprintf("  - simulated: ks %.3f, ad %.3f, chi2 %.3f, similarity %.3f, privacy %.3f, correlation %.3f, ml %.3f, diversity %.3f, outlier %.3f\n",
				m.KSTest, m.ADTest, m.ChiSquare, m.StatSimilarity, m.PrivacyScore, m.CorrelationScore, m.MLUtility, m.DataDiversity, m.OutlierScore))
		}
	}

	if sampleRows > 0 && len(d.Data) > 0 && len(d.Columns) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n\n")
		b.WriteString("| ")
		for i, c := range d.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(esc(safeVal(safeName(c))))
		}
		b.WriteString(" |\n| ")
		for i := range d.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		n := sampleRows
		if len(d.Data) < n {
			n = len(d.Data)
		}
		for _, row := range d.Data[:n] {
			b.WriteString("| ")
			for i := range d.Columns {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i].String()
				}
				b.WriteString(esc(safeVal(truncate(val, 80))))
			}
			b.WriteString(" |\n")
		}
	}

	if deg := d.DegenerateColumns(); len(deg) > 0 {
		b.WriteString("\n[NOTES]\n\n")
		for _, c := range deg {
			b.WriteString(fmt.Sprintf("- column %s has no numeric values; its statistics are undefined (NaN)\n", esc(strconv.Quote(c))))
		}
	}
	return b.String()
}

// HTML renders the Markdown report as a standalone HTML page. Names and values
// from the input are escaped and raw HTML is never passed through.
func (d *Dataset) HTML(sampleRows int) []byte {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions)
	title := "Dataset report"
	if d.Name != "" {
		title = d.Name
	}
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage | mdhtml.SkipHTML,
		Title: title,
	})
	return markdown.ToHTML([]byte(d.markdown(sampleRows, htmlSafe.Replace)), p, r)
}

// htmlSafe backslash-escapes the characters that would let input text open
// an HTML tag, entity or link once the Markdown is rendered.
var htmlSafe = strings.NewReplacer(`\`, `\\`, "&", `\&`, "<", `\<`, ">", `\>`, "[", `\[`, "]", `\]`)

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func shortSum(s string) string {
	if len(s) > 16 {
		return s[:16]
	}
	return s
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
