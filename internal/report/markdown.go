package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/jean/Memex/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the statistics report in Markdown format.
func (w *MarkdownWriter) Write(report *model.StatsReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeCounts(md, report)
	w.writeTopDomains(md, report)
	w.writeTopTags(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with database information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.StatsReport) {
	md.H1("Memex Database Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Schema Version", strconv.Itoa(report.SchemaVersion)},
		},
	})
	md.PlainText("")
}

// writeCounts writes the storage counts section.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, report *model.StatsReport) {
	md.H2("Contents")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows: [][]string{
			{"Pages", strconv.Itoa(report.PageCount)},
			{"Visits", strconv.Itoa(report.VisitCount)},
			{"Bookmarks", strconv.Itoa(report.BookmarkCount)},
			{"Tags", strconv.Itoa(report.TagCount)},
		},
	})
	md.PlainText("")

	if report.PageCount == 0 {
		md.Note("The database is empty. Import an export file or save a page to get started.")
		md.PlainText("")
	}
}

// writeTopDomains writes the most-stored domains with a pie chart.
func (w *MarkdownWriter) writeTopDomains(md *markdown.Markdown, report *model.StatsReport) {
	md.H2("Top Domains")
	md.PlainText("")

	if len(report.TopDomains) == 0 {
		md.PlainText("No pages stored.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.TopDomains))
	for i, dc := range report.TopDomains {
		rows[i] = []string{dc.Domain, strconv.Itoa(dc.Pages)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Domain", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, report)
}

// writePieChart writes a mermaid pie chart of the domain distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.StatsReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages per Domain"),
		piechart.WithShowData(true),
	)

	counted := 0
	for _, dc := range report.TopDomains {
		chart.LabelAndIntValue(dc.Domain, uint64(dc.Pages))
		counted += dc.Pages
	}
	if rest := report.PageCount - counted; rest > 0 {
		chart.LabelAndIntValue("other", uint64(rest))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeTopTags writes the most-used tags section.
func (w *MarkdownWriter) writeTopTags(md *markdown.Markdown, report *model.StatsReport) {
	md.H2("Top Tags")
	md.PlainText("")

	if len(report.TopTags) == 0 {
		md.PlainText("No tags in use.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.TopTags))
	for i, tc := range report.TopTags {
		rows[i] = []string{tc.Name, strconv.Itoa(tc.Pages)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Tag", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [Memex](https://github.com/jean/Memex)*")
}
