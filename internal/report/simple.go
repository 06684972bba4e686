package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jean/Memex/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the statistics report in human-readable format.
func (w *SimpleWriter) Write(report *model.StatsReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeCounts(&sb, report)
	w.writeTopDomains(&sb, report)
	w.writeTopTags(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with database information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.StatsReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("                     MEMEX DATABASE\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Generated:      %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Schema Version: %d\n", report.SchemaVersion))
	sb.WriteString("\n")
}

// writeCounts writes the storage counts section.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, report *model.StatsReport) {
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString("CONTENTS\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Pages:     %d\n", report.PageCount))
	sb.WriteString(fmt.Sprintf("  Visits:    %d\n", report.VisitCount))
	sb.WriteString(fmt.Sprintf("  Bookmarks: %d\n", report.BookmarkCount))
	sb.WriteString(fmt.Sprintf("  Tags:      %d\n", report.TagCount))
	sb.WriteString("\n")
}

// writeTopDomains writes the most-stored domains section.
func (w *SimpleWriter) writeTopDomains(sb *strings.Builder, report *model.StatsReport) {
	if len(report.TopDomains) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString("TOP DOMAINS\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n\n")

	if len(report.TopDomains) == 0 {
		sb.WriteString("  No pages stored\n")
	} else {
		for _, dc := range report.TopDomains {
			sb.WriteString(fmt.Sprintf("  %6d  %s\n", dc.Pages, dc.Domain))
		}
	}
	sb.WriteString("\n")
}

// writeTopTags writes the most-used tags section.
func (w *SimpleWriter) writeTopTags(sb *strings.Builder, report *model.StatsReport) {
	if len(report.TopTags) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString("TOP TAGS\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n\n")

	if len(report.TopTags) == 0 {
		sb.WriteString("  No tags in use\n")
	} else {
		for _, tc := range report.TopTags {
			sb.WriteString(fmt.Sprintf("  %6d  %s\n", tc.Pages, tc.Name))
		}
	}
	sb.WriteString("\n")
}
