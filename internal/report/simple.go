package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/woodspider/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs the summary as plain text for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty prints sections that have no rows.
	showEmpty bool

	// verbose adds synopses to the match list.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose adds page synopses to the recent matches.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.CrawlSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeStatuses(&sb, summary)
	w.writeKeywords(&sb, summary)
	w.writeMatches(&sb, summary)
	w.writeDuplicates(&sb, summary)
	w.writeSessions(&sb, summary)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.CrawlSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                       WOODSPIDER CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Generated:   %s\n", formatTime(summary.GeneratedAt))
	fmt.Fprintf(sb, "Total Links: %d\n", summary.TotalLinks)
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeStatuses(sb *strings.Builder, summary *model.CrawlSummary) {
	section(sb, "LINK STATUS")
	for _, status := range model.AllStatuses() {
		n := summary.StatusCounts[status]
		if n == 0 && !w.showEmpty {
			continue
		}
		fmt.Fprintf(sb, "  %-18s %d\n", status.String()+":", n)
	}
	if summary.TotalLinks == 0 {
		sb.WriteString("  The frontier is empty\n")
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeKeywords(sb *strings.Builder, summary *model.CrawlSummary) {
	if len(summary.TopKeywords) == 0 && !w.showEmpty {
		return
	}
	section(sb, "TOP KEYWORDS")
	if len(summary.TopKeywords) == 0 {
		sb.WriteString("  No keyword hits\n\n")
		return
	}
	for _, kw := range summary.TopKeywords {
		fmt.Fprintf(sb, "  %-30s %6d links  (id %d)\n", kw.Keyword, kw.Links, kw.ID)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeMatches(sb *strings.Builder, summary *model.CrawlSummary) {
	if len(summary.RecentMatches) == 0 && !w.showEmpty {
		return
	}
	section(sb, "RECENT MATCHES")
	if len(summary.RecentMatches) == 0 {
		sb.WriteString("  No matching pages yet\n\n")
		return
	}
	for _, link := range summary.RecentMatches {
		fmt.Fprintf(sb, "  [%d] %s\n", link.ID, link.URL)
		if link.Title != "" {
			fmt.Fprintf(sb, "      Title:    %s\n", link.Title)
		}
		fmt.Fprintf(sb, "      Keywords: %d  Level: %d  Explored: %s\n",
			link.KeywordCount, link.Level, formatTime(link.LastExplored))
		if link.DownloadPath != "" {
			fmt.Fprintf(sb, "      File:     %s\n", link.DownloadPath)
		}
		if w.verbose && link.Synopsis != "" {
			fmt.Fprintf(sb, "      Synopsis: %s\n", truncateString(link.Synopsis, 200))
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeDuplicates(sb *strings.Builder, summary *model.CrawlSummary) {
	if len(summary.DuplicateResources) == 0 && !w.showEmpty {
		return
	}
	section(sb, "DUPLICATE RESOURCES")
	if len(summary.DuplicateResources) == 0 {
		sb.WriteString("  No duplicate downloads\n\n")
		return
	}
	for _, dup := range summary.DuplicateResources {
		fmt.Fprintf(sb, "  sha3-256 %s\n", dup.Hash)
		for _, u := range dup.URLs {
			fmt.Fprintf(sb, "    * %s\n", u)
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSessions(sb *strings.Builder, summary *model.CrawlSummary) {
	if len(summary.RecentSessions) == 0 && !w.showEmpty {
		return
	}
	section(sb, "RECENT SESSIONS")
	if len(summary.RecentSessions) == 0 {
		sb.WriteString("  No crawl sessions recorded\n\n")
		return
	}
	for _, s := range summary.RecentSessions {
		fmt.Fprintf(sb, "  %s  %-8s processed=%d added=%d failed=%d (%s)\n",
			formatTime(s.Started), s.Mode, s.Processed, s.Added, s.Failed, sessionDuration(s))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by woodspider\n")
	sb.WriteString("https://github.com/nao1215/woodspider\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
