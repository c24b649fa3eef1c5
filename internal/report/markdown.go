package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/woodspider/internal/model"
)

// MarkdownWriter outputs the summary as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.CrawlSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeStatuses(md, summary)
	w.writeKeywords(md, summary)
	w.writeMatches(md, summary)
	w.writeDuplicates(md, summary)
	w.writeSessions(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H1("Woodspider Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", formatTime(summary.GeneratedAt)},
			{"Total Links", strconv.Itoa(summary.TotalLinks)},
			{"Matches", strconv.Itoa(summary.StatusCounts[model.StatusExploredMatch])},
			{"Unexplored", strconv.Itoa(summary.StatusCounts[model.StatusUnexplored])},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeStatuses(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H2("Link Status")
	md.PlainText("")

	if summary.TotalLinks == 0 {
		md.Note("The frontier is empty. Run `woodspider seed` to add start pages.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(model.AllStatuses())+1)
	for _, status := range model.AllStatuses() {
		rows = append(rows, []string{
			"`" + status.String() + "`",
			strconv.Itoa(summary.StatusCounts[status]),
		})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.TotalLinks) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Links"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, summary)
	w.writeAlert(md, summary)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.CrawlSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Link Status Distribution"),
		piechart.WithShowData(true),
	)
	for _, status := range model.AllStatuses() {
		if n := summary.StatusCounts[status]; n > 0 {
			chart.LabelAndIntValue(status.String(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert calls out a frontier dominated by failures.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.CrawlSummary) {
	webErrors := summary.StatusCounts[model.StatusWebError]
	explored := summary.TotalLinks - summary.StatusCounts[model.StatusUnexplored]
	switch {
	case explored > 0 && webErrors*2 > explored:
		md.Warningf("%d of %d explored links failed to fetch. Check the network or proxy settings.",
			webErrors, explored)
	case summary.StatusCounts[model.StatusExploredMatch] == 0:
		md.Importantf("No page matched the keyword catalog yet.")
	default:
		md.Tip("Run `woodspider crawl update` to refresh links older than the stale TTL.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeKeywords(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H2("Top Keywords")
	md.PlainText("")
	if len(summary.TopKeywords) == 0 {
		md.PlainText("No keyword hits recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.TopKeywords))
	for i, kw := range summary.TopKeywords {
		rows[i] = []string{strconv.Itoa(kw.ID), kw.Keyword, strconv.Itoa(kw.Links)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Keyword", "Links"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeMatches(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H2("Recent Matches")
	md.PlainText("")
	if len(summary.RecentMatches) == 0 {
		md.PlainText("No matching pages yet.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.RecentMatches))
	for i, link := range summary.RecentMatches {
		title := link.Title
		if title == "" {
			title = "-"
		}
		rows[i] = []string{
			strconv.FormatInt(link.ID, 10),
			truncateString(link.URL, 60),
			escapeCell(truncateString(title, 40)),
			strconv.Itoa(link.KeywordCount),
			strconv.Itoa(link.Level),
			formatTime(link.LastExplored),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "URL", "Title", "Keywords", "Level", "Explored"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, link := range summary.RecentMatches {
		if link.Synopsis != "" {
			md.Details(link.URL, truncateString(link.Synopsis, 400))
		}
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeDuplicates(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H2("Duplicate Resources")
	md.PlainText("")
	if len(summary.DuplicateResources) == 0 {
		md.PlainText("No document was downloaded from more than one URL.")
		md.PlainText("")
		return
	}

	for _, dup := range summary.DuplicateResources {
		md.PlainText("### `" + truncateString(dup.Hash, 16) + "`")
		md.PlainText("")
		md.BulletList(dup.URLs...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeSessions(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H2("Recent Sessions")
	md.PlainText("")
	if len(summary.RecentSessions) == 0 {
		md.PlainText("No crawl sessions recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.RecentSessions))
	for i, s := range summary.RecentSessions {
		rows[i] = []string{
			formatTime(s.Started),
			s.Mode,
			strconv.Itoa(s.Processed),
			strconv.Itoa(s.Added),
			strconv.Itoa(s.Failed),
			sessionDuration(s),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Started", "Mode", "Processed", "Added", "Failed", "Duration"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [woodspider](https://github.com/nao1215/woodspider)*")
}

// escapeCell keeps page titles from breaking the table layout.
func escapeCell(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}
