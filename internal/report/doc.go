// Package report renders a crawl summary of the frontier.
//
// Writers:
//   - SimpleWriter: plain text for the terminal
//   - MarkdownWriter: Markdown with a mermaid status chart
//   - JSONWriter: JSON for other tools
//
// All writers consume a *model.CrawlSummary built by the frontier store, so
// a new format never touches the store queries.
package report
