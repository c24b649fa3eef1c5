package report

import (
	"io"
	"time"

	"github.com/nao1215/woodspider/internal/model"
)

// Writer renders a crawl summary.
type Writer interface {
	// Write renders summary and returns the number of bytes written.
	Write(summary *model.CrawlSummary) (int, error)
}

// MultiWriter writes the same summary to several Writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all of writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders summary with each writer in turn and stops at the first
// error.
func (m *MultiWriter) Write(summary *model.CrawlSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout formats every timestamp in a report.
const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}

// sessionDuration is the wall time of a finished session, or "running".
func sessionDuration(s model.CrawlSession) string {
	if s.Finished.IsZero() {
		return "running"
	}
	return s.Finished.Sub(s.Started).Round(time.Second).String()
}

// truncateString shortens s to maxLen runes, ending with "...".
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
