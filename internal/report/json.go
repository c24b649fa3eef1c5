package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/woodspider/internal/model"
)

// JSONWriter outputs the summary as JSON for other tools.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent       bool
	indentPrefix string
	indentString string

	// version is recorded in the document when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the woodspider version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the document written by JSONWriter. Statuses are keyed by
// name rather than by their stored number.
type JSONReport struct {
	Version        string          `json:"version,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
	TotalLinks     int             `json:"total_links"`
	StatusCounts   map[string]int  `json:"status_counts"`
	TopKeywords    []jsonKeyword   `json:"top_keywords"`
	RecentMatches  []jsonLink      `json:"recent_matches"`
	Duplicates     []jsonDuplicate `json:"duplicate_resources"`
	RecentSessions []jsonSession   `json:"recent_sessions"`
}

type jsonKeyword struct {
	ID      int    `json:"id"`
	Keyword string `json:"keyword"`
	Links   int    `json:"links"`
}

type jsonLink struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title,omitempty"`
	KeywordCount int       `json:"keyword_count"`
	Level        int       `json:"level"`
	DownloadPath string    `json:"download_path,omitempty"`
	ContentHash  string    `json:"content_hash,omitempty"`
	LastExplored time.Time `json:"last_explored"`
}

type jsonDuplicate struct {
	Hash string   `json:"sha3_256"`
	URLs []string `json:"urls"`
}

type jsonSession struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
	Processed int       `json:"processed"`
	Added     int       `json:"added"`
	Failed    int       `json:"failed"`
}

// NewJSONReport converts summary into its JSON document.
func NewJSONReport(summary *model.CrawlSummary, version string) *JSONReport {
	r := &JSONReport{
		Version:        version,
		GeneratedAt:    summary.GeneratedAt,
		TotalLinks:     summary.TotalLinks,
		StatusCounts:   make(map[string]int, len(summary.StatusCounts)),
		TopKeywords:    make([]jsonKeyword, 0, len(summary.TopKeywords)),
		RecentMatches:  make([]jsonLink, 0, len(summary.RecentMatches)),
		Duplicates:     make([]jsonDuplicate, 0, len(summary.DuplicateResources)),
		RecentSessions: make([]jsonSession, 0, len(summary.RecentSessions)),
	}
	for status, n := range summary.StatusCounts {
		r.StatusCounts[status.String()] = n
	}
	for _, kw := range summary.TopKeywords {
		r.TopKeywords = append(r.TopKeywords, jsonKeyword(kw))
	}
	for _, l := range summary.RecentMatches {
		r.RecentMatches = append(r.RecentMatches, jsonLink{
			ID:           l.ID,
			URL:          l.URL,
			Title:        l.Title,
			KeywordCount: l.KeywordCount,
			Level:        l.Level,
			DownloadPath: l.DownloadPath,
			ContentHash:  l.ContentHash,
			LastExplored: l.LastExplored,
		})
	}
	for _, d := range summary.DuplicateResources {
		r.Duplicates = append(r.Duplicates, jsonDuplicate(d))
	}
	for _, s := range summary.RecentSessions {
		r.RecentSessions = append(r.RecentSessions, jsonSession(s))
	}
	return r
}

// Write outputs the summary in JSON format followed by a newline.
func (w *JSONWriter) Write(summary *model.CrawlSummary) (int, error) {
	var (
		data []byte
		err  error
	)
	doc := NewJSONReport(summary, w.version)
	if w.indent {
		data, err = json.MarshalIndent(doc, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
