package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/woodspider/internal/model"
)

var testGenerated = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// createTestSummary creates a summary with sample data for testing.
func createTestSummary() *model.CrawlSummary {
	return &model.CrawlSummary{
		GeneratedAt: testGenerated,
		TotalLinks:  9,
		StatusCounts: map[model.Status]int{
			model.StatusExploredMatch:   3,
			model.StatusExploredNoMatch: 1,
			model.StatusUnexplored:      4,
			model.StatusWebError:        1,
		},
		TopKeywords: []model.KeywordCount{
			{ID: 2, Keyword: "GLULAM", Links: 3},
			{ID: 1, Keyword: "TIMBER", Links: 2},
		},
		RecentMatches: []model.LinkRecord{
			{
				ID:           7,
				URL:          "https://timber.example.com/clt",
				Title:        "Cross laminated timber | panels",
				Synopsis:     "CLT panels for mid-rise construction",
				KeywordCount: 2,
				Status:       model.StatusExploredMatch,
				Level:        2,
				LastExplored: testGenerated.Add(-time.Hour),
			},
			{
				ID:           8,
				URL:          "https://timber.example.com/guide.pdf",
				Title:        "guide.pdf",
				DownloadPath: "/data/downloads/8-guide.pdf",
				ContentHash:  "abc123",
				KeywordCount: 1,
				Status:       model.StatusExploredMatch,
				Level:        3,
				LastExplored: testGenerated.Add(-2 * time.Hour),
			},
		},
		DuplicateResources: []model.DuplicateResource{
			{
				Hash: "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532",
				URLs: []string{"https://a.example.com/guide.pdf", "https://b.example.com/guide.pdf"},
			},
		},
		RecentSessions: []model.CrawlSession{
			{
				ID:        "0b7f3a70-2d2a-4d7e-9d3b-2d1c8f0e8a11",
				Mode:      "explore",
				Started:   testGenerated.Add(-3 * time.Hour),
				Finished:  testGenerated.Add(-3*time.Hour + 90*time.Second),
				Processed: 10,
				Added:     25,
				Failed:    1,
			},
			{
				ID:      "5e0a6f55-8f5d-4a55-8c59-0b7a1b9bb0a2",
				Mode:    "update",
				Started: testGenerated.Add(-time.Minute),
			},
		},
	}
}

func emptySummary() *model.CrawlSummary {
	return &model.CrawlSummary{
		GeneratedAt:  testGenerated,
		StatusCounts: map[model.Status]int{},
	}
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes every section", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestSummary())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("returned %d bytes, buffer holds %d", n, buf.Len())
		}

		output := buf.String()
		for _, want := range []string{
			"WOODSPIDER CRAWL REPORT",
			"Generated:   2026-05-01 12:00:00",
			"Total Links: 9",
			"LINK STATUS",
			"EXPLORED_MATCH:",
			"TOP KEYWORDS",
			"GLULAM",
			"RECENT MATCHES",
			"[7] https://timber.example.com/clt",
			"File:     /data/downloads/8-guide.pdf",
			"DUPLICATE RESOURCES",
			"https://b.example.com/guide.pdf",
			"RECENT SESSIONS",
			"processed=10 added=25 failed=1 (1m30s)",
			"(running)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "INCOMPLETE:") {
			t.Error("expected zero statuses to be hidden")
		}
		if strings.Contains(output, "Synopsis:") {
			t.Error("expected synopsis to be hidden without verbose")
		}
	})

	t.Run("verbose adds synopsis", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Synopsis: CLT panels for mid-rise construction") {
			t.Errorf("expected synopsis in verbose output:\n%s", buf.String())
		}
	})

	t.Run("empty frontier", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(emptySummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "The frontier is empty") {
			t.Errorf("expected empty notice:\n%s", output)
		}
		if strings.Contains(output, "TOP KEYWORDS") {
			t.Error("expected empty sections to be hidden")
		}
	})

	t.Run("show empty sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithShowEmpty(true)).Write(emptySummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{
			"INCOMPLETE:",
			"No keyword hits",
			"No matching pages yet",
			"No duplicate downloads",
			"No crawl sessions recorded",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes headers and chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Woodspider Crawl Report",
			"## Link Status",
			"```mermaid",
			"Link Status Distribution",
			"## Top Keywords",
			"GLULAM",
			"## Recent Matches",
			"https://timber.example.com/clt",
			"Cross laminated timber",
			"## Duplicate Resources",
			"https://a.example.com/guide.pdf",
			"## Recent Sessions",
			"explore",
			"woodspider",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
	})

	t.Run("empty frontier has no chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(emptySummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "```mermaid") {
			t.Error("expected no chart for an empty frontier")
		}
		if !strings.Contains(output, "The frontier is empty") {
			t.Errorf("expected empty notice:\n%s", output)
		}
		if !strings.Contains(output, "No crawl sessions recorded.") {
			t.Errorf("expected session notice:\n%s", output)
		}
	})

	t.Run("warns when most fetches failed", func(t *testing.T) {
		t.Parallel()

		summary := emptySummary()
		summary.TotalLinks = 4
		summary.StatusCounts[model.StatusWebError] = 3
		summary.StatusCounts[model.StatusExploredMatch] = 1

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "3 of 4 explored links failed to fetch") {
			t.Errorf("expected failure warning:\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("statuses keyed by name", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithVersion("v1.2.3")).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got struct {
			Version      string         `json:"version"`
			TotalLinks   int            `json:"total_links"`
			StatusCounts map[string]int `json:"status_counts"`
			Duplicates   []struct {
				Hash string   `json:"sha3_256"`
				URLs []string `json:"urls"`
			} `json:"duplicate_resources"`
			RecentSessions []struct {
				Mode string `json:"mode"`
			} `json:"recent_sessions"`
		}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
		}
		if got.Version != "v1.2.3" {
			t.Errorf("version = %q", got.Version)
		}
		if got.TotalLinks != 9 {
			t.Errorf("total_links = %d, want 9", got.TotalLinks)
		}
		if got.StatusCounts["EXPLORED_MATCH"] != 3 || got.StatusCounts["UNEXPLORED"] != 4 {
			t.Errorf("status_counts = %v", got.StatusCounts)
		}
		if len(got.Duplicates) != 1 || len(got.Duplicates[0].URLs) != 2 {
			t.Errorf("duplicate_resources = %+v", got.Duplicates)
		}
		if len(got.RecentSessions) != 2 || got.RecentSessions[1].Mode != "update" {
			t.Errorf("recent_sessions = %+v", got.RecentSessions)
		}
	})

	t.Run("compact by default, indented on request", func(t *testing.T) {
		t.Parallel()

		var compact, pretty bytes.Buffer
		if _, err := NewJSONWriter(&compact).Write(emptySummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewJSONWriter(&pretty, WithPrettyPrint()).Write(emptySummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(compact.String(), "\n") != 1 {
			t.Errorf("expected single-line output, got %q", compact.String())
		}
		if !strings.Contains(pretty.String(), "\n  \"total_links\": 0") {
			t.Errorf("expected indented output, got %q", pretty.String())
		}
		if !strings.Contains(compact.String(), `"top_keywords":[]`) {
			t.Errorf("expected empty arrays rather than null, got %q", compact.String())
		}
	})
}

type failingWriter struct{}

func (failingWriter) Write(*model.CrawlSummary) (int, error) {
	return 0, errors.New("disk full")
}

// TestMultiWriter tests writing the same summary in several formats.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var buf1, buf2 bytes.Buffer
		multi := NewMultiWriter(NewSimpleWriter(&buf1), NewJSONWriter(&buf2))

		n, err := multi.Write(createTestSummary())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf1.Len()+buf2.Len() {
			t.Errorf("total = %d, want %d", n, buf1.Len()+buf2.Len())
		}
		if strings.HasPrefix(strings.TrimSpace(buf1.String()), "{") {
			t.Error("expected buf1 (simple) to not be JSON")
		}
		if !strings.HasPrefix(buf2.String(), "{") {
			t.Error("expected buf2 (JSON) to contain JSON")
		}
	})

	t.Run("stops at first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		multi := NewMultiWriter(failingWriter{}, NewSimpleWriter(&buf))
		if _, err := multi.Write(createTestSummary()); err == nil {
			t.Fatal("expected error")
		}
		if buf.Len() != 0 {
			t.Error("expected later writers to be skipped")
		}
	})
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a longer string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"集成材の構造設計", 5, "集成..."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			result := truncateString(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateString(%q, %d) = %q, want %q",
					tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}

func TestSessionDuration(t *testing.T) {
	t.Parallel()

	running := model.CrawlSession{Started: testGenerated}
	if got := sessionDuration(running); got != "running" {
		t.Errorf("sessionDuration(running) = %q", got)
	}
	done := model.CrawlSession{Started: testGenerated, Finished: testGenerated.Add(61500 * time.Millisecond)}
	if got := sessionDuration(done); got != "1m2s" {
		t.Errorf("sessionDuration(done) = %q, want 1m2s", got)
	}
	if got := formatTime(time.Time{}); got != "-" {
		t.Errorf("formatTime(zero) = %q, want -", got)
	}
}
