package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/woodspider/internal/report"
)

const integrationCatalog = `keywords:
  - {id: 1, keyword: glulam}
  - {id: 2, keyword: timber}
  - {id: 200, keyword: construction}
exclusion_sites: [facebook.com]
exclusion_keywords: [casino]
`

// newTimberSite serves a small site: a keyword-rich home page that links to
// a second page and a text document. Everything else, robots.txt included,
// is a 404.
func newTimberSite(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, `<html><head><title>Glulam Timber Works</title></head>
<body><p>We design glulam and timber construction for schools.</p>
<a href="/page2">Projects</a>
<a href="/spec.txt">Specification</a>
</body></html>`)
		case "/page2":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, `<html><head><title>Projects</title></head>
<body><p>Timber construction projects.</p></body></html>`)
		case "/spec.txt":
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "Glulam beam specification for timber halls.\n")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err != nil {
		t.Logf("stderr: %s", stderr.String())
	}
	return stdout.String(), err
}

func TestIntegration_CrawlWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := newTimberSite(t)

	dir := t.TempDir()
	dbDir := filepath.Join(dir, "db")
	downloadDir := filepath.Join(dir, "downloads")
	configPath := filepath.Join(dir, "woodspider.yaml")
	configYAML := fmt.Sprintf("db_dir: %q\ndownload_dir: %q\ncrawl_delay: 0s\ntimeout: 5s\n", dbDir, downloadDir)
	if err := os.WriteFile(configPath, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	catalogPath := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalogPath, []byte(integrationCatalog), 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	t.Run("catalog import", func(t *testing.T) {
		out, err := runCLI(t, "-c", configPath, "catalog", "import", catalogPath)
		if err != nil {
			t.Fatalf("catalog import failed: %v", err)
		}
		if !strings.Contains(out, "Imported 3 keywords") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("seed", func(t *testing.T) {
		seedPath := filepath.Join(dir, "seeds.html")
		seedHTML := fmt.Sprintf(`<html><body>
<a href="%[1]s/seeded-a">A</a>
<a href="%[1]s/seeded-b">B</a>
<a href="mailto:info@example.com">Mail</a>
</body></html>`, server.URL)
		if err := os.WriteFile(seedPath, []byte(seedHTML), 0o600); err != nil {
			t.Fatalf("failed to write seed file: %v", err)
		}

		out, err := runCLI(t, "-c", configPath, "seed", seedPath)
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		if !strings.Contains(out, "2 Links added") {
			t.Errorf("expected 2 links added, got %q", out)
		}
	})

	t.Run("url", func(t *testing.T) {
		out, err := runCLI(t, "-c", configPath, "url", server.URL+"/")
		if err != nil {
			t.Fatalf("url failed: %v", err)
		}
		if !strings.Contains(out, "Links added") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("crawl explore", func(t *testing.T) {
		out, err := runCLI(t, "-c", configPath, "crawl", "explore", "--limit", "5")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if !strings.Contains(out, "Crawl explore finished") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("json report", func(t *testing.T) {
		out, err := runCLI(t, "-c", configPath, "report", "--json")
		if err != nil {
			t.Fatalf("report failed: %v", err)
		}

		var doc report.JSONReport
		if err := json.Unmarshal([]byte(out), &doc); err != nil {
			t.Fatalf("report is not valid JSON: %v\n%s", err, out)
		}
		if doc.TotalLinks < 4 {
			t.Errorf("expected at least 4 links, got %d", doc.TotalLinks)
		}
		if doc.StatusCounts["EXPLORED_MATCH"] < 1 {
			t.Errorf("expected an explored match, got %v", doc.StatusCounts)
		}
		if len(doc.RecentSessions) == 0 {
			t.Error("expected the seed and crawl sessions in the journal")
		}
	})

	t.Run("markdown report to file", func(t *testing.T) {
		reportPath := filepath.Join(dir, "reports", "crawl.md")
		out, err := runCLI(t, "-c", configPath, "report", "--markdown", "-o", reportPath)
		if err != nil {
			t.Fatalf("report failed: %v", err)
		}
		if !strings.Contains(out, "Report written to") {
			t.Errorf("unexpected output: %q", out)
		}
		content, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("report file not written: %v", err)
		}
		if !strings.Contains(string(content), "# Woodspider Crawl Report") {
			t.Errorf("unexpected report content:\n%s", content)
		}
	})

	t.Run("matching document kept", func(t *testing.T) {
		entries, err := os.ReadDir(downloadDir)
		if err != nil {
			t.Fatalf("failed to read download dir: %v", err)
		}
		found := false
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), "-spec.txt") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a downloaded spec.txt, got %v", entries)
		}
	})
}

func TestIntegration_ConfigErrors(t *testing.T) {
	t.Run("missing explicit config file", func(t *testing.T) {
		_, err := runCLI(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), "report")
		if err == nil || !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("invalid crawl mode", func(t *testing.T) {
		_, err := runCLI(t, "--db-dir", t.TempDir(), "crawl", "sideways")
		if err == nil {
			t.Error("expected error for unknown crawl mode")
		}
	})
}
