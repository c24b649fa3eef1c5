package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig documents the default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Timeout", cfg.Timeout, 5 * time.Second},
		{"CrawlDelay", cfg.CrawlDelay, 3 * time.Second},
		{"MaxTraverseDepth", cfg.MaxTraverseDepth, 7},
		{"ShallowSearchDepth", cfg.ShallowSearchDepth, 4},
		{"StaleTTL", cfg.StaleTTL, 30 * 24 * time.Hour},
		{"LinkLimit", cfg.LinkLimit, 10000},
		{"Workers", cfg.Workers, 1},
		{"MaxKeywordHits", cfg.MaxKeywordHits, 100},
		{"MaxDisallows", cfg.MaxDisallows, 250},
		{"MaxSearchKeywords", cfg.MaxSearchKeywords, 500},
		{"MaxExcludeKeywords", cfg.MaxExcludeKeywords, 100},
		{"MaxExcludeSites", cfg.MaxExcludeSites, 200},
		{"AgentName", cfg.AgentName, "WoodBot"},
		{"RobotsMatch", cfg.RobotsMatch, "exact"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.want {
				t.Errorf("default %s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	t.Run("storage lives in the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("DBDir = %q, want %q", cfg.DBDir, XDGDataDir())
		}
		if cfg.DownloadDir != filepath.Join(XDGDataDir(), "downloads") {
			t.Errorf("DownloadDir = %q", cfg.DownloadDir)
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

// TestConfigValidate tests one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative delay", func(c *Config) { c.CrawlDelay = -time.Second }, ErrInvalidCrawlDelay},
		{"zero delay is allowed", func(c *Config) { c.CrawlDelay = 0 }, nil},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
		{"negative download size", func(c *Config) { c.MaxDownloadSize = -1 }, ErrInvalidMaxBodySize},
		{"zero max depth", func(c *Config) { c.MaxTraverseDepth = 0 }, ErrInvalidDepth},
		{"negative shallow depth", func(c *Config) { c.ShallowSearchDepth = -1 }, ErrInvalidDepth},
		{"zero link limit", func(c *Config) { c.LinkLimit = 0 }, ErrInvalidLinkLimit},
		{"zero workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
		{"ttl below a day", func(c *Config) { c.StaleTTL = time.Hour }, ErrInvalidStaleTTL},
		{"unknown robots mode", func(c *Config) { c.RobotsMatch = "glob" }, ErrInvalidRobotsMatch},
		{"prefix robots mode", func(c *Config) { c.RobotsMatch = "prefix" }, nil},
		{"empty agent", func(c *Config) { c.AgentName = "" }, ErrEmptyAgentName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile(filepath.Join(t.TempDir(), ".woodspider"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cf != nil {
			t.Error("expected nil file when not found")
		}
	})

	t.Run("applies set values only", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".woodspider")
		content := `db_dir: /var/lib/woodspider
timeout: 10s
crawl_delay: 0s
stale_ttl: 168h
workers: 4
robots_match: prefix
max_search_keywords: 50
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.DBDir != "/var/lib/woodspider" {
			t.Errorf("DBDir = %q", cfg.DBDir)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
		}
		if cfg.CrawlDelay != 0 {
			t.Errorf("CrawlDelay = %v, want 0 from explicit key", cfg.CrawlDelay)
		}
		if cfg.StaleTTL != 7*24*time.Hour {
			t.Errorf("StaleTTL = %v, want 168h", cfg.StaleTTL)
		}
		if cfg.Workers != 4 || cfg.RobotsMatch != "prefix" || cfg.MaxSearchKeywords != 50 {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.LinkLimit != DefaultLinkLimit || cfg.AgentName != DefaultAgentName {
			t.Error("unset keys changed defaults")
		}
	})

	t.Run("absent crawl delay keeps default", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".woodspider")
		if err := os.WriteFile(path, []byte("workers: 2\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg := NewConfig()
		cf.Apply(cfg)
		if cfg.CrawlDelay != DefaultCrawlDelay {
			t.Errorf("CrawlDelay = %v, want default", cfg.CrawlDelay)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".woodspider")
		if err := os.WriteFile(path, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestLoadCatalogFile(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write catalog: %v", err)
		}
		return path
	}

	t.Run("loads all lists in order", func(t *testing.T) {
		t.Parallel()

		path := write(t, `keywords:
  - {id: 1, keyword: glulam}
  - {id: 2, keyword: cross laminated timber}
  - {id: 200, keyword: building}
exclusion_sites: [facebook.com, twitter.com]
exclusion_keywords: [casino]
`)
		entries, err := LoadCatalogFile(path)
		if err != nil {
			t.Fatalf("LoadCatalogFile() error = %v", err)
		}
		if len(entries.Keywords) != 3 || entries.Keywords[1].Keyword != "cross laminated timber" || entries.Keywords[2].ID != 200 {
			t.Errorf("keywords = %+v", entries.Keywords)
		}
		if len(entries.ExclusionSites) != 2 || entries.ExclusionKeywords[0] != "casino" {
			t.Errorf("entries = %+v", entries)
		}
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		t.Parallel()

		path := write(t, "keywords:\n  - {id: 1, keyword: a}\n  - {id: 1, keyword: b}\n")
		_, err := LoadCatalogFile(path)
		if err == nil || !strings.Contains(err.Error(), "duplicate") {
			t.Errorf("LoadCatalogFile() error = %v, want duplicate id error", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadCatalogFile(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("workers: 1\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "none.yaml")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for _, dir := range []string{XDGDataDir(), XDGConfigDir()} {
		if !strings.HasSuffix(dir, AppName) {
			t.Errorf("expected %q to end with %q", dir, AppName)
		}
	}
}

func TestCatalogLimits(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.MaxExcludeSites = 3
	limits := cfg.CatalogLimits()
	if limits.MaxExcludeSites != 3 || limits.MaxSearchKeywords != 500 {
		t.Errorf("limits = %+v", limits)
	}
}
