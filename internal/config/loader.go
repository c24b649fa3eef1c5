package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".woodspider"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of the .woodspider configuration file.
// Every field is optional; unset fields keep the current value.
type File struct {
	DBDir              string        `yaml:"db_dir,omitempty"`
	DownloadDir        string        `yaml:"download_dir,omitempty"`
	ErrorLog           string        `yaml:"error_log,omitempty"`
	AgentName          string        `yaml:"agent_name,omitempty"`
	UserAgent          string        `yaml:"user_agent,omitempty"`
	ProxyAddress       string        `yaml:"proxy,omitempty"`
	Timeout            time.Duration `yaml:"timeout,omitempty"`
	CrawlDelay         time.Duration `yaml:"crawl_delay,omitempty"`
	MaxTraverseDepth   int           `yaml:"max_traverse_depth,omitempty"`
	ShallowSearchDepth int           `yaml:"shallow_search_depth,omitempty"`
	StaleTTL           time.Duration `yaml:"stale_ttl,omitempty"`
	LinkLimit          int           `yaml:"link_limit,omitempty"`
	Workers            int           `yaml:"workers,omitempty"`
	MaxKeywordHits     int           `yaml:"max_keyword_hits,omitempty"`
	MaxDisallows       int           `yaml:"max_disallows,omitempty"`
	MaxSearchKeywords  int           `yaml:"max_search_keywords,omitempty"`
	MaxExcludeKeywords int           `yaml:"max_exclude_keywords,omitempty"`
	MaxExcludeSites    int           `yaml:"max_exclude_sites,omitempty"`
	RobotsMatch        string        `yaml:"robots_match,omitempty"`
	MaxBodySize        int64         `yaml:"max_body_size,omitempty"`
	MaxDownloadSize    int64         `yaml:"max_download_size,omitempty"`

	// CrawlDelaySet distinguishes an explicit "crawl_delay: 0s" from an
	// absent key.
	CrawlDelaySet bool `yaml:"-"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err == nil {
		_, cf.CrawlDelaySet = keys["crawl_delay"]
	}
	return &cf, nil
}

// Apply copies every set field of f into c.
func (f *File) Apply(c *Config) {
	setString(&c.DBDir, f.DBDir)
	setString(&c.DownloadDir, f.DownloadDir)
	setString(&c.ErrorLog, f.ErrorLog)
	setString(&c.AgentName, f.AgentName)
	setString(&c.UserAgent, f.UserAgent)
	setString(&c.ProxyAddress, f.ProxyAddress)
	setString(&c.RobotsMatch, f.RobotsMatch)

	set(&c.Timeout, f.Timeout)
	if f.CrawlDelaySet || f.CrawlDelay != 0 {
		c.CrawlDelay = f.CrawlDelay
	}
	set(&c.StaleTTL, f.StaleTTL)

	set(&c.MaxTraverseDepth, f.MaxTraverseDepth)
	set(&c.ShallowSearchDepth, f.ShallowSearchDepth)
	set(&c.LinkLimit, f.LinkLimit)
	set(&c.Workers, f.Workers)
	set(&c.MaxKeywordHits, f.MaxKeywordHits)
	set(&c.MaxDisallows, f.MaxDisallows)
	set(&c.MaxSearchKeywords, f.MaxSearchKeywords)
	set(&c.MaxExcludeKeywords, f.MaxExcludeKeywords)
	set(&c.MaxExcludeSites, f.MaxExcludeSites)
	set(&c.MaxBodySize, f.MaxBodySize)
	set(&c.MaxDownloadSize, f.MaxDownloadSize)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func set[T int | int64 | time.Duration](dst *T, v T) {
	if v != 0 {
		*dst = v
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .woodspider in the current directory
// 3. Look for .woodspider in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
