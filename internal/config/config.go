package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/woodspider/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "woodspider"

	// DefaultAgentName is the robots.txt user-agent token the crawler
	// answers to besides "*".
	DefaultAgentName = "WoodBot"

	// DefaultUserAgent identifies the crawler in HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (compatible; WoodBot/1.0; +https://github.com/nao1215/woodspider)"

	// DefaultTimeout bounds every page, robots.txt and resource request.
	DefaultTimeout = 5 * time.Second

	// DefaultCrawlDelay is the pause between session-driven fetches.
	DefaultCrawlDelay = 3 * time.Second

	// DefaultMaxTraverseDepth is the deepest level a link is stored at.
	DefaultMaxTraverseDepth = 7

	// DefaultShallowSearchDepth is the level up to which pages without
	// keywords are still expanded.
	DefaultShallowSearchDepth = 4

	// DefaultStaleTTL is the age after which explored links are re-crawled.
	DefaultStaleTTL = 30 * 24 * time.Hour

	// DefaultLinkLimit is the number of frontier entries processed per session.
	DefaultLinkLimit = 10000

	DefaultMaxKeywordHits = 100
	DefaultMaxDisallows   = 250

	// DefaultMaxBodySize limits how much of an HTML page is read.
	DefaultMaxBodySize = model.MaxPageSize

	// DefaultMaxDownloadSize limits how much of a resource is downloaded.
	DefaultMaxDownloadSize = 50 * 1024 * 1024

	// DefaultWorkers processes one URL at a time.
	DefaultWorkers = 1

	// DefaultRobotsMatch keeps exact-string disallow matching.
	DefaultRobotsMatch = "exact"
)

// Config holds all configuration options for woodspider.
// It is populated from defaults, the optional configuration file and CLI
// flags, in that order, and passed to each component by the command layer.
type Config struct {
	// DBDir is the directory holding the SQLite frontier database.
	// Defaults to the XDG data directory (~/.local/share/woodspider on Linux).
	DBDir string

	// DownloadDir is where intercepted resources are stored.
	// Defaults to <XDG data dir>/downloads.
	DownloadDir string

	// ConfigFilePath is the path to the configuration file. If empty,
	// .woodspider is searched in the current and the home directory.
	ConfigFilePath string

	// Verbose enables debug logging.
	Verbose bool

	// ErrorLog, when set, receives every warning and error in addition to
	// stderr.
	ErrorLog string

	// AgentName is matched against robots.txt User-agent lines.
	AgentName string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// ProxyAddress routes crawler traffic through a SOCKS5 proxy ("host:port").
	ProxyAddress string

	// Timeout bounds each network operation.
	Timeout time.Duration

	// CrawlDelay is the pause between session-driven fetches; per origin when
	// Workers is above one.
	CrawlDelay time.Duration

	// MaxTraverseDepth is the deepest level a link may be stored at.
	MaxTraverseDepth int

	// ShallowSearchDepth is the level up to which pages without keywords are
	// still stored as matches and expanded.
	ShallowSearchDepth int

	// StaleTTL is the age after which an explored link is fetched again.
	StaleTTL time.Duration

	// LinkLimit is the maximum number of frontier entries processed by one
	// crawl session.
	LinkLimit int

	// Workers is the number of URLs processed concurrently.
	Workers int

	// MaxKeywordHits caps the keywords matched per page.
	MaxKeywordHits int

	// MaxDisallows caps the robots.txt entries kept per site.
	MaxDisallows int

	// Catalog capacity limits applied when the catalogs are loaded.
	MaxSearchKeywords  int
	MaxExcludeKeywords int
	MaxExcludeSites    int

	// RobotsMatch is "exact" (default) or "prefix".
	RobotsMatch string

	MaxBodySize     int64
	MaxDownloadSize int64

	// MarkdownReport selects the Markdown report format.
	MarkdownReport bool

	// JSONReport selects the JSON report format.
	JSONReport bool

	// ReportFile is the output path of the report; stdout when empty.
	ReportFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	limits := model.DefaultCatalogLimits()
	return &Config{
		DBDir:              XDGDataDir(),
		DownloadDir:        filepath.Join(XDGDataDir(), "downloads"),
		AgentName:          DefaultAgentName,
		UserAgent:          DefaultUserAgent,
		Timeout:            DefaultTimeout,
		CrawlDelay:         DefaultCrawlDelay,
		MaxTraverseDepth:   DefaultMaxTraverseDepth,
		ShallowSearchDepth: DefaultShallowSearchDepth,
		StaleTTL:           DefaultStaleTTL,
		LinkLimit:          DefaultLinkLimit,
		Workers:            DefaultWorkers,
		MaxKeywordHits:     DefaultMaxKeywordHits,
		MaxDisallows:       DefaultMaxDisallows,
		MaxSearchKeywords:  limits.MaxSearchKeywords,
		MaxExcludeKeywords: limits.MaxExcludeKeywords,
		MaxExcludeSites:    limits.MaxExcludeSites,
		RobotsMatch:        DefaultRobotsMatch,
		MaxBodySize:        DefaultMaxBodySize,
		MaxDownloadSize:    DefaultMaxDownloadSize,
	}
}

// CatalogLimits returns the configured catalog capacity limits.
func (c *Config) CatalogLimits() model.CatalogLimits {
	return model.CatalogLimits{
		MaxSearchKeywords:  c.MaxSearchKeywords,
		MaxExcludeKeywords: c.MaxExcludeKeywords,
		MaxExcludeSites:    c.MaxExcludeSites,
	}
}

// XDGDataDir returns the XDG data directory for woodspider.
// On Linux: ~/.local/share/woodspider
// On macOS: ~/Library/Application Support/woodspider
// On Windows: %LOCALAPPDATA%\woodspider
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for woodspider.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxBodySize < 0 || c.MaxDownloadSize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MaxTraverseDepth < 1 || c.ShallowSearchDepth < 0 {
		return ErrInvalidDepth
	}
	if c.LinkLimit <= 0 {
		return ErrInvalidLinkLimit
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.StaleTTL < 24*time.Hour {
		return ErrInvalidStaleTTL
	}
	if c.RobotsMatch != "exact" && c.RobotsMatch != "prefix" {
		return ErrInvalidRobotsMatch
	}
	if c.AgentName == "" {
		return ErrEmptyAgentName
	}
	return nil
}
