package model

import (
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CoreKeywordLimit partitions the keyword catalog: identifiers below it are
// domain-specific (phase one), identifiers at or above it are general.
const CoreKeywordLimit = 200

// KeywordEntry is one keyword of the search catalog.
type KeywordEntry struct {
	Keyword string
	ID      int
}

// IsCore reports whether the keyword belongs to the domain-specific partition.
func (k KeywordEntry) IsCore() bool {
	return k.ID < CoreKeywordLimit
}

// CatalogLimits caps the size of each catalog loaded from the store.
type CatalogLimits struct {
	MaxSearchKeywords  int
	MaxExcludeKeywords int
	MaxExcludeSites    int
}

// DefaultCatalogLimits returns the capacity caps used when none are configured.
func DefaultCatalogLimits() CatalogLimits {
	return CatalogLimits{
		MaxSearchKeywords:  500,
		MaxExcludeKeywords: 100,
		MaxExcludeSites:    200,
	}
}

// Catalogs holds the keyword and exclusion catalogs. It is built once per
// process and shared read-only by every component.
type Catalogs struct {
	keywords          []KeywordEntry
	exclusionSites    []string
	exclusionKeywords []string
}

// NewCatalogs builds immutable catalogs from the given lists, keeping their
// order. Lists longer than their cap are truncated and the truncation is
// logged. Keywords are upper-cased so they compare against upper-cased text;
// exclusion sites are case-folded.
func NewCatalogs(keywords []KeywordEntry, sites, junk []string, limits CatalogLimits, logger *slog.Logger) *Catalogs {
	if logger == nil {
		logger = slog.Default()
	}

	keywords = capList(keywords, limits.MaxSearchKeywords, "search keywords", logger)
	sites = capList(sites, limits.MaxExcludeSites, "exclusion sites", logger)
	junk = capList(junk, limits.MaxExcludeKeywords, "exclusion keywords", logger)

	upper := cases.Upper(language.Und)
	fold := cases.Fold()

	c := &Catalogs{
		keywords:          make([]KeywordEntry, 0, len(keywords)),
		exclusionSites:    make([]string, 0, len(sites)),
		exclusionKeywords: make([]string, 0, len(junk)),
	}
	for _, k := range keywords {
		kw := strings.TrimSpace(k.Keyword)
		if kw == "" {
			continue
		}
		c.keywords = append(c.keywords, KeywordEntry{Keyword: upper.String(kw), ID: k.ID})
	}
	for _, s := range sites {
		if s = strings.TrimSpace(s); s != "" {
			c.exclusionSites = append(c.exclusionSites, fold.String(s))
		}
	}
	for _, j := range junk {
		if j = strings.TrimSpace(j); j != "" {
			c.exclusionKeywords = append(c.exclusionKeywords, upper.String(j))
		}
	}
	return c
}

// Keywords returns a copy of the search keyword catalog in catalog order.
func (c *Catalogs) Keywords() []KeywordEntry {
	return append([]KeywordEntry(nil), c.keywords...)
}

// ExclusionSites returns a copy of the blocked main domains.
func (c *Catalogs) ExclusionSites() []string {
	return append([]string(nil), c.exclusionSites...)
}

// ExclusionKeywords returns a copy of the junk terms.
func (c *Catalogs) ExclusionKeywords() []string {
	return append([]string(nil), c.exclusionKeywords...)
}

func capList[T any](list []T, limit int, name string, logger *slog.Logger) []T {
	if limit <= 0 || len(list) <= limit {
		return list
	}
	logger.Warn("catalog capacity reached, truncating list",
		"catalog", name,
		"loaded", len(list),
		"limit", limit,
	)
	return list[:limit]
}
