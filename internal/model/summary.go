package model

import "time"

// CatalogEntries is the content of a keyword catalog file, as imported into
// the store.
type CatalogEntries struct {
	Keywords          []KeywordEntry
	ExclusionSites    []string
	ExclusionKeywords []string
}

// CrawlSession is one entry of the crawl-session journal.
type CrawlSession struct {
	// ID is the session's UUID.
	ID string

	// Mode is the candidate selection mode, or "seed" for seed imports.
	Mode string

	Started  time.Time
	Finished time.Time

	// Processed is the number of candidates handed to the orchestrator.
	Processed int

	// Added is the number of outbound links enqueued during the session.
	Added int

	// Failed is the number of candidates whose processing returned an error.
	Failed int
}

// KeywordCount is the number of links that matched one keyword.
type KeywordCount struct {
	ID      int
	Keyword string
	Links   int
}

// DuplicateResource lists links whose downloaded content is byte-identical.
type DuplicateResource struct {
	Hash string
	URLs []string
}

// CrawlSummary aggregates the frontier state for reports.
type CrawlSummary struct {
	GeneratedAt        time.Time
	TotalLinks         int
	StatusCounts       map[Status]int
	TopKeywords        []KeywordCount
	RecentMatches      []LinkRecord
	DuplicateResources []DuplicateResource
	RecentSessions     []CrawlSession
}
