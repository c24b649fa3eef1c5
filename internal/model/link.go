package model

import (
	"time"
	"unicode/utf8"
)

// NoLinkID is the identifier placeholder for a link whose ID is not known
// yet. It is also the referrer of root-seeded links.
const NoLinkID int64 = -1

// Truncation limits for stored page text.
const (
	// MaxTitleLength is the number of characters kept from a page title.
	MaxTitleLength = 80

	// MaxSynopsisLength is the number of body-text characters kept as synopsis.
	MaxSynopsisLength = 1024
)

// LinkRecord is one entry of the crawl frontier.
// The URL is the unique key; ID is the numeric identifier reserved from the
// store's monotonic counter.
type LinkRecord struct {
	// ID is the link identifier, or NoLinkID when not yet reserved.
	ID int64

	// URL is the canonical (standardized) URL.
	URL string

	// Title is the page title, at most MaxTitleLength characters.
	Title string

	// Synopsis holds the first MaxSynopsisLength characters of body text.
	Synopsis string

	// DownloadPath is the local path of a retained resource artifact.
	DownloadPath string

	// ContentHash is the SHA3-256 digest of a downloaded resource.
	ContentHash string

	// Discovered is when the link was first stored.
	Discovered time.Time

	// LastExplored is when the link was last fetched. Zero if never.
	LastExplored time.Time

	// KeywordCount is the number of matched catalog keywords.
	KeywordCount int

	// Status is the exploration status.
	Status Status

	// Level is the crawl depth of the link.
	Level int

	// ReferrerID is the ID of the page the link was discovered on,
	// or NoLinkID for seeds.
	ReferrerID int64
}

// LinkState is the subset of a stored link needed by the re-crawl gate.
type LinkState struct {
	ID         int64
	Status     Status
	Discovered time.Time

	// AgeDays is the number of whole days since the link was last explored,
	// or since discovery if it was never explored.
	AgeDays int
}

// Candidate is a frontier entry selected for processing by a crawl session.
type Candidate struct {
	ID         int64
	URL        string
	Level      int
	ReferrerID int64
}

// Truncate returns at most n characters (runes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// AgeInDays returns the number of whole days between since and now.
// Negative ages (clock skew) are reported as zero.
func AgeInDays(since, now time.Time) int {
	if since.IsZero() {
		return 0
	}
	days := int(now.Sub(since).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
