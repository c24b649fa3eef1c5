package model

import (
	"fmt"
	"strings"
)

// CrawlMode selects which frontier entries a crawl session works on.
type CrawlMode int

const (
	// ModeExplore selects links that were never explored.
	ModeExplore CrawlMode = iota + 1

	// ModeUpdate selects links whose age reached the staleness TTL.
	ModeUpdate

	// ModeResource selects unexplored links that point at documents.
	ModeResource
)

// String returns the command-line name of the mode.
func (m CrawlMode) String() string {
	switch m {
	case ModeExplore:
		return "explore"
	case ModeUpdate:
		return "update"
	case ModeResource:
		return "resource"
	default:
		return "unknown"
	}
}

// ParseCrawlMode converts a command-line mode name to a CrawlMode.
func ParseCrawlMode(name string) (CrawlMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "explore":
		return ModeExplore, nil
	case "update":
		return ModeUpdate, nil
	case "resource":
		return ModeResource, nil
	default:
		return 0, fmt.Errorf("unrecognized crawl mode %q (want explore, update or resource)", name)
	}
}
