package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidTimeout is returned when the network timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidDepth is returned when the maximum traverse depth is below 1
	// or the shallow search depth is negative.
	ErrInvalidDepth = errors.New("invalid depth: max traverse depth must be at least 1 and shallow search depth non-negative")

	// ErrInvalidLinkLimit is returned when the per-session link limit is not positive.
	ErrInvalidLinkLimit = errors.New("invalid link limit: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidStaleTTL is returned when the staleness TTL is shorter than a day.
	ErrInvalidStaleTTL = errors.New("invalid stale ttl: must be at least 24h")

	// ErrInvalidRobotsMatch is returned for an unknown robots matching mode.
	ErrInvalidRobotsMatch = errors.New("invalid robots match mode: use exact or prefix")

	// ErrEmptyAgentName is returned when the robots agent name is empty.
	ErrEmptyAgentName = errors.New("agent name must not be empty")
)
