package model

import (
	"fmt"
	"strings"
)

// Status is the exploration state of a link in the frontier.
//
// The numeric values are persisted in the links table and must not be
// renumbered. Every status other than StatusUnexplored is terminal unless
// the link is picked up again by an update-mode session.
type Status int

const (
	// StatusExploredNoMatch marks a fetched page or resource with no relevant
	// keywords beyond the shallow search depth.
	StatusExploredNoMatch Status = 0

	// StatusExploredJunk is reserved for pages that contain exclusion keywords.
	// The crawler computes the junk signal but never assigns this status.
	StatusExploredJunk Status = 5

	// StatusExploredMatch marks a page with keyword hits, or a keyword-less
	// page that is still within the shallow search depth.
	StatusExploredMatch Status = 10

	// StatusUnexplored is the initial status of every discovered link.
	StatusUnexplored Status = 30

	// StatusIncomplete marks a link whose processing was interrupted.
	StatusIncomplete Status = 35

	// StatusDisallowed marks a link forbidden by robots rules.
	StatusDisallowed Status = 40

	// StatusWebError marks a link whose fetch or download failed.
	StatusWebError Status = 50
)

// String returns the upper-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusExploredNoMatch:
		return "EXPLORED_NO_MATCH"
	case StatusExploredJunk:
		return "EXPLORED_JUNK"
	case StatusExploredMatch:
		return "EXPLORED_MATCH"
	case StatusUnexplored:
		return "UNEXPLORED"
	case StatusIncomplete:
		return "INCOMPLETE"
	case StatusDisallowed:
		return "DISALLOWED"
	case StatusWebError:
		return "WEB_ERROR"
	default:
		return fmt.Sprintf("STATUS(%d)", int(s))
	}
}

// AllStatuses lists every status in display order.
func AllStatuses() []Status {
	return []Status{
		StatusExploredMatch,
		StatusExploredNoMatch,
		StatusExploredJunk,
		StatusUnexplored,
		StatusIncomplete,
		StatusDisallowed,
		StatusWebError,
	}
}

// ParseStatus converts a status name (case-insensitive) back to a Status.
func ParseStatus(name string) (Status, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, s := range AllStatuses() {
		if s.String() == upper {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown link status %q", name)
}

// NeedsProcessing reports whether a stored link must be fetched again: it was
// never explored, was interrupted, failed on the network, or its age reached
// the staleness TTL.
func NeedsProcessing(status Status, ageDays, ttlDays int) bool {
	switch status {
	case StatusUnexplored, StatusIncomplete, StatusWebError:
		return true
	}
	return ageDays >= ttlDays
}

// ArbitrateStatus decides which status to keep when newStatus is about to
// overwrite storedStatus. A previously unexplored link always takes the new
// status; an explored (or failed) link is never reset to StatusUnexplored.
func ArbitrateStatus(newStatus, storedStatus Status) Status {
	if storedStatus == StatusUnexplored {
		return newStatus
	}
	if newStatus == StatusUnexplored {
		return storedStatus
	}
	return newStatus
}
