package robots

import (
	"fmt"
	"strings"

	"github.com/temoto/robotstxt"
)

// MatchMode selects how URLs are compared against the disallow list.
type MatchMode int

const (
	// MatchExact forbids a URL only when it equals a disallowed entry.
	MatchExact MatchMode = iota

	// MatchPrefix applies robots.txt path-prefix and wildcard rules.
	MatchPrefix
)

// String returns the configuration name of the mode.
func (m MatchMode) String() string {
	if m == MatchPrefix {
		return "prefix"
	}
	return "exact"
}

// ParseMatchMode converts a configuration value to a MatchMode.
// An empty value selects MatchExact.
func ParseMatchMode(name string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "exact":
		return MatchExact, nil
	case "prefix":
		return MatchPrefix, nil
	default:
		return MatchExact, fmt.Errorf("unknown robots match mode %q (want exact or prefix)", name)
	}
}

// Policy is the disallow list of one site for the crawler's agent.
// The zero value allows everything.
type Policy struct {
	root      string
	disallows []string
	mode      MatchMode
	group     *robotstxt.Group
}

// NewPolicy returns an exact-match policy for root with the given disallowed
// entries.
func NewPolicy(root string, disallows []string) *Policy {
	return &Policy{
		root:      root,
		disallows: append([]string(nil), disallows...),
		mode:      MatchExact,
	}
}

// Root returns the root URL the policy was read for.
func (p *Policy) Root() string {
	return p.root
}

// Disallows returns a copy of the disallowed entries (root URL + path).
func (p *Policy) Disallows() []string {
	return append([]string(nil), p.disallows...)
}

// IsForbidden reports whether url must not be fetched.
func (p *Policy) IsForbidden(url string) bool {
	if p == nil {
		return false
	}
	if p.mode == MatchPrefix && p.group != nil {
		return p.forbiddenByPrefix(url)
	}
	return IsForbidden(url, p.disallows)
}

func (p *Policy) forbiddenByPrefix(url string) bool {
	if !strings.HasPrefix(url, p.root) {
		return false
	}
	path := strings.TrimPrefix(url, p.root)
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return !p.group.Test(path)
}

// IsForbidden reports whether disallows contains "*" or exactly url.
func IsForbidden(url string, disallows []string) bool {
	for _, entry := range disallows {
		if entry == "*" || entry == url {
			return true
		}
	}
	return false
}
