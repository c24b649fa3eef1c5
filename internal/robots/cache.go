package robots

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache holds the policies read during one crawl session, keyed by root URL.
// Concurrent lookups of the same root share a single robots.txt fetch.
// A Cache is safe for concurrent use.
type Cache struct {
	reader   *Reader
	mu       sync.RWMutex
	policies map[string]*Policy
	group    singleflight.Group
}

// NewCache creates an empty session cache backed by reader.
func NewCache(reader *Reader) *Cache {
	return &Cache{
		reader:   reader,
		policies: make(map[string]*Policy),
	}
}

// Policy returns the policy for rootURL, reading robots.txt on first use.
func (c *Cache) Policy(ctx context.Context, rootURL string) *Policy {
	c.mu.RLock()
	p, ok := c.policies[rootURL]
	c.mu.RUnlock()
	if ok {
		return p
	}

	v, _, _ := c.group.Do(rootURL, func() (any, error) {
		policy := c.reader.Read(ctx, rootURL)
		c.mu.Lock()
		c.policies[rootURL] = policy
		c.mu.Unlock()
		return policy, nil
	})
	return v.(*Policy) //nolint:forcetypeassert // only *Policy is stored
}

// Len returns the number of cached policies.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.policies)
}
