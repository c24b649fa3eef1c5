// Package robots reads a site's robots.txt into a disallow list for the
// crawler's agent and answers whether a URL may be fetched.
//
// The default matching mode compares the full URL against each disallowed
// entry for exact equality, so "/search" does not block "/search/foo".
// MatchPrefix switches to standard robots.txt path matching backed by
// github.com/temoto/robotstxt.
//
// Policies are session scoped: a Cache keeps one policy per root URL for the
// lifetime of a crawl session and never persists them.
package robots
