package linkurl

import "strings"

// minStandardLength is the length below which a string is returned by
// Standardize unchanged.
const minStandardLength = 5

// Standardize returns the canonical form of rawURL: a single trailing slash
// is removed and everything from the first '&' onward is dropped.
// Strings shorter than five characters are returned as-is.
//
// Fragments and query strings are kept.
func Standardize(rawURL string) string {
	if len(rawURL) < minStandardLength {
		return rawURL
	}

	clean := strings.TrimSuffix(rawURL, "/")
	if idx := strings.Index(clean, "&"); idx > 0 {
		clean = clean[:idx]
	}
	return clean
}

// RootOf returns the scheme and host portion of rawURL: the text up to, but
// excluding, the first '/' after the scheme separator, further truncated at
// the first '?'.
//
// Example:
//
//	RootOf("https://www.example.com/a/b?c") // "https://www.example.com"
func RootOf(rawURL string) string {
	start := 0
	if idx := strings.Index(rawURL, "://"); idx >= 0 {
		start = idx + len("://")
	}

	root := rawURL
	if idx := strings.Index(rawURL[start:], "/"); idx >= 0 {
		root = rawURL[:start+idx]
	}
	if idx := strings.Index(root, "?"); idx > 0 {
		root = root[:idx]
	}
	return root
}

// MainDomainOf derives the registrable domain from a root URL.
//
// It walks backward from the last '.', returning everything after the
// previous '.' unless the segment between them is "co" (as in co.uk), in
// which case it keeps walking. A '/' encountered first ends the walk.
// A root without any dot yields an empty string.
//
// Example:
//
//	MainDomainOf("http://www.example.co.uk") // "example.co.uk"
//	MainDomainOf("http://sub.example.com")   // "example.com"
func MainDomainOf(rootURL string) string {
	lastDot := strings.LastIndex(rootURL, ".")
	for i := lastDot - 1; i > 0; i-- {
		switch rootURL[i] {
		case '.':
			if rootURL[i+1:lastDot] != "co" {
				return rootURL[i+1:]
			}
		case '/':
			return rootURL[i+1:]
		}
	}
	return ""
}

// SameSite reports whether two main domains identify the same site.
func SameSite(a, b string) bool {
	return strings.EqualFold(a, b)
}
