// Package linkurl canonicalizes crawl URLs and classifies them by type.
//
// The functions here operate on plain strings instead of *url.URL because
// links are keyed by their exact text in the frontier store, and the
// canonical form must be stable across releases. Derivation of the root URL
// and main domain is a heuristic, not a public-suffix lookup.
package linkurl
