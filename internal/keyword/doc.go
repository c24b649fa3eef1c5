// Package keyword classifies page and document text against the keyword and
// exclusion catalogs.
//
// The Matcher performs plain substring containment on upper-cased text. It
// does not tokenize, so a short keyword can match inside a longer word; the
// curated catalogs rely on this.
package keyword
