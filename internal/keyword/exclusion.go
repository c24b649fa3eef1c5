package keyword

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExclusionFilter tests domains against the site blocklist and text against
// the junk-term catalog. Both comparisons ignore case.
type ExclusionFilter struct {
	sites map[string]struct{}
	junk  []string
}

// NewExclusionFilter creates a filter from the blocked main domains and the
// junk terms.
func NewExclusionFilter(sites, junk []string) *ExclusionFilter {
	f := &ExclusionFilter{
		sites: make(map[string]struct{}, len(sites)),
	}
	fold := cases.Fold()
	upper := cases.Upper(language.Und)
	for _, s := range sites {
		if s = strings.TrimSpace(s); s != "" {
			f.sites[fold.String(s)] = struct{}{}
		}
	}
	for _, j := range junk {
		if j = strings.TrimSpace(j); j != "" {
			f.junk = append(f.junk, upper.String(j))
		}
	}
	return f
}

// IsDomainExcluded reports whether mainDomain is on the blocklist.
func (f *ExclusionFilter) IsDomainExcluded(mainDomain string) bool {
	if mainDomain == "" {
		return false
	}
	_, ok := f.sites[cases.Fold().String(mainDomain)]
	return ok
}

// JunkTerm returns the first junk term found in text, if any.
func (f *ExclusionFilter) JunkTerm(text string) (string, bool) {
	if text == "" || len(f.junk) == 0 {
		return "", false
	}
	upper := cases.Upper(language.Und).String(text)
	for _, term := range f.junk {
		if strings.Contains(upper, term) {
			return term, true
		}
	}
	return "", false
}

// HasJunkKeyword reports whether text contains any junk term.
func (f *ExclusionFilter) HasJunkKeyword(text string) bool {
	_, ok := f.JunkTerm(text)
	return ok
}
