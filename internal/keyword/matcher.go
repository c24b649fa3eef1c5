package keyword

import (
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/woodspider/internal/model"
)

// DefaultMaxHits is the number of keyword hits after which matching stops.
const DefaultMaxHits = 100

// Result is the outcome of a keyword scan.
type Result struct {
	// IDs lists the matched keyword identifiers in catalog order.
	IDs []int
}

// Count returns the number of matched keywords.
func (r Result) Count() int {
	return len(r.IDs)
}

// Matcher scans text against a keyword catalog in two phases.
//
// Phase one tests the domain-specific keywords (identifier below
// model.CoreKeywordLimit). Phase two tests the general keywords, and only
// runs when phase one found at least one hit. Matching stops as soon as
// maxHits keywords have matched.
type Matcher struct {
	core    []model.KeywordEntry
	general []model.KeywordEntry
	maxHits int
	logger  *slog.Logger
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithMaxHits sets the hit cap. Non-positive values are ignored.
func WithMaxHits(n int) MatcherOption {
	return func(m *Matcher) {
		if n > 0 {
			m.maxHits = n
		}
	}
}

// WithLogger sets the logger used to report the hit cap being reached.
func WithLogger(logger *slog.Logger) MatcherOption {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// NewMatcher creates a Matcher for the given catalog. The catalog order is
// preserved inside each phase.
func NewMatcher(catalog []model.KeywordEntry, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		maxHits: DefaultMaxHits,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	upper := cases.Upper(language.Und)
	for _, entry := range catalog {
		entry.Keyword = upper.String(entry.Keyword)
		if entry.Keyword == "" {
			continue
		}
		if entry.IsCore() {
			m.core = append(m.core, entry)
		} else {
			m.general = append(m.general, entry)
		}
	}
	return m
}

// Match scans text and returns the matched keyword identifiers.
// If no domain-specific keyword matches, the result is empty regardless of
// how many general keywords occur in the text.
func (m *Matcher) Match(text string) Result {
	if text == "" {
		return Result{}
	}
	// A Caser carries state, so each call uses its own.
	upper := cases.Upper(language.Und).String(text)

	var ids []int
	ids, done := m.scan(upper, m.core, ids, "core")
	if done || len(ids) == 0 {
		return Result{IDs: ids}
	}
	ids, _ = m.scan(upper, m.general, ids, "general")
	return Result{IDs: ids}
}

func (m *Matcher) scan(text string, entries []model.KeywordEntry, ids []int, phase string) ([]int, bool) {
	for _, entry := range entries {
		if !strings.Contains(text, entry.Keyword) {
			continue
		}
		ids = append(ids, entry.ID)
		if len(ids) >= m.maxHits {
			m.logger.Debug("maximum keyword hits reached, stopping scan",
				"phase", phase,
				"hits", len(ids),
			)
			return ids, true
		}
	}
	return ids, false
}
