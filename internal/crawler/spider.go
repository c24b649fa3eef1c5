package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/woodspider/internal/database"
	"github.com/nao1215/woodspider/internal/keyword"
	"github.com/nao1215/woodspider/internal/linkurl"
	"github.com/nao1215/woodspider/internal/model"
	"github.com/nao1215/woodspider/internal/robots"
)

// DefaultShallowSearchDepth is the deepest level at which a page without
// keywords is still expanded.
const DefaultShallowSearchDepth = 4

// minRootLength is the shortest root URL accepted for an external link.
const minRootLength = 5

// PolicySource returns the robots policy of a site.
// *robots.Cache implements it.
type PolicySource interface {
	Policy(ctx context.Context, rootURL string) *robots.Policy
}

// Request describes one URL handed to the Spider.
type Request struct {
	// URL is the raw URL; it is standardized before use.
	URL string

	// LinkID is the stored identifier, or model.NoLinkID when unknown.
	LinkID int64

	// Update is set when the call refreshes stale information.
	Update bool

	// Level is the crawl depth of URL.
	Level int

	// ReferrerID is the identifier of the page URL was found on, or
	// model.NoLinkID for seeds.
	ReferrerID int64
}

// Spider processes one URL at a time: it normalizes and filters the URL,
// honors robots.txt, fetches and classifies the page, stores the result and
// enqueues the outbound links.
//
// A Spider is safe for concurrent use. Calls for the same URL are serialized.
type Spider struct {
	matcher      *keyword.Matcher
	exclusion    *keyword.ExclusionFilter
	fetcher      Fetcher
	interceptor  *ResourceInterceptor
	policies     PolicySource
	opener       StoreOpener
	shallowDepth int
	staleTTLDays int
	maxHits      int
	locks        *keyedMutex
	logger       *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithShallowSearchDepth sets the level up to which pages without keywords
// are still stored as matches and expanded.
func WithShallowSearchDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.shallowDepth = depth
	}
}

// WithStaleTTL sets the age after which an explored link is fetched again.
func WithStaleTTL(ttl time.Duration) SpiderOption {
	return func(s *Spider) {
		if days := int(ttl / (24 * time.Hour)); days > 0 {
			s.staleTTLDays = days
		}
	}
}

// WithStoreOpener sets the opener used when ProcessURL is called without a
// store.
func WithStoreOpener(opener StoreOpener) SpiderOption {
	return func(s *Spider) {
		s.opener = opener
	}
}

// WithSpiderLogger sets the logger.
func WithSpiderLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxKeywordHits caps the number of keyword identifiers matched per page.
func WithMaxKeywordHits(n int) SpiderOption {
	return func(s *Spider) {
		s.maxHits = n
	}
}

// NewSpider creates a Spider over the loaded catalogs.
// The catalogs are read once here and never consulted again.
func NewSpider(catalogs *model.Catalogs, fetcher Fetcher, interceptor *ResourceInterceptor, policies PolicySource, opts ...SpiderOption) *Spider {
	s := &Spider{
		exclusion:    keyword.NewExclusionFilter(catalogs.ExclusionSites(), catalogs.ExclusionKeywords()),
		fetcher:      fetcher,
		interceptor:  interceptor,
		policies:     policies,
		shallowDepth: DefaultShallowSearchDepth,
		maxHits:      keyword.DefaultMaxHits,
		staleTTLDays: int(database.DefaultStaleTTL / (24 * time.Hour)),
		locks:        newKeyedMutex(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.matcher = keyword.NewMatcher(catalogs.Keywords(),
		keyword.WithMaxHits(s.maxHits),
		keyword.WithLogger(s.logger),
	)
	return s
}

// ProcessURL runs the page state machine for req and returns the number of
// outbound links it newly enqueued.
//
// When store is nil the Spider opens its own store with the configured
// opener and closes it before returning. Network failures are recorded on
// the link and do not produce an error; store failures do.
func (s *Spider) ProcessURL(ctx context.Context, store Frontier, req Request) (int, error) {
	if store == nil {
		if s.opener == nil {
			return 0, ErrNoStore
		}
		owned, err := s.opener(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to open frontier store: %w", err)
		}
		defer func() {
			if err := owned.Close(); err != nil {
				s.logger.Warn("failed to close frontier store", "error", err)
			}
		}()
		store = owned
	}

	pageURL := linkurl.Standardize(req.URL)
	root := linkurl.RootOf(pageURL)
	mainDomain := linkurl.MainDomainOf(root)
	logger := s.logger.With("url", pageURL)
	logger.Debug("processing url",
		"root", root,
		"main_domain", mainDomain,
		"level", req.Level,
		"update", req.Update,
	)

	unlock := s.locks.Lock(pageURL)
	defer unlock()

	if s.exclusion.IsDomainExcluded(mainDomain) {
		logger.Info("url is on the exclusion list", "main_domain", mainDomain)
		return 0, nil
	}

	policy := s.policies.Policy(ctx, root)

	if policy.IsForbidden(root) {
		logger.Info("root url probe disallowed in robots.txt", "root", root)
	} else {
		s.enqueueRoot(ctx, store, root, req.ReferrerID, logger)
	}

	if policy.IsForbidden(pageURL) {
		logger.Info("url probe disallowed in robots.txt")
		err := store.SetStatus(ctx, pageURL, model.StatusDisallowed)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return 0, fmt.Errorf("failed to mark %s as disallowed: %w", pageURL, err)
		}
		return 0, nil
	}

	req.URL = pageURL
	if linkurl.IsResource(pageURL) {
		// Documents are leaves: nothing is expanded from them.
		if _, err := s.interceptor.Intercept(ctx, store, req); err != nil {
			return 0, err
		}
		return 0, nil
	}

	linkID := req.LinkID
	state, err := store.StatusOf(ctx, pageURL)
	switch {
	case err == nil:
		if linkID == model.NoLinkID {
			linkID = state.ID
		}
		if !model.NeedsProcessing(state.Status, state.AgeDays, s.staleTTLDays) {
			logger.Info("link not updated because of status and age",
				"link_id", linkID,
				"status", state.Status,
				"age_days", state.AgeDays,
			)
			return 0, nil
		}
	case errors.Is(err, database.ErrNotFound):
	default:
		return 0, fmt.Errorf("failed to look up %s: %w", pageURL, err)
	}

	page, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		logger.Warn("failed to fetch page", "error", err)
		rec := &model.LinkRecord{
			ID:         linkID,
			URL:        pageURL,
			Status:     model.StatusWebError,
			Level:      req.Level,
			ReferrerID: req.ReferrerID,
		}
		if _, _, err := s.store(ctx, store, rec, logger); err != nil {
			return 0, err
		}
		return 0, nil
	}

	// The junk signal is reported only; it never changes the stored status.
	if term, ok := s.exclusion.JunkTerm(page.Text); ok {
		logger.Info("page contains an exclusion keyword", "term", term)
	}
	result := s.matcher.Match(page.Text)
	logger.Debug("keywords matched", "count", result.Count())

	status := model.StatusExploredMatch
	if result.Count() == 0 && req.Level > s.shallowDepth {
		status = model.StatusExploredNoMatch
	}

	rec := &model.LinkRecord{
		ID:           linkID,
		URL:          pageURL,
		Title:        page.ShortTitle(),
		Synopsis:     page.Synopsis(),
		KeywordCount: result.Count(),
		Status:       status,
		Level:        req.Level,
		ReferrerID:   req.ReferrerID,
	}
	id, stored, err := s.store(ctx, store, rec, logger)
	if err != nil || !stored {
		return 0, err
	}

	if status == model.StatusExploredNoMatch {
		logger.Info("no keywords found beyond shallow search depth, links not followed",
			"level", req.Level,
		)
		return 0, nil
	}
	store.RecordKeywordHits(ctx, id, result.IDs)

	parent := parentPage{
		url:        pageURL,
		mainDomain: mainDomain,
		level:      req.Level,
		id:         id,
	}
	added := s.expand(ctx, store, policy, parent, page.Links, logger)
	logger.Info("page explored",
		"link_id", id,
		"status", status,
		"keywords", result.Count(),
		"links", len(page.Links),
		"added", added,
	)
	return added, nil
}

// parentPage is the page whose links are being expanded.
type parentPage struct {
	url        string
	mainDomain string
	level      int
	id         int64
}

// expand enqueues the outbound links of parent and returns how many were
// newly stored. Failures on single links are logged and skipped.
func (s *Spider) expand(ctx context.Context, store Frontier, policy *robots.Policy, parent parentPage, links []string, logger *slog.Logger) int {
	added := 0
	for _, raw := range links {
		if ctx.Err() != nil {
			break
		}

		linkURL := linkurl.Standardize(raw)
		if policy.IsForbidden(linkURL) {
			logger.Debug("link excluded in robots.txt", "link", linkURL)
			continue
		}

		dup, err := store.IsDuplicate(ctx, linkURL)
		if err != nil {
			logger.Warn("failed to check link duplication", "link", linkURL, "error", err)
			continue
		}
		if dup {
			continue
		}

		if linkurl.IsResource(linkURL) {
			s.interceptInline(ctx, store, Request{
				URL:        linkURL,
				LinkID:     model.NoLinkID,
				Level:      parent.level + 1,
				ReferrerID: parent.id,
			}, logger)
			continue
		}

		linkRoot := linkurl.RootOf(linkURL)
		linkMain := linkurl.MainDomainOf(linkRoot)
		level := parent.level + 1
		if !linkurl.SameSite(linkMain, parent.mainDomain) {
			// External links restart the depth budget.
			if s.exclusion.IsDomainExcluded(linkMain) || len(linkRoot) <= minRootLength {
				continue
			}
			level = 1
		}

		_, inserted, err := store.EnqueueLink(ctx, linkURL, level, parent.id)
		switch {
		case errors.Is(err, database.ErrLinkRejected):
			logger.Debug("link rejected", "link", linkURL, "error", err)
			continue
		case err != nil:
			logger.Warn("failed to enqueue link", "link", linkURL, "error", err)
			continue
		}
		if inserted {
			added++
		}
	}
	return added
}

func (s *Spider) interceptInline(ctx context.Context, store Frontier, req Request, logger *slog.Logger) {
	unlock := s.locks.Lock(req.URL)
	defer unlock()

	outcome, err := s.interceptor.Intercept(ctx, store, req)
	if err != nil {
		logger.Warn("error handling resource", "resource", req.URL, "error", err)
		return
	}
	logger.Debug("resource handled", "resource", req.URL, "outcome", outcome)
}

// enqueueRoot stores root as an unexplored level-0 link. Failures are only
// logged.
func (s *Spider) enqueueRoot(ctx context.Context, store Frontier, root string, referrerID int64, logger *slog.Logger) {
	_, inserted, err := store.EnqueueLink(ctx, root, 0, referrerID)
	switch {
	case errors.Is(err, database.ErrLinkRejected):
		logger.Debug("root url rejected", "root", root, "error", err)
	case err != nil:
		logger.Warn("failed to enqueue root url", "root", root, "error", err)
	case inserted:
		logger.Debug("root url enqueued", "root", root)
	}
}

// store upserts rec. A rejected record reports stored == false and no error.
func (s *Spider) store(ctx context.Context, store Frontier, rec *model.LinkRecord, logger *slog.Logger) (int64, bool, error) {
	id, err := store.UpsertLink(ctx, rec)
	if errors.Is(err, database.ErrLinkRejected) {
		logger.Info("link rejected by the store", "error", err)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to store %s: %w", rec.URL, err)
	}
	return id, true, nil
}
