package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nao1215/woodspider/internal/database"
	"github.com/nao1215/woodspider/internal/keyword"
	"github.com/nao1215/woodspider/internal/linkurl"
	"github.com/nao1215/woodspider/internal/model"
)

// TextExtractor returns the plain text of a downloaded document.
// *extract.Extractor implements it.
type TextExtractor interface {
	Extract(ctx context.Context, filePath string) (string, error)
}

// Outcome is the result of intercepting one resource.
type Outcome int

const (
	// OutcomeSkipped means the resource was beyond the depth limit.
	OutcomeSkipped Outcome = iota
	// OutcomeDuplicate means the resource is already stored and was not
	// downloaded again.
	OutcomeDuplicate
	// OutcomeDownloadFailed means the link was stored as WEB_ERROR.
	OutcomeDownloadFailed
	// OutcomeMatch means the file was kept and stored as EXPLORED_MATCH.
	OutcomeMatch
	// OutcomeNoMatch means the file was purged and stored as EXPLORED_NO_MATCH.
	OutcomeNoMatch
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeDownloadFailed:
		return "download_failed"
	case OutcomeMatch:
		return "match"
	case OutcomeNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// ResourceInterceptor downloads a document, extracts its text, matches it
// against the keyword catalog and either keeps the file or purges it.
type ResourceInterceptor struct {
	downloader  Downloader
	extractor   TextExtractor
	matcher     *keyword.Matcher
	downloadDir string
	maxDepth    int
	logger      *slog.Logger
}

// InterceptorOption configures a ResourceInterceptor.
type InterceptorOption func(*ResourceInterceptor)

// WithInterceptMaxDepth sets the deepest level at which resources are
// downloaded. Deeper resources are skipped without reserving an identifier.
func WithInterceptMaxDepth(depth int) InterceptorOption {
	return func(ri *ResourceInterceptor) {
		ri.maxDepth = depth
	}
}

// WithInterceptLogger sets the logger.
func WithInterceptLogger(logger *slog.Logger) InterceptorOption {
	return func(ri *ResourceInterceptor) {
		if logger != nil {
			ri.logger = logger
		}
	}
}

// NewResourceInterceptor creates an interceptor that stores files under
// downloadDir.
func NewResourceInterceptor(downloader Downloader, extractor TextExtractor, matcher *keyword.Matcher, downloadDir string, opts ...InterceptorOption) *ResourceInterceptor {
	ri := &ResourceInterceptor{
		downloader:  downloader,
		extractor:   extractor,
		matcher:     matcher,
		downloadDir: downloadDir,
		maxDepth:    database.DefaultMaxTraverseDepth,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(ri)
	}
	return ri
}

// Intercept processes the resource named by req. Download and extraction
// failures are recorded on the link and are not returned; only store
// failures produce an error.
func (ri *ResourceInterceptor) Intercept(ctx context.Context, store Frontier, req Request) (Outcome, error) {
	logger := ri.logger.With("resource", req.URL, "level", req.Level)

	if req.Level > ri.maxDepth {
		logger.Debug("resource beyond maximum depth")
		return OutcomeSkipped, nil
	}

	id := req.LinkID
	if id == model.NoLinkID {
		dup, err := store.IsDuplicate(ctx, req.URL)
		if err != nil {
			return OutcomeSkipped, fmt.Errorf("failed to check resource duplication: %w", err)
		}
		if dup {
			logger.Info("resource already stored, refresh of known resources is not supported")
			return OutcomeDuplicate, nil
		}
		if id, err = store.NextLinkID(ctx); err != nil {
			return OutcomeSkipped, fmt.Errorf("failed to reserve link id: %w", err)
		}
	}

	rec := &model.LinkRecord{
		ID:         id,
		URL:        req.URL,
		Title:      linkurl.FileName(req.URL),
		Level:      req.Level,
		ReferrerID: req.ReferrerID,
	}

	dest := filepath.Join(ri.downloadDir, strconv.FormatInt(id, 10)+"-"+linkurl.FileName(req.URL))
	hash, err := ri.downloader.Download(ctx, req.URL, dest)
	if err != nil {
		logger.Warn("failed to download resource", "error", err)
		rec.Status = model.StatusWebError
		if err := ri.store(ctx, store, rec); err != nil {
			return OutcomeDownloadFailed, err
		}
		return OutcomeDownloadFailed, nil
	}

	text, err := ri.extractor.Extract(ctx, dest)
	if err != nil {
		logger.Warn("failed to extract resource text", "error", err)
		text = ""
	}

	result := ri.matcher.Match(text)
	rec.KeywordCount = result.Count()
	rec.Synopsis = text

	if result.Count() == 0 {
		if err := os.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to delete resource without keywords", "path", dest, "error", err)
		}
		rec.Status = model.StatusExploredNoMatch
		if err := ri.store(ctx, store, rec); err != nil {
			return OutcomeNoMatch, err
		}
		logger.Info("resource purged, no keywords found")
		return OutcomeNoMatch, nil
	}

	rec.Status = model.StatusExploredMatch
	rec.DownloadPath = dest
	rec.ContentHash = hash
	if err := ri.store(ctx, store, rec); err != nil {
		return OutcomeMatch, err
	}
	store.RecordKeywordHits(ctx, id, result.IDs)
	logger.Info("resource stored", "keywords", result.Count(), "path", dest)
	return OutcomeMatch, nil
}

func (ri *ResourceInterceptor) store(ctx context.Context, store Frontier, rec *model.LinkRecord) error {
	_, err := store.UpsertLink(ctx, rec)
	if errors.Is(err, database.ErrLinkRejected) {
		ri.logger.Debug("resource rejected by the store", "resource", rec.URL, "error", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to store resource %s: %w", rec.URL, err)
	}
	return nil
}
