package crawler

import (
	"context"

	"github.com/nao1215/woodspider/internal/model"
)

// Frontier is the subset of the link store used while processing one URL.
// *database.FrontierDB implements it.
type Frontier interface {
	IsDuplicate(ctx context.Context, url string) (bool, error)
	StatusOf(ctx context.Context, url string) (model.LinkState, error)
	NextLinkID(ctx context.Context) (int64, error)
	EnqueueLink(ctx context.Context, url string, level int, referrerID int64) (int64, bool, error)
	UpsertLink(ctx context.Context, rec *model.LinkRecord) (int64, error)
	SetStatus(ctx context.Context, url string, status model.Status) error
	RecordKeywordHits(ctx context.Context, linkID int64, keywordIDs []int) int
}

// SessionStore is a Frontier that can also drive a crawl session.
type SessionStore interface {
	Frontier
	SelectCandidates(ctx context.Context, mode model.CrawlMode, limit int) ([]model.Candidate, error)
	StartSession(ctx context.Context, session *model.CrawlSession) error
	FinishSession(ctx context.Context, session *model.CrawlSession) error
	Close() error
}

// StoreOpener opens a store connection owned by the caller.
type StoreOpener func(ctx context.Context) (SessionStore, error)
