package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/woodspider/internal/model"
)

// Session defaults.
const (
	DefaultLinkLimit  = 10000
	DefaultCrawlDelay = 3 * time.Second
)

// Session drives the Spider over a batch of frontier candidates.
//
// The store is opened once for the whole batch and closed after the last
// worker returns. The link limit bounds how many candidates are processed,
// independent of how many the store holds.
type Session struct {
	spider   *Spider
	opener   StoreOpener
	limit    int
	workers  int
	delay    time.Duration
	progress io.Writer
	now      func() time.Time
	logger   *slog.Logger

	// mu guards progress output and the counters of the running session.
	mu sync.Mutex
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLinkLimit sets the maximum number of candidates processed per run.
func WithLinkLimit(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithWorkers sets the number of URLs processed concurrently. With more
// than one worker, pacing is applied per origin instead of globally.
func WithWorkers(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithCrawlDelay sets the pause between session-driven fetches.
func WithCrawlDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		s.delay = d
	}
}

// WithProgress sets where per-link progress lines are written.
func WithProgress(w io.Writer) SessionOption {
	return func(s *Session) {
		s.progress = w
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionClock sets the clock used to stamp the session journal.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession creates a Session that opens its store with opener.
func NewSession(spider *Spider, opener StoreOpener, opts ...SessionOption) *Session {
	s := &Session{
		spider:   spider,
		opener:   opener,
		limit:    DefaultLinkLimit,
		workers:  1,
		delay:    DefaultCrawlDelay,
		progress: io.Discard,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run selects up to the link limit of candidates for mode and processes
// them. Only a failure to open the store or to select candidates is
// returned; failures on single links are counted and logged.
func (s *Session) Run(ctx context.Context, mode model.CrawlMode) (*model.CrawlSession, error) {
	store, err := s.opener(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open frontier store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			s.logger.Warn("failed to close frontier store", "error", err)
		}
	}()

	record := &model.CrawlSession{
		ID:      uuid.NewString(),
		Mode:    mode.String(),
		Started: s.now(),
	}
	logger := s.logger.With("run_id", record.ID, "mode", mode.String())

	if err := store.StartSession(ctx, record); err != nil {
		logger.Warn("failed to record session start", "error", err)
	}

	candidates, err := store.SelectCandidates(ctx, mode, s.limit)
	if err != nil {
		return record, fmt.Errorf("failed to select %s candidates: %w", mode, err)
	}
	if len(candidates) == 0 {
		logger.Warn("no links to crawl in the frontier")
	}
	logger.Info("crawl session started",
		"candidates", len(candidates),
		"limit", s.limit,
		"workers", s.workers,
	)

	pacer := NewPacer(s.delay, s.workers > 1)
	update := mode == model.ModeUpdate
	process := func(ctx context.Context, c model.Candidate) error {
		if err := pacer.Wait(ctx, c.URL); err != nil {
			return err
		}
		added, err := s.spider.ProcessURL(ctx, store, Request{
			URL:        c.URL,
			LinkID:     c.ID,
			Update:     update,
			Level:      c.Level,
			ReferrerID: c.ReferrerID,
		})

		s.mu.Lock()
		defer s.mu.Unlock()
		record.Processed++
		record.Added += added
		if err != nil {
			record.Failed++
			logger.Warn("failed to process link", "url", c.URL, "link_id", c.ID, "error", err)
			return nil
		}
		fmt.Fprintf(s.progress, "%d Links added\n", added)
		return nil
	}

	if s.workers <= 1 {
		for _, c := range candidates {
			if err := process(ctx, c); err != nil {
				break
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for _, c := range candidates {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				return process(gctx, c)
			})
		}
		_ = g.Wait()
	}

	record.Finished = s.now()
	if err := store.FinishSession(context.WithoutCancel(ctx), record); err != nil {
		logger.Warn("failed to record session end", "error", err)
	}
	logger.Info("crawl session finished",
		"processed", record.Processed,
		"added", record.Added,
		"failed", record.Failed,
		"duration", record.Finished.Sub(record.Started).Round(time.Millisecond).String(),
	)
	return record, nil
}
