package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nao1215/woodspider/internal/model"
)

// StartSession records the start of a crawl session.
func (fdb *FrontierDB) StartSession(ctx context.Context, session *model.CrawlSession) error {
	started := fdb.timestamp()
	if !session.Started.IsZero() {
		started = formatTimestamp(session.Started)
	}
	_, err := fdb.db.ExecContext(ctx,
		`INSERT INTO crawl_sessions (id, mode, started) VALUES (?, ?, ?)`,
		session.ID, session.Mode, started,
	)
	if err != nil {
		return fmt.Errorf("failed to record session start: %w", err)
	}
	return nil
}

// FinishSession stores the totals of a finished crawl session.
func (fdb *FrontierDB) FinishSession(ctx context.Context, session *model.CrawlSession) error {
	finished := fdb.timestamp()
	if !session.Finished.IsZero() {
		finished = formatTimestamp(session.Finished)
	}
	_, err := fdb.db.ExecContext(ctx, `
	UPDATE crawl_sessions SET finished = ?, processed = ?, added = ?, failed = ?
	WHERE id = ?
	`, finished, session.Processed, session.Added, session.Failed, session.ID)
	if err != nil {
		return fmt.Errorf("failed to record session end: %w", err)
	}
	return nil
}

// RecentSessions returns the n most recently started sessions, newest first.
func (fdb *FrontierDB) RecentSessions(ctx context.Context, n int) ([]model.CrawlSession, error) {
	rows, err := fdb.db.QueryContext(ctx, `
	SELECT id, mode, started, finished, processed, added, failed
	FROM crawl_sessions
	ORDER BY started DESC, rowid DESC
	LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.CrawlSession
	for rows.Next() {
		var (
			s        model.CrawlSession
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Mode, &started, &finished, &s.Processed, &s.Added, &s.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.Started = parseTimestamp(started)
		s.Finished = parseNullTimestamp(finished)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
