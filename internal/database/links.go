package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nao1215/woodspider/internal/linkurl"
	"github.com/nao1215/woodspider/internal/model"
)

// linkColumns is the column list scanned by scanLink.
const linkColumns = `link_id, url, title, synopsis, download_path, content_hash,
	discovered, last_explored, keyword_count, status, level, referrer_id`

// queryer is implemented by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// checkStorable returns ErrLinkRejected when a link must never enter the
// frontier.
func (fdb *FrontierDB) checkStorable(url string, level int) error {
	switch {
	case linkurl.IsMailto(url):
		return fmt.Errorf("%w: mail address %s", ErrLinkRejected, url)
	case linkurl.IsMultimedia(url):
		return fmt.Errorf("%w: multimedia or executable %s", ErrLinkRejected, url)
	case level > fdb.maxDepth:
		return fmt.Errorf("%w: level %d exceeds maximum depth %d", ErrLinkRejected, level, fdb.maxDepth)
	}
	return nil
}

// NextLinkID reserves and returns a new link identifier.
func (fdb *FrontierDB) NextLinkID(ctx context.Context) (int64, error) {
	return nextLinkID(ctx, fdb.db)
}

func nextLinkID(ctx context.Context, q queryer) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		`UPDATE link_counter SET next_id = next_id + 1 WHERE id = 1 RETURNING next_id - 1`,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve link identifier: %w", err)
	}
	return id, nil
}

// IsDuplicate reports whether url is already stored.
func (fdb *FrontierDB) IsDuplicate(ctx context.Context, url string) (bool, error) {
	var n int
	err := fdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM links WHERE url = ?`, url).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate link: %w", err)
	}
	return n > 0, nil
}

// StatusOf returns the status and age of a stored URL.
// It returns ErrNotFound if the URL is not stored.
func (fdb *FrontierDB) StatusOf(ctx context.Context, url string) (model.LinkState, error) {
	return fdb.linkState(ctx, `WHERE url = ?`, url)
}

// StatusByID returns the status and age of a stored link identifier.
// It returns ErrNotFound if the identifier is not stored.
func (fdb *FrontierDB) StatusByID(ctx context.Context, id int64) (model.LinkState, error) {
	return fdb.linkState(ctx, `WHERE link_id = ?`, id)
}

func (fdb *FrontierDB) linkState(ctx context.Context, where string, arg any) (model.LinkState, error) {
	var (
		state        model.LinkState
		status       int
		discovered   string
		lastExplored sql.NullString
	)
	err := fdb.db.QueryRowContext(ctx,
		`SELECT link_id, status, discovered, last_explored FROM links `+where, arg,
	).Scan(&state.ID, &status, &discovered, &lastExplored)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LinkState{}, ErrNotFound
	}
	if err != nil {
		return model.LinkState{}, fmt.Errorf("failed to get link status: %w", err)
	}

	state.Status = model.Status(status)
	state.Discovered = parseTimestamp(discovered)
	since := parseNullTimestamp(lastExplored)
	if since.IsZero() {
		since = state.Discovered
	}
	state.AgeDays = model.AgeInDays(since, fdb.now())
	return state, nil
}

// GetLink returns the stored record for url.
// It returns ErrNotFound if the URL is not stored.
func (fdb *FrontierDB) GetLink(ctx context.Context, url string) (*model.LinkRecord, error) {
	row := fdb.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE url = ?`, url)
	rec, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*model.LinkRecord, error) {
	var (
		rec          model.LinkRecord
		discovered   string
		lastExplored sql.NullString
		status       int
	)
	if err := row.Scan(
		&rec.ID,
		&rec.URL,
		&rec.Title,
		&rec.Synopsis,
		&rec.DownloadPath,
		&rec.ContentHash,
		&discovered,
		&lastExplored,
		&rec.KeywordCount,
		&status,
		&rec.Level,
		&rec.ReferrerID,
	); err != nil {
		return nil, err
	}
	rec.Discovered = parseTimestamp(discovered)
	rec.LastExplored = parseNullTimestamp(lastExplored)
	rec.Status = model.Status(status)
	return &rec, nil
}

// EnqueueLink stores a newly discovered link as UNEXPLORED unless its URL is
// already known. It returns the link identifier and whether a new row was
// inserted. Rejected links return ErrLinkRejected without consuming an
// identifier.
func (fdb *FrontierDB) EnqueueLink(ctx context.Context, url string, level int, referrerID int64) (int64, bool, error) {
	if err := fdb.checkStorable(url, level); err != nil {
		return 0, false, err
	}

	tx, err := fdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT link_id FROM links WHERE url = ?`, url).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("failed to look up link: %w", err)
	}

	id, err = nextLinkID(ctx, tx)
	if err != nil {
		return 0, false, err
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO links (url, link_id, discovered, status, level, referrer_id)
	VALUES (?, ?, ?, ?, ?, ?)
	`, url, id, fdb.timestamp(), int(model.StatusUnexplored), level, referrerID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit link: %w", err)
	}
	return id, true, nil
}

// UpsertLink inserts rec if its URL is new, or updates the stored row's
// title, synopsis, download path, content hash, last-explored time, keyword
// count and status.
//
// On update, rec.ID must carry the link identifier; otherwise
// ErrMissingLinkID is returned. The stored status is never reset to
// UNEXPLORED once the link has been explored (see model.ArbitrateStatus).
// On insert, an identifier is reserved if rec.ID is model.NoLinkID.
// Rejected links return ErrLinkRejected.
func (fdb *FrontierDB) UpsertLink(ctx context.Context, rec *model.LinkRecord) (int64, error) {
	if err := fdb.checkStorable(rec.URL, rec.Level); err != nil {
		return 0, err
	}

	tx, err := fdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	explored := ""
	if !rec.LastExplored.IsZero() {
		explored = formatTimestamp(rec.LastExplored)
	} else if rec.Status != model.StatusUnexplored {
		explored = fdb.timestamp()
	}

	var (
		storedID     int64
		storedStatus int
	)
	err = tx.QueryRowContext(ctx, `SELECT link_id, status FROM links WHERE url = ?`, rec.URL).
		Scan(&storedID, &storedStatus)

	switch {
	case err == nil:
		if rec.ID == model.NoLinkID {
			return 0, fmt.Errorf("%w: %s", ErrMissingLinkID, rec.URL)
		}
		status := model.ArbitrateStatus(rec.Status, model.Status(storedStatus))
		_, err = tx.ExecContext(ctx, `
		UPDATE links SET
			title = ?,
			synopsis = ?,
			download_path = ?,
			content_hash = ?,
			last_explored = COALESCE(NULLIF(?, ''), last_explored),
			keyword_count = ?,
			status = ?
		WHERE url = ?
		`,
			model.Truncate(rec.Title, model.MaxTitleLength),
			model.Truncate(rec.Synopsis, model.MaxSynopsisLength),
			rec.DownloadPath,
			rec.ContentHash,
			explored,
			rec.KeywordCount,
			int(status),
			rec.URL,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to update link: %w", err)
		}

	case errors.Is(err, sql.ErrNoRows):
		storedID = rec.ID
		if storedID == model.NoLinkID {
			if storedID, err = nextLinkID(ctx, tx); err != nil {
				return 0, err
			}
		}
		discovered := fdb.timestamp()
		if !rec.Discovered.IsZero() {
			discovered = formatTimestamp(rec.Discovered)
		}
		_, err = tx.ExecContext(ctx, `
		INSERT INTO links (url, link_id, title, synopsis, download_path, content_hash,
			discovered, last_explored, keyword_count, status, level, referrer_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?)
		`,
			rec.URL,
			storedID,
			model.Truncate(rec.Title, model.MaxTitleLength),
			model.Truncate(rec.Synopsis, model.MaxSynopsisLength),
			rec.DownloadPath,
			rec.ContentHash,
			discovered,
			explored,
			rec.KeywordCount,
			int(rec.Status),
			rec.Level,
			rec.ReferrerID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert link: %w", err)
		}

	default:
		return 0, fmt.Errorf("failed to look up link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit link: %w", err)
	}
	return storedID, nil
}

// SetStatus overwrites the status of a stored URL and stamps it as explored.
// It returns ErrNotFound if the URL is not stored.
func (fdb *FrontierDB) SetStatus(ctx context.Context, url string, status model.Status) error {
	result, err := fdb.db.ExecContext(ctx,
		`UPDATE links SET status = ?, last_explored = ? WHERE url = ?`,
		int(status), fdb.timestamp(), url,
	)
	if err != nil {
		return fmt.Errorf("failed to set link status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set link status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordKeywordHits stores one row per matched keyword for linkID and returns
// the number of rows written. A failing insert is logged and the remaining
// keywords are still recorded.
func (fdb *FrontierDB) RecordKeywordHits(ctx context.Context, linkID int64, keywordIDs []int) int {
	recorded := 0
	for _, kw := range keywordIDs {
		_, err := fdb.db.ExecContext(ctx,
			`INSERT INTO keyword_links (link_id, keyword_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			linkID, kw,
		)
		if err != nil {
			fdb.logger.Warn("failed to record keyword hit",
				"link_id", linkID,
				"keyword_id", kw,
				"error", err,
			)
			continue
		}
		recorded++
	}
	return recorded
}

// KeywordHits returns the keyword identifiers recorded for linkID.
func (fdb *FrontierDB) KeywordHits(ctx context.Context, linkID int64) ([]int, error) {
	rows, err := fdb.db.QueryContext(ctx,
		`SELECT keyword_id FROM keyword_links WHERE link_id = ? ORDER BY keyword_id`, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query keyword hits: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan keyword hit: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountLinks returns the number of stored links.
func (fdb *FrontierDB) CountLinks(ctx context.Context) (int, error) {
	var n int
	if err := fdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM links`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return n, nil
}
