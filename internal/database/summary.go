package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/woodspider/internal/model"
)

// Summary aggregates the frontier for reporting. limit bounds the number of
// keywords, matches and sessions listed.
func (fdb *FrontierDB) Summary(ctx context.Context, limit int) (*model.CrawlSummary, error) {
	summary := &model.CrawlSummary{
		GeneratedAt:  fdb.now(),
		StatusCounts: make(map[model.Status]int),
	}

	counts, err := fdb.statusCounts(ctx)
	if err != nil {
		return nil, err
	}
	for status, n := range counts {
		summary.StatusCounts[status] = n
		summary.TotalLinks += n
	}

	if summary.TopKeywords, err = fdb.TopKeywords(ctx, limit); err != nil {
		return nil, err
	}
	if summary.RecentMatches, err = fdb.RecentMatches(ctx, limit); err != nil {
		return nil, err
	}
	if summary.DuplicateResources, err = fdb.DuplicateResources(ctx); err != nil {
		return nil, err
	}
	if summary.RecentSessions, err = fdb.RecentSessions(ctx, limit); err != nil {
		return nil, err
	}
	return summary, nil
}

func (fdb *FrontierDB) statusCounts(ctx context.Context) (map[model.Status]int, error) {
	rows, err := fdb.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM links GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Status]int)
	for rows.Next() {
		var status, n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[model.Status(status)] = n
	}
	return counts, rows.Err()
}

// TopKeywords returns the keywords matched by the most links.
func (fdb *FrontierDB) TopKeywords(ctx context.Context, limit int) ([]model.KeywordCount, error) {
	rows, err := fdb.db.QueryContext(ctx, `
	SELECT kl.keyword_id, COALESCE(k.keyword, ''), COUNT(*) AS hits
	FROM keyword_links kl
	LEFT JOIN keywords k ON k.keyword_id = kl.keyword_id
	GROUP BY kl.keyword_id
	ORDER BY hits DESC, kl.keyword_id
	LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top keywords: %w", err)
	}
	defer rows.Close()

	var result []model.KeywordCount
	for rows.Next() {
		var kc model.KeywordCount
		if err := rows.Scan(&kc.ID, &kc.Keyword, &kc.Links); err != nil {
			return nil, fmt.Errorf("failed to scan keyword count: %w", err)
		}
		result = append(result, kc)
	}
	return result, rows.Err()
}

// RecentMatches returns the most recently explored links with keyword hits.
func (fdb *FrontierDB) RecentMatches(ctx context.Context, limit int) ([]model.LinkRecord, error) {
	rows, err := fdb.db.QueryContext(ctx, `
	SELECT `+linkColumns+`
	FROM links
	WHERE status = ? AND keyword_count > 0
	ORDER BY last_explored DESC, link_id DESC
	LIMIT ?
	`, int(model.StatusExploredMatch), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent matches: %w", err)
	}
	defer rows.Close()

	var result []model.LinkRecord
	for rows.Next() {
		rec, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

// DuplicateResources returns content hashes shared by more than one link.
func (fdb *FrontierDB) DuplicateResources(ctx context.Context) ([]model.DuplicateResource, error) {
	rows, err := fdb.db.QueryContext(ctx, `
	SELECT content_hash, GROUP_CONCAT(url, char(10))
	FROM links
	WHERE content_hash <> ''
	GROUP BY content_hash
	HAVING COUNT(*) > 1
	ORDER BY content_hash
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query duplicate resources: %w", err)
	}
	defer rows.Close()

	var result []model.DuplicateResource
	for rows.Next() {
		var hash, urls string
		if err := rows.Scan(&hash, &urls); err != nil {
			return nil, fmt.Errorf("failed to scan duplicate resource: %w", err)
		}
		result = append(result, model.DuplicateResource{
			Hash: hash,
			URLs: strings.Split(urls, "\n"),
		})
	}
	return result, rows.Err()
}
