package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/woodspider/internal/linkurl"
	"github.com/nao1215/woodspider/internal/model"
)

// SelectCandidates returns up to limit links to process in the given mode,
// in random order. A non-positive limit returns every candidate.
//
//   - model.ModeExplore: links with status UNEXPLORED
//   - model.ModeUpdate: links whose last exploration (or discovery, if never
//     explored) is at least the staleness TTL old
//   - model.ModeResource: UNEXPLORED links that point at documents
func (fdb *FrontierDB) SelectCandidates(ctx context.Context, mode model.CrawlMode, limit int) ([]model.Candidate, error) {
	query := `SELECT link_id, url, level, referrer_id FROM links `
	var args []any

	switch mode {
	case model.ModeExplore:
		query += `WHERE status = ?`
		args = append(args, int(model.StatusUnexplored))
	case model.ModeUpdate:
		cutoff := formatTimestamp(fdb.now().Add(-fdb.staleTTL))
		query += `WHERE COALESCE(last_explored, discovered) <= ?`
		args = append(args, cutoff)
	case model.ModeResource:
		exts := linkurl.ResourceExtensions()
		likes := make([]string, 0, len(exts))
		args = append(args, int(model.StatusUnexplored))
		for _, ext := range exts {
			likes = append(likes, `LOWER(url) LIKE ?`)
			args = append(args, "%."+ext)
		}
		query += `WHERE status = ? AND (` + strings.Join(likes, " OR ") + `)`
	default:
		return nil, fmt.Errorf("unsupported crawl mode: %d", mode)
	}
	query += ` ORDER BY link_id`

	rows, err := fdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select candidates: %w", err)
	}
	defer rows.Close()

	var candidates []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.ID, &c.URL, &c.Level, &c.ReferrerID); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if mode == model.ModeResource && !linkurl.IsResource(c.URL) {
			continue
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	fdb.shuffle(candidates)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (fdb *FrontierDB) shuffle(candidates []model.Candidate) {
	fdb.rngMu.Lock()
	defer fdb.rngMu.Unlock()
	fdb.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
}
