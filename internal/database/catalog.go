package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/woodspider/internal/model"
)

// LoadCatalogs reads the keyword and exclusion catalogs. Keywords are
// returned ordered by identifier so that domain-specific keywords come first.
// Lists longer than the configured limits are truncated with a log line.
func (fdb *FrontierDB) LoadCatalogs(ctx context.Context, limits model.CatalogLimits, logger *slog.Logger) (*model.Catalogs, error) {
	keywords, err := fdb.loadKeywords(ctx)
	if err != nil {
		return nil, err
	}
	sites, err := fdb.loadStrings(ctx, `SELECT site FROM exclusion_sites ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusion sites: %w", err)
	}
	junk, err := fdb.loadStrings(ctx, `SELECT keyword FROM exclusion_keywords ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusion keywords: %w", err)
	}
	return model.NewCatalogs(keywords, sites, junk, limits, logger), nil
}

func (fdb *FrontierDB) loadKeywords(ctx context.Context) ([]model.KeywordEntry, error) {
	rows, err := fdb.db.QueryContext(ctx, `SELECT keyword, keyword_id FROM keywords ORDER BY keyword_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load keywords: %w", err)
	}
	defer rows.Close()

	var entries []model.KeywordEntry
	for rows.Next() {
		var e model.KeywordEntry
		if err := rows.Scan(&e.Keyword, &e.ID); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (fdb *FrontierDB) loadStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := fdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// ImportCatalog replaces the stored catalogs with entries.
// The replacement is atomic: on error the previous catalogs are kept.
func (fdb *FrontierDB) ImportCatalog(ctx context.Context, entries model.CatalogEntries) error {
	tx, err := fdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"keywords", "exclusion_sites", "exclusion_keywords"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, k := range entries.Keywords {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO keywords (keyword_id, keyword) VALUES (?, ?)
			ON CONFLICT(keyword_id) DO UPDATE SET keyword = excluded.keyword`,
			k.ID, k.Keyword,
		); err != nil {
			return fmt.Errorf("failed to import keyword %q: %w", k.Keyword, err)
		}
	}
	for _, s := range entries.ExclusionSites {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO exclusion_sites (site) VALUES (?) ON CONFLICT(site) DO NOTHING`, s,
		); err != nil {
			return fmt.Errorf("failed to import exclusion site %q: %w", s, err)
		}
	}
	for _, j := range entries.ExclusionKeywords {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO exclusion_keywords (keyword) VALUES (?) ON CONFLICT(keyword) DO NOTHING`, j,
		); err != nil {
			return fmt.Errorf("failed to import exclusion keyword %q: %w", j, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}
