package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/woodspider/internal/database"
	"github.com/nao1215/woodspider/internal/keyword"
	"github.com/nao1215/woodspider/internal/linkurl"
	"github.com/nao1215/woodspider/internal/model"
)

// Seeder fills an empty frontier from the anchors of a local HTML file.
// Every accepted anchor is stored as UNEXPLORED at level 1 without a
// referrer; nothing is fetched.
type Seeder struct {
	exclusion *keyword.ExclusionFilter
	logger    *slog.Logger
}

// NewSeeder creates a Seeder honoring the exclusion-site catalog.
func NewSeeder(catalogs *model.Catalogs, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		exclusion: keyword.NewExclusionFilter(catalogs.ExclusionSites(), nil),
		logger:    logger,
	}
}

// SeedFile reads the HTML file at path and enqueues its links.
// It returns the number of links newly stored.
func (sd *Seeder) SeedFile(ctx context.Context, store Frontier, path string) (int, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by the operator
	if err != nil {
		return 0, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return sd.Seed(ctx, store, f)
}

// Seed enqueues the absolute links found in r.
func (sd *Seeder) Seed(ctx context.Context, store Frontier, r io.Reader) (int, error) {
	parser, err := NewParser("")
	if err != nil {
		return 0, err
	}
	result, err := parser.Parse(r)
	if err != nil {
		return 0, fmt.Errorf("failed to parse seed file: %w", err)
	}
	sd.logger.Info("seed file parsed", "links", len(result.Links))

	seeded := 0
	for _, raw := range result.Links {
		if err := ctx.Err(); err != nil {
			return seeded, err
		}

		linkURL := linkurl.Standardize(raw)
		root := linkurl.RootOf(linkURL)
		if sd.exclusion.IsDomainExcluded(linkurl.MainDomainOf(root)) || len(root) <= minRootLength {
			sd.logger.Debug("seed link excluded", "link", linkURL)
			continue
		}

		_, inserted, err := store.EnqueueLink(ctx, linkURL, 1, model.NoLinkID)
		switch {
		case errors.Is(err, database.ErrLinkRejected):
			sd.logger.Debug("seed link rejected", "link", linkURL, "error", err)
			continue
		case err != nil:
			return seeded, fmt.Errorf("failed to enqueue seed link: %w", err)
		}
		if inserted {
			seeded++
		}
	}
	return seeded, nil
}
