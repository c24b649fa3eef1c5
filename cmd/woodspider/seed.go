package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nao1215/woodspider/internal/crawler"
	"github.com/nao1215/woodspider/internal/model"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates the seed command.
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.html>...",
		Short: "Add the links of local HTML files to the frontier",
		Long: `Seed reads local HTML files (for example exported bookmarks) and stores every
absolute link as an unexplored level-1 entry of the frontier. Links on the
exclusion list are skipped. Nothing is fetched.

Examples:
  woodspider seed bookmarks.html
  woodspider seed links/*.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSeedCmd,
	}
}

func runSeedCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(a.logger)
	defer cancel()

	return runSeed(ctx, a, args)
}

func runSeed(ctx context.Context, a *app, files []string) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	catalogs, err := db.LoadCatalogs(ctx, a.cfg.CatalogLimits(), a.logger)
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}

	record := &model.CrawlSession{ID: uuid.NewString(), Mode: "seed"}
	if err := db.StartSession(ctx, record); err != nil {
		a.logger.Warn("failed to record session start", "error", err)
	}

	seeder := crawler.NewSeeder(catalogs, a.logger)
	var firstErr error
	for _, file := range files {
		n, err := seeder.SeedFile(ctx, db, file)
		record.Processed++
		if err != nil {
			record.Failed++
			a.logger.Error("failed to seed file", "file", file, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		record.Added += n
		fmt.Fprintf(a.out, "%s: %d Links added\n", file, n)
	}

	if err := db.FinishSession(context.WithoutCancel(ctx), record); err != nil {
		a.logger.Warn("failed to record session end", "error", err)
	}
	return firstErr
}
