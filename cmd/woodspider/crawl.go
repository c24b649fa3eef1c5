package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/woodspider/internal/crawler"
	"github.com/nao1215/woodspider/internal/model"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <explore|update|resource>",
		Short: "Run a crawl session over the frontier",
		Long: `Crawl selects links from the frontier and processes them one by one.

Modes:
  explore   links that were never explored (shallowest first)
  update    explored links older than the stale TTL
  resource  unexplored links that point at documents (PDF, DOC, ...)

Every fetched page is checked against robots.txt, matched against the keyword
catalog and its outbound links are added to the frontier.

Examples:
  woodspider crawl explore
  woodspider crawl explore --limit 500 --workers 4
  woodspider crawl update --delay 10s`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"explore", "update", "resource"},
		RunE:      runCrawlCmd,
	}

	cmd.Flags().IntP("limit", "l", 0, "Maximum number of links processed (default from config: 10000)")
	cmd.Flags().IntP("workers", "w", 0, "Number of links processed concurrently (default from config: 1)")
	cmd.Flags().DurationP("delay", "d", 0, "Pause between fetches, per site when workers > 1 (default from config: 3s)")

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, args []string) error {
	mode, err := model.ParseCrawlMode(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := applyCrawlFlags(cmd, a); err != nil {
		return err
	}

	ctx, cancel := signalContext(a.logger)
	defer cancel()

	return runCrawl(ctx, a, mode)
}

// applyCrawlFlags overrides the configuration with the flags that were set.
func applyCrawlFlags(cmd *cobra.Command, a *app) error {
	flags := cmd.Flags()
	if flags.Changed("limit") {
		n, err := flags.GetInt("limit")
		if err != nil {
			return err
		}
		a.cfg.LinkLimit = n
	}
	if flags.Changed("workers") {
		n, err := flags.GetInt("workers")
		if err != nil {
			return err
		}
		a.cfg.Workers = n
	}
	if flags.Changed("delay") {
		d, err := flags.GetDuration("delay")
		if err != nil {
			return err
		}
		a.cfg.CrawlDelay = d
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	return nil
}

func runCrawl(ctx context.Context, a *app, mode model.CrawlMode) error {
	catalogs, err := a.loadCatalogs(ctx)
	if err != nil {
		return err
	}
	spider, err := a.newSpider(catalogs)
	if err != nil {
		return err
	}

	session := crawler.NewSession(spider, a.opener(),
		crawler.WithLinkLimit(a.cfg.LinkLimit),
		crawler.WithWorkers(a.cfg.Workers),
		crawler.WithCrawlDelay(a.cfg.CrawlDelay),
		crawler.WithProgress(a.out),
		crawler.WithSessionLogger(a.logger),
	)

	record, err := session.Run(ctx, mode)
	if record != nil {
		fmt.Fprintf(a.out, "Crawl %s finished: %d processed, %d links added, %d failed (%s)\n",
			mode, record.Processed, record.Added, record.Failed,
			record.Finished.Sub(record.Started).Round(time.Second))
	}
	return err
}
