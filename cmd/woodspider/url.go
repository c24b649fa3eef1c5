package main

import (
	"context"
	"fmt"

	"github.com/nao1215/woodspider/internal/crawler"
	"github.com/nao1215/woodspider/internal/model"
	"github.com/spf13/cobra"
)

// NewURLCmd creates the url command.
func NewURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <url>",
		Short: "Process a single URL immediately",
		Long: `URL fetches one page right away, outside of any crawl session, classifies it
against the keyword catalog and adds its outbound links to the frontier.
Document URLs are downloaded and kept only if they match.

Example:
  woodspider url https://www.example.com/timber-frame`,
		Args: cobra.ExactArgs(1),
		RunE: runURLCmd,
	}
}

func runURLCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(a.logger)
	defer cancel()

	return runURL(ctx, a, args[0])
}

func runURL(ctx context.Context, a *app, rawURL string) error {
	catalogs, err := a.loadCatalogs(ctx)
	if err != nil {
		return err
	}
	spider, err := a.newSpider(catalogs)
	if err != nil {
		return err
	}

	// A nil store makes the spider open and close its own connection.
	added, err := spider.ProcessURL(ctx, nil, crawler.Request{
		URL:        rawURL,
		LinkID:     model.NoLinkID,
		Level:      1,
		ReferrerID: model.NoLinkID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d Links added\n", added)
	return nil
}
