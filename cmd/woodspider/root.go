package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for woodspider.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "woodspider",
		Short: "Focused web crawler for timber and construction content",
		Long: `woodspider crawls the web starting from seed pages and keeps the pages and
documents that match a keyword catalog. Links are stored in a local SQLite
frontier so that crawls can be resumed and refreshed.

A typical first run:
  woodspider init
  woodspider catalog import catalog.yaml
  woodspider seed bookmarks.html
  woodspider crawl explore`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .woodspider in current or home directory)")
	cmd.PersistentFlags().String("db-dir", "", "Directory of the frontier database (default: XDG data directory)")
	cmd.PersistentFlags().String("download-dir", "", "Directory for downloaded documents")

	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewURLCmd())
	cmd.AddCommand(NewCatalogCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
