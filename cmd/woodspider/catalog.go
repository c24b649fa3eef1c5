package main

import (
	"context"
	"fmt"

	"github.com/nao1215/woodspider/internal/config"
	"github.com/spf13/cobra"
)

// NewCatalogCmd creates the catalog command group.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the keyword and exclusion catalogs",
	}
	cmd.AddCommand(newCatalogImportCmd())
	cmd.AddCommand(newCatalogShowCmd())
	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Replace the stored catalogs with a catalog file",
		Long: `Import reads a catalog file and replaces the keyword, exclusion-site and
exclusion-keyword catalogs stored in the frontier database.

Keywords with an id below 200 are domain keywords; a page must contain one of
them before the general keywords (id 200 and above) are counted.

Example catalog:
  keywords:
    - id: 1
      keyword: timber
    - id: 200
      keyword: building
  exclusion_sites:
    - example-spam.com
  exclusion_keywords:
    - casino`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return runCatalogImport(cmd.Context(), a, args[0])
		},
	}
}

func runCatalogImport(ctx context.Context, a *app, path string) error {
	entries, err := config.LoadCatalogFile(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog file %s: %w", path, err)
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ImportCatalog(ctx, *entries); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d keywords, %d exclusion sites, %d exclusion keywords\n",
		len(entries.Keywords), len(entries.ExclusionSites), len(entries.ExclusionKeywords))
	return nil
}

func newCatalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the catalogs as the crawler loads them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return runCatalogShow(cmd.Context(), a)
		},
	}
}

func runCatalogShow(ctx context.Context, a *app) error {
	catalogs, err := a.loadCatalogs(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Keywords:")
	for _, k := range catalogs.Keywords() {
		phase := "general"
		if k.IsCore() {
			phase = "domain"
		}
		fmt.Fprintf(a.out, "  %5d  %-8s %s\n", k.ID, phase, k.Keyword)
	}
	fmt.Fprintln(a.out, "Exclusion sites:")
	for _, s := range catalogs.ExclusionSites() {
		fmt.Fprintf(a.out, "  %s\n", s)
	}
	fmt.Fprintln(a.out, "Exclusion keywords:")
	for _, j := range catalogs.ExclusionKeywords() {
		fmt.Fprintf(a.out, "  %s\n", j)
	}
	return nil
}
