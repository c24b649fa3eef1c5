package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/woodspider/internal/report"
	"github.com/spf13/cobra"
)

// defaultReportRows is the number of keywords, matches and sessions listed.
const defaultReportRows = 10

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the frontier",
		Long: `Report prints the link status distribution, the most frequent keywords, the
latest matching pages, documents downloaded from more than one URL and the
latest crawl sessions.

Examples:
  woodspider report
  woodspider report --markdown -o report.md
  woodspider report --json > report.json`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "", "Write report to specified file path (creates directories if needed)")
	cmd.Flags().IntP("rows", "n", defaultReportRows, "Number of rows listed per section")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	flags := cmd.Flags()
	if a.cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if a.cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if a.cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return err
	}
	rows, err := flags.GetInt("rows")
	if err != nil {
		return err
	}

	return runReport(cmd.Context(), a, rows)
}

func runReport(ctx context.Context, a *app, rows int) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := db.Summary(ctx, rows)
	if err != nil {
		return fmt.Errorf("failed to summarize frontier: %w", err)
	}

	output := a.out
	if a.cfg.ReportFile != "" {
		f, err := createReportFile(a.cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	_, err = newReportWriter(a, output).Write(summary)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if a.cfg.ReportFile != "" {
		fmt.Fprintf(a.out, "Report written to %s\n", a.cfg.ReportFile)
	}
	return nil
}

func newReportWriter(a *app, output io.Writer) report.Writer {
	switch {
	case a.cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case a.cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(a.cfg.Verbose))
	}
}

// createReportFile creates (or truncates) path with owner-only permissions.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
