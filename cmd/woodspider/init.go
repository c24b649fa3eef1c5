package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/woodspider/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/woodspider.yaml templates/catalog.yaml
var templates embed.FS

const (
	configTemplatePath  = "templates/woodspider.yaml"
	catalogTemplatePath = "templates/catalog.yaml"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new woodspider configuration file",
		Long: `Initialize creates a new .woodspider configuration file in the current directory.

The generated file documents every option with its default value.
With --catalog, a sample keyword catalog is written as well.

Examples:
  # Create .woodspider in current directory
  woodspider init

  # Create config file at a specific path
  woodspider init -o myconfig.yaml

  # Also write a sample catalog
  woodspider init --catalog catalog.yaml

  # Force overwrite existing files
  woodspider init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().String("catalog", "",
		"Also write a sample keyword catalog to this path")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing files")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	catalogPath, err := cmd.Flags().GetString("catalog")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeTemplate(configTemplatePath, outputPath, force); err != nil {
		return err
	}
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)

	if catalogPath != "" {
		if err := writeTemplate(catalogTemplatePath, catalogPath, force); err != nil {
			return err
		}
		fmt.Fprintf(out, "Created catalog file: %s\n", catalogPath)
		fmt.Fprintf(out, "\nImport it with: woodspider catalog import %s\n", catalogPath)
	}
	return nil
}

// writeTemplate copies an embedded template to path.
func writeTemplate(name, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use -f to overwrite)", path)
		}
	}

	content, err := templates.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
