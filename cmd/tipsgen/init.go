package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/therapytips/tipsgen/internal/config"
)

//go:embed templates/tipsgen.yaml
var siteFileTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a commented .tipsgen.yaml site file",
		Long: `Init writes a .tipsgen.yaml site file in the current directory.

The generated file documents:
- Featured article slugs for the landing page
- YouTube videos embedded on the listing pages
- The trending source and its analytics settings
- Working directory overrides

Examples:
  # Create .tipsgen.yaml in current directory
  tipsgen init

  # Create the site file at a specific path
  tipsgen init -o site.yaml

  # Force overwrite existing file
  tipsgen init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the site file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing site file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("site file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := siteFileTemplate.ReadFile("templates/tipsgen.yaml")
	if err != nil {
		return fmt.Errorf("failed to read site file template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write site file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created site file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to change:")
	fmt.Fprintln(out, "  - Featured articles on the landing page")
	fmt.Fprintln(out, "  - Embedded YouTube videos")
	fmt.Fprintln(out, "  - The trending source")
	return nil
}
