package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/crewcheck.yaml
var ruleTemplate embed.FS

// configFileName is the default rule file name.
const configFileName = ".crewcheck"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new crewcheck rule file",
		Long: `Initialize creates a new .crewcheck rule file in the current directory.

The generated file includes:
- Commented examples for placeholder names and keywords
- Sampling limits (sample size and top-name count)
- A home/away pairing table template for cross-verification

Examples:
  # Create .crewcheck in current directory
  crewcheck init

  # Create the rule file at a specific path
  crewcheck init -o rules.yaml

  # Force overwrite existing file
  crewcheck init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the rule file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing rule file")

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

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("rule file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := ruleTemplate.ReadFile("templates/crewcheck.yaml")
	if err != nil {
		return fmt.Errorf("failed to read rule template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write rule file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write rule file: %w", err)
	}

	fmt.Printf("Created rule file: %s\n", outputPath)
	fmt.Println("\nEdit this file to tune the audit rules:")
	fmt.Println("  - Placeholder names and test keywords to flag")
	fmt.Println("  - Review sample size and top-name count")
	fmt.Println("  - Known home/away pairings to cross-verify")

	return nil
}
