// Package main provides the entry point for the crewcheck CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for crewcheck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crewcheck",
		Short: "Data quality auditor for scraped officials datasets",
		Long: `Crewcheck audits scraped sports officials datasets for quality problems.

It loads a JSON results file and runs independent checks that flag
placeholder names, templated labels, duplicated crews, test keywords,
and known matchups whose two sides do not agree. Every run can be kept
in a local history database for run-to-run comparison.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewCompareCmd())
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
