// Package main provides the entry point for the precheck CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for precheck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "precheck",
		Short: "Website performance pre-check with headless Chrome",
		Long: `precheck collects website performance data before a release.

It drives headless Chrome to fetch PageSpeed Insights scores (with a
local fallback when the API quota is exhausted), capture full-page
screenshots with console-error logs, and record scrolling videos for
desktop and mobile viewports. Results are aggregated into a per-run
report and stored in a local history database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewHistoryCmd())
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
