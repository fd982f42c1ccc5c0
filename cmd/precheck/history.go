package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/precheck/internal/config"
	"github.com/nao1215/precheck/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past runs from the history database",
		Long: `History lists runs stored in the local history database, newest first.

Each run shows when it started, how many URLs were analyzed, the
overall average score, and where its artifacts were written.

Examples:
  # Show the last 10 runs
  precheck history

  # Show the last 3 runs
  precheck history --limit 3`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 10, "Maximum number of runs to show (0 = all)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No run history yet. Run 'precheck run <url>' first.")
		return nil
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No run history yet. Run 'precheck run <url>' first.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-5s %-20s %-5s %-8s %s\n", "ID", "STARTED", "URLS", "AVG", "OUTPUT")
	fmt.Fprintln(out, strings.Repeat("-", 70))
	for _, r := range runs {
		avg := "N/A"
		if r.Totals.OverallAverage != nil {
			avg = fmt.Sprintf("%.1f", *r.Totals.OverallAverage)
		}
		fmt.Fprintf(out, "%-5d %-20s %-5d %-8s %s\n",
			r.ID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.URLCount,
			avg,
			r.OutputDir,
		)
	}
	return nil
}
