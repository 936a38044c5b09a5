package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/speckit/internal/history"
)

// NewHistoryCommand creates the history subcommand
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived runs, phase executions and research results",
		Long: `Without --run, list every archived run with its phase and research
counts, most recent first. With --run, list that run's phase executions
and research results in the order they were recorded.`,
		Args: cobra.NoArgs,
		RunE: historyCommand,
	}

	cmd.Flags().String("run", "", "Show the entries of one run")

	return cmd
}

func historyCommand(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, appOptions{history: true})
	if err != nil {
		return err
	}
	defer a.Close()
	if a.archive == nil {
		return fmt.Errorf("history is disabled (research.history_db is empty)")
	}

	out := cmd.OutOrStdout()
	runID, _ := cmd.Flags().GetString("run")
	if runID == "" {
		runs, err := a.archive.Runs(cmd.Context())
		if err != nil {
			return err
		}
		printRuns(out, runs)
		return nil
	}

	phases, err := a.archive.ListPhases(cmd.Context(), runID)
	if err != nil {
		return err
	}
	results, err := a.archive.ListResearch(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(phases) == 0 && len(results) == 0 {
		return fmt.Errorf("no history for run %s", runID)
	}

	fmt.Fprintf(out, "Run %s\n", runID)
	if len(phases) > 0 {
		fmt.Fprintf(out, "\nPhases:\n")
		for _, p := range phases {
			fmt.Fprintf(out, "  %s  %-10s %-21s %d/%d criteria\n",
				p.CompletedAt.Local().Format("2006-01-02 15:04:05"), p.Phase, p.Status, p.CriteriaMet, p.CriteriaTotal)
		}
	}
	if len(results) > 0 {
		fmt.Fprintf(out, "\nResearch:\n")
		for _, r := range results {
			fmt.Fprintf(out, "  %s  %s: %d chars, %d sources, %d follow-ups (%s)\n",
				r.ResearchedAt.Local().Format("2006-01-02 15:04:05"), r.Name, r.ResponseChars, r.SourceCount, r.FollowUpCount, r.Model)
		}
	}
	return nil
}

func printRuns(out io.Writer, runs []history.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  phases: %d  research: %d\n",
			r.LastRecorded.Format("2006-01-02 15:04:05"), r.RunID, r.Phases, r.Research)
	}
}
