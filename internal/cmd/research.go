package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/speckit/internal/config"
	"github.com/harrison/speckit/internal/research"
)

// NewResearchCommand creates the research subcommand
func NewResearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research",
		Short: "Run the research registry and write the analysis document",
		Long: `Execute every registered research query in order, pausing between
queries, then compile the answers into one markdown document.

The API credential is read from the variable named by research.api_key_env
(process environment first, then .env in the project root). Without a
credential, or with --mock, every query returns a mock response.`,
		Example: `  speckit research
  speckit research --only speckit_fundamentals --only advanced_patterns
  speckit research --mock --output /tmp/analysis.md`,
		Args: cobra.NoArgs,
		RunE: researchCommand,
	}

	cmd.Flags().StringP("output", "o", "", "Document path (default: research.output_file under the project root)")
	cmd.Flags().StringArray("only", nil, "Run only the named registry queries (repeatable)")
	cmd.Flags().Bool("mock", false, "Skip the API and use mock responses")

	return cmd
}

func researchCommand(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, appOptions{fileLog: true, history: true})
	if err != nil {
		return err
	}
	defer a.Close()

	mock, _ := cmd.Flags().GetBool("mock")
	var extra []research.Option
	if only, _ := cmd.Flags().GetStringArray("only"); len(only) > 0 {
		queries, err := selectQueries(research.DefineQueries(), only)
		if err != nil {
			return err
		}
		extra = append(extra, research.WithQueries(queries))
	}
	orch := a.orchestrator(mock, extra...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := orch.ComprehensiveResearch(ctx)
	if err != nil && len(results) == 0 {
		return fmt.Errorf("research interrupted: %w", err)
	}
	if err != nil {
		a.log.LogWarn(fmt.Sprintf("Research interrupted after %d queries; writing partial document", len(results)))
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = config.ResolvePath(a.root, a.cfg.Research.OutputFile)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	doc := research.GenerateDocumentation(results, time.Now())
	if err := os.WriteFile(output, []byte(doc), 0644); err != nil {
		return fmt.Errorf("write research document: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nResearch document written to %s\n\n", output)
	fmt.Fprint(out, research.Summarize(results))
	return err
}

// selectQueries keeps the registry entries named in only, in registry order.
func selectQueries(all []research.NamedQuery, only []string) ([]research.NamedQuery, error) {
	want := make(map[string]bool, len(only))
	for _, name := range only {
		want[name] = true
	}

	var selected []research.NamedQuery
	for _, nq := range all {
		if want[nq.Name] {
			selected = append(selected, nq)
			delete(want, nq.Name)
		}
	}
	if len(want) > 0 {
		var unknown []string
		for _, name := range only {
			if want[name] {
				unknown = append(unknown, name)
			}
		}
		names := make([]string, len(all))
		for i, nq := range all {
			names[i] = nq.Name
		}
		return nil, fmt.Errorf("unknown research queries %s (available: %s)",
			strings.Join(unknown, ", "), strings.Join(names, ", "))
	}
	return selected, nil
}
