package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/speckit/internal/models"
)

// NewPhaseCommand creates the phase subcommand
func NewPhaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase <specify|plan|tasks|implement>",
		Short: "Execute one workflow phase",
		Long: `Execute a single phase with the given inputs, store its execution record
and validate it against the phase's success criteria.

Inputs are key=value pairs. A value starting with "@" is read from the
named file; a value written as [a, b, c] becomes a list. Any other value,
commas included, is passed through as text.`,
		Example: `  speckit phase specify --input requirements=@requirements.txt
  speckit phase plan --input "constraints=[Web-based, Responsive]" --json`,
		Args: cobra.ExactArgs(1),
		RunE: phaseCommand,
	}

	cmd.Flags().StringArrayP("input", "i", nil, "Phase input as key=value (repeatable)")
	cmd.Flags().Bool("json", false, "Print the execution report as JSON")

	return cmd
}

func phaseCommand(cmd *cobra.Command, args []string) error {
	pairs, _ := cmd.Flags().GetStringArray("input")
	inputs, err := parseInputs(cmd, pairs)
	if err != nil {
		return err
	}

	a, err := loadApp(cmd, appOptions{fileLog: true, history: true})
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.engine().ExecutePhase(cmd.Context(), args[0], inputs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(cmd, report)
	return nil
}

// parseInputs turns key=value pairs into a phase input map.
func parseInputs(cmd *cobra.Command, pairs []string) (map[string]any, error) {
	inputs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid input %q: expected key=value", pair)
		}

		if strings.HasPrefix(value, "@") {
			data, err := readInput(cmd, strings.TrimPrefix(value, "@"))
			if err != nil {
				return nil, fmt.Errorf("input %s: %w", key, err)
			}
			inputs[key] = string(data)
			continue
		}

		if inner, ok := listValue(value); ok {
			items := []string{}
			for _, item := range strings.Split(inner, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			inputs[key] = items
			continue
		}
		inputs[key] = value
	}
	return inputs, nil
}

// listValue reports whether value is written as a bracketed list and
// returns what is between the brackets.
func listValue(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if len(v) < 2 || v[0] != '[' || v[len(v)-1] != ']' {
		return "", false
	}
	return v[1 : len(v)-1], true
}

func printReport(cmd *cobra.Command, report models.PhaseExecutionReport) {
	out := cmd.OutOrStdout()
	v := report.Validation
	fmt.Fprintf(out, "\n%s phase: %s\n", report.Results.PhaseName, v.OverallStatus)
	if len(report.Results.InputsProcessed) > 0 {
		fmt.Fprintf(out, "  Inputs: %s\n", strings.Join(report.Results.InputsProcessed, ", "))
	}
	for _, c := range v.CriteriaMet {
		fmt.Fprintf(out, "  ✓ %s\n", c)
	}
	for _, c := range v.CriteriaFailed {
		fmt.Fprintf(out, "  ✗ %s\n", c)
	}
}
