package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewReportCommand creates the report subcommand
func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the implementation report",
		Long: `Render the implementation report for the configured project, write it to
implementation-report.md in the output directory and optionally print it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.engine().GenerateImplementationReport()
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}
			if show, _ := cmd.Flags().GetBool("print"); show {
				fmt.Fprint(cmd.OutOrStdout(), report)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("print", "p", false, "Print the report to stdout")

	return cmd
}
