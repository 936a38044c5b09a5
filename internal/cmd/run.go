package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/speckit/internal/docstore"
	"github.com/harrison/speckit/internal/workflow"
)

// NewRunCommand creates the run subcommand
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline with the sample inputs",
		Long: `Run every phase in order (specify, plan, tasks, implement) with the
built-in sample inputs, print a summary of the validation outcomes and
write the implementation report.

A project is initialized from the sample requirements first when none
exists under the output directory.`,
		Example: `  speckit run
  speckit run --output-dir ./demo --log-level debug`,
		Args: cobra.NoArgs,
		RunE: runCommand,
	}

	cmd.Flags().Bool("advance", false, "Advance the project's current phase after each passing phase")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, appOptions{fileLog: true, history: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ensureHome(); err != nil {
		return err
	}

	engine := a.engine()
	if _, err := engine.LoadProjectConfig(); errors.Is(err, docstore.ErrNotFound) {
		if _, err := engine.InitializeProject(workflow.SampleRequirements); err != nil {
			return fmt.Errorf("failed to initialize project: %w", err)
		}
	} else if err != nil {
		return err
	}

	reports, err := engine.RunAll(cmd.Context(), workflow.SampleInputs())
	a.log.LogSummary(reports)
	if err != nil {
		return fmt.Errorf("pipeline stopped after %d phase(s): %w", len(reports), err)
	}

	if advance, _ := cmd.Flags().GetBool("advance"); advance {
		for range reports {
			if _, err := engine.Advance(); err != nil {
				if !errors.Is(err, workflow.ErrPipelineComplete) {
					a.log.LogWarn(err.Error())
				}
				break
			}
		}
	}

	if _, err := engine.GenerateImplementationReport(); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nRun %s complete: %d phase(s) executed\n", engine.RunID(), len(reports))
	fmt.Fprintf(out, "Implementation report: %s/%s\n", a.cfg.Project.OutputDirectory, workflow.ImplementationReport)
	return nil
}
