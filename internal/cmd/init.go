package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/speckit/internal/workflow"
)

// NewInitCommand creates the init subcommand
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [requirements-file | -]",
		Short: "Initialize a specification-driven project",
		Long: `Create the project namespaces, write the initial specification built from
the requirements text and record the project configuration with the
pipeline positioned at the specify phase.

Requirements are read from the given file, or from stdin when the
argument is "-". Without an argument the sample requirements are used.`,
		Example: `  speckit init requirements.txt --name "Task Manager"
  cat requirements.txt | speckit init - --agent copilot`,
		Args: cobra.MaximumNArgs(1),
		RunE: initCommand,
	}

	cmd.Flags().String("name", "", "Project name (overrides project.name)")
	cmd.Flags().String("format", "", "Specification format: markdown, yaml, json")
	cmd.Flags().String("agent", "", "Target AI agent: claude, copilot, gemini, cursor")

	return cmd
}

func initCommand(cmd *cobra.Command, args []string) error {
	requirements := workflow.SampleRequirements
	if len(args) == 1 {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return fmt.Errorf("failed to read requirements: %w", err)
		}
		requirements = string(data)
	}

	a, err := loadApp(cmd, appOptions{fileLog: true, history: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ensureHome(); err != nil {
		return err
	}

	cfg, err := a.engine().InitializeProject(requirements)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nProject %q initialized\n", cfg.ProjectName)
	fmt.Fprintf(out, "  ID: %s\n", cfg.ID)
	fmt.Fprintf(out, "  Format: %s\n", cfg.SpecificationFormat)
	fmt.Fprintf(out, "  Agent: %s\n", cfg.AIAgent)
	fmt.Fprintf(out, "  Current phase: %s\n", cfg.CurrentPhase)
	fmt.Fprintf(out, "  Documents: %s\n", a.cfg.Project.OutputDirectory)
	return nil
}

// readInput reads path, or the command's stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
