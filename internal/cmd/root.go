package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for speckit
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "speckit",
		Short: "Specification-driven development workflow and research orchestration",
		Long: `SpecKit drives a project through the specify, plan, tasks and implement
phases, validating every phase against its success criteria before the
pipeline may advance.

It also runs a registry of research queries against a chat-completions
API (or mock responses when no credential is configured) and compiles
the answers into one markdown document.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .speckit/config.yaml under the project root)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().String("output-dir", "", "Directory for project documents (overrides project.output_directory)")

	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewPhaseCommand())
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewAdvanceCommand())
	cmd.AddCommand(NewStatusCommand())
	cmd.AddCommand(NewReportCommand())
	cmd.AddCommand(NewResearchCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewServeCommand())

	return cmd
}
