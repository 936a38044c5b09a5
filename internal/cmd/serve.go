package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/speckit/internal/mcpserver"
)

// NewServeCommand creates the serve subcommand
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workflow and research tools over MCP (stdio)",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing phase
listing, specification validation, phase execution, project status,
report generation and single-query research as tools.

Logs go to stderr so they never interleave with the protocol stream.
With --memory, documents are kept in memory and discarded on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			memory, _ := cmd.Flags().GetBool("memory")
			a, err := loadApp(cmd, appOptions{
				fileLog: true,
				history: !memory,
				memory:  memory,
				logOut:  cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer a.Close()

			s := mcpserver.New(a.engine(), a.orchestrator(false), Version)
			return mcpserver.ServeStdio(s)
		},
	}

	cmd.Flags().Bool("memory", false, "Keep documents in memory instead of the output directory")

	return cmd
}
