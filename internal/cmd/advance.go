package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/speckit/internal/workflow"
)

// NewAdvanceCommand creates the advance subcommand
func NewAdvanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "advance",
		Short: "Move the project to the next phase",
		Long: `Re-validate the stored record of the current phase and, when it passes
(with or without warnings), move the project's current phase forward.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			cfg, err := a.engine().Advance()
			switch {
			case errors.Is(err, workflow.ErrPipelineComplete):
				fmt.Fprintf(cmd.OutOrStdout(), "Pipeline complete: %s is the last phase\n", cfg.CurrentPhase)
				return nil
			case err != nil:
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current phase: %s\n", cfg.CurrentPhase)
			return nil
		},
	}
}
