package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harrison/speckit/internal/docstore"
	"github.com/harrison/speckit/internal/workflow"
)

// NewStatusCommand creates the status subcommand
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the project configuration and phase states",
		Args:  cobra.NoArgs,
		RunE:  statusCommand,
	}

	cmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml")

	return cmd
}

func statusCommand(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" && format != "yaml" {
		return fmt.Errorf("invalid format %q, must be one of: text, json, yaml", format)
	}

	a, err := loadApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	st, err := a.engine().Status()
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("project not initialized (run 'speckit init' first)")
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(st); err != nil {
			return err
		}
		return enc.Close()
	}

	printStatus(cmd, st)
	return nil
}

func printStatus(cmd *cobra.Command, st workflow.ProjectStatus) {
	out := cmd.OutOrStdout()
	p := st.Project
	fmt.Fprintf(out, "Project: %s (%s)\n", p.ProjectName, p.ID)
	fmt.Fprintf(out, "  Created: %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Format: %s, Agent: %s\n", p.SpecificationFormat, p.AIAgent)
	fmt.Fprintf(out, "\nPhases:\n")
	for _, ph := range st.Phases {
		marker := " "
		if ph.Current {
			marker = "*"
		}
		status := "not run"
		if ph.Executed {
			status = string(ph.Status)
		}
		fmt.Fprintf(out, "  %s %-10s %s\n", marker, ph.Phase, status)
	}
}
