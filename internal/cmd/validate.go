package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/speckit/internal/display"
	"github.com/harrison/speckit/internal/workflow"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <spec-file-or-directory>...",
		Short: "Validate one or more specification documents",
		Long: `Check markdown specifications for:
  - Required sections (Overview, User Stories, Acceptance Criteria, ...)
  - User stories written as "As a ..."
  - Checkbox success criteria
  - In Scope and Out of Scope boundaries

Supports multiple input modes:
  - Single file: speckit validate spec.md
  - Directory: speckit validate docs/specs/ (every *.md below it)
  - Glob patterns: speckit validate 'docs/**/spec-*.md'

Exit code: 0 if every specification is valid, 1 otherwise`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outline, _ := cmd.Flags().GetBool("outline")
			return validateSpecsWithOutput(args, outline, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().Bool("outline", false, "Print the heading outline of each specification")

	return cmd
}

// validateSpecsWithOutput validates specification files with a custom output writer (for testing)
func validateSpecsWithOutput(paths []string, outline bool, output io.Writer) error {
	files, err := display.ResolveSpecFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no specification files found in %s", strings.Join(paths, ", "))
	}

	progress := display.NewProgressIndicator(output, len(files))
	progress.Start()

	var warnings []display.Warning
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		ok, findings := workflow.ValidateSpecification(string(content))
		progress.Step(file, ok)
		if !ok {
			warnings = append(warnings, display.ValidationWarning(relPath(file), findings))
		}
		if outline {
			printOutline(output, content)
		}
	}
	progress.Complete()

	for _, w := range warnings {
		fmt.Fprintln(output)
		w.Display(output)
	}

	if failed := len(files) - progress.Passed(); failed > 0 {
		return fmt.Errorf("%d of %d specification(s) have findings", failed, len(files))
	}
	return nil
}

func printOutline(output io.Writer, content []byte) {
	for _, h := range workflow.Outline(content) {
		fmt.Fprintf(output, "        %s%s\n", strings.Repeat("  ", h.Level-1), h.Text)
	}
}

// relPath shortens path relative to the working directory when possible.
func relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
