package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Items      []string // Findings or affected files (optional)
	ItemLabel  string   // Heading for Items; defaults to "Findings"
	Suggestion string   // Action to take (optional)
}

var warnColor = color.New(color.FgYellow)

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Items) > 0 {
		label := w.ItemLabel
		if label == "" {
			label = "Findings"
		}
		fmt.Fprintf(&b, "    %s (%d):\n", label, len(w.Items))
		for i, item := range w.Items {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, item)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	warnColor.Fprint(out, b.String())
}

// ValidationWarning describes the findings reported for one specification.
func ValidationWarning(file string, findings []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("Specification %s is incomplete", file),
		Items:      findings,
		Suggestion: "Add the missing sections, user stories (\"As a ...\") and success-criteria checkboxes.",
	}
}

// Success prints a green check line.
func Success(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}
