package workflow

import (
	"fmt"
	"strings"

	"github.com/harrison/speckit/internal/docstore"
)

const reportGuidelines = `## Implementation Guidelines

### Best Practices
1. **Specification First**: Always start with clear, unambiguous specifications
2. **Iterative Refinement**: Continuously refine specifications based on feedback
3. **AI Agent Coordination**: Use AI agents as literal-minded pair programmers
4. **Validation Gates**: Implement validation at each phase transition
5. **Documentation**: Maintain living documentation throughout the process

### Common Pitfalls
- Vague or ambiguous specifications
- Skipping validation steps
- Insufficient test coverage
- Poor AI prompt engineering
- Lack of stakeholder alignment

## Next Steps
1. Execute each phase systematically
2. Validate outputs at each stage
3. Integrate with CI/CD pipeline
4. Monitor and measure success metrics
5. Continuously improve the process

---

*This report was generated by the speckit implementation toolkit*
`

// GenerateImplementationReport renders the project report from the phase
// registry, writes it to implementation-report.md and returns it verbatim.
func (e *Engine) GenerateImplementationReport() (string, error) {
	if e.logger != nil {
		e.logger.LogInfo("Generating implementation report")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s - Implementation Report\n\n", e.settings.Name)
	fmt.Fprintf(&b, "*Generated: %s*\n\n", e.now().Format("2006-01-02 15:04:05"))

	b.WriteString("## Project Configuration\n")
	fmt.Fprintf(&b, "- **Project Name**: %s\n", e.settings.Name)
	fmt.Fprintf(&b, "- **Specification Format**: %s\n", e.settings.SpecificationFormat)
	fmt.Fprintf(&b, "- **AI Agent**: %s\n", e.settings.AIAgent)
	fmt.Fprintf(&b, "- **Output Directory**: %s\n\n", e.settings.OutputDirectory)

	b.WriteString("## Phase Execution Summary\n")
	for _, def := range e.phases {
		fmt.Fprintf(&b, "\n### %s Phase\n", def.Name)
		fmt.Fprintf(&b, "**Description**: %s\n\n", def.Description)
		fmt.Fprintf(&b, "**Inputs** (%d): %s\n", len(def.Inputs), strings.Join(def.Inputs, ", "))
		fmt.Fprintf(&b, "**Outputs** (%d): %s\n", len(def.Outputs), strings.Join(def.Outputs, ", "))
		fmt.Fprintf(&b, "**Validation Criteria**: %d criteria defined\n", len(def.ValidationCriteria))
	}
	b.WriteString("\n")
	b.WriteString(reportGuidelines)

	report := b.String()
	if err := e.store.Write(docstore.RootNamespace, ImplementationReport, []byte(report)); err != nil {
		return "", err
	}
	return report, nil
}
