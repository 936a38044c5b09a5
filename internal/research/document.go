package research

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/harrison/speckit/internal/models"
)

const (
	maxKeySources  = 3
	insightPreview = 500
)

const documentIntro = `## Executive Summary

This comprehensive research analysis explores GitHub's SpecKit methodology and specification-driven development patterns using advanced AI research capabilities. The analysis covers fundamental concepts, implementation strategies, competitive landscape, and advanced architectural patterns.

`

const implementationRoadmap = `
## Implementation Roadmap

### Phase 1: Foundation (Weeks 1-2)
- [ ] SpecKit framework evaluation and setup
- [ ] Core team training and onboarding
- [ ] Initial specification patterns development
- [ ] Development environment configuration

### Phase 2: Pilot Implementation (Weeks 3-6)
- [ ] Select pilot project for SpecKit adoption
- [ ] Develop initial executable specifications
- [ ] Implement specification execution pipeline
- [ ] Establish testing and validation processes

### Phase 3: Advanced Patterns (Weeks 7-10)
- [ ] Implement AI agent coordination patterns
- [ ] Develop advanced specification composition
- [ ] Integrate with existing development workflows
- [ ] Establish governance and best practices

### Phase 4: Scale and Optimize (Weeks 11-12)
- [ ] Scale to additional teams and projects
- [ ] Performance optimization and monitoring
- [ ] Documentation and knowledge sharing
- [ ] Continuous improvement processes

## Next Steps

1. **Technical Evaluation**: Conduct hands-on evaluation of SpecKit framework
2. **Team Readiness Assessment**: Evaluate team skills and training needs
3. **Pilot Project Selection**: Choose appropriate project for initial implementation
4. **Stakeholder Alignment**: Ensure leadership support and resource allocation

## Resources for Further Learning

- Official SpecKit documentation and examples
- Community forums and discussion groups
- Training materials and certification programs
- Consulting and professional services options

---

*This analysis was generated using Enhanced Perplexity Research with Sonar reasoning capabilities for comprehensive methodology exploration.*
`

// SectionTitle turns a registry name like "ai_agent_coordination" into
// "Ai Agent Coordination".
func SectionTitle(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// GenerateDocumentation reduces results into one markdown document. Sections
// follow the order of results.
func GenerateDocumentation(results models.ResearchResults, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# SpecKit Methodology: Comprehensive Research Analysis\n\n")
	fmt.Fprintf(&sb, "*Generated on %s*\n\n", generatedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString(documentIntro)

	for _, nr := range results {
		writeSection(&sb, nr.Name, nr.Result)
		sb.WriteString("\n---\n")
	}

	sb.WriteString(implementationRoadmap)
	return sb.String()
}

// RenderResult renders the document section for a single result.
func RenderResult(name string, r models.ResearchResult) string {
	var sb strings.Builder
	writeSection(&sb, name, r)
	return sb.String()
}

func writeSection(sb *strings.Builder, name string, r models.ResearchResult) {
	fmt.Fprintf(sb, "\n## %s\n\n", SectionTitle(name))
	fmt.Fprintf(sb, "### Research Query\n**Focus**: %s\n\n", r.Query)
	fmt.Fprintf(sb, "### Analysis\n%s\n\n", r.Response)
	sb.WriteString("### Key Sources\n")
	for i, src := range r.Sources {
		if i == maxKeySources {
			break
		}
		fmt.Fprintf(sb, "- [%s](%s): %s\n", src.Title, src.URL, src.Snippet)
	}

	if len(r.FollowUpInsights) > 0 {
		sb.WriteString("\n### Advanced Insights\n")
		for _, in := range r.FollowUpInsights {
			fmt.Fprintf(sb, "\n**%s**\n", in.Query)
			sb.WriteString(truncate(in.Result.Response, insightPreview))
			sb.WriteString("\n")
		}
	}
}

// Summarize renders one line group per result: response length in
// characters, source count and follow-up count.
func Summarize(results models.ResearchResults) string {
	var sb strings.Builder
	sb.WriteString("Research Summary:\n")
	for _, nr := range results {
		fmt.Fprintf(&sb, "  - %s: %d characters of analysis\n", nr.Name, utf8.RuneCountInString(nr.Result.Response))
		fmt.Fprintf(&sb, "    Sources: %d references\n", len(nr.Result.Sources))
		fmt.Fprintf(&sb, "    Follow-ups: %d additional insights\n", len(nr.Result.FollowUpInsights))
	}
	return sb.String()
}
