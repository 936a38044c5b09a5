package workflow

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// RequiredSections are the headers every specification must mention
var RequiredSections = []string{
	"Project Overview",
	"User Stories",
	"Success Criteria",
	"Scope and Boundaries",
	"Technical Constraints",
}

// ValidationPassed is the single finding returned for a passing specification
const ValidationPassed = "Specification validation passed"

// ValidateSpecification runs the keyword checks on spec, in order: required
// sections, user story marker, checkbox marker, In Scope, Out of Scope.
// Each failed check adds one finding. Matching is plain substring presence.
func ValidateSpecification(spec string) (bool, []string) {
	var findings []string

	var missing []string
	for _, section := range RequiredSections {
		if !strings.Contains(spec, section) {
			missing = append(missing, section)
		}
	}
	if len(missing) > 0 {
		findings = append(findings, "Missing required sections: "+strings.Join(missing, ", "))
	}

	if !strings.Contains(spec, "As a") {
		findings = append(findings, "No user stories found (should contain 'As a' patterns)")
	}

	// "- [ ]" contains "[ ]", so one check covers both markers
	if !strings.Contains(spec, "[ ]") {
		findings = append(findings, "No checkboxes found for success criteria")
	}

	if !strings.Contains(spec, "In Scope") {
		findings = append(findings, "Missing scope boundaries definition: no In Scope section")
	}
	if !strings.Contains(spec, "Out of Scope") {
		findings = append(findings, "Missing scope boundaries definition: no Out of Scope section")
	}

	if len(findings) > 0 {
		return false, findings
	}
	return true, []string{ValidationPassed}
}

// Heading is one markdown heading of a specification
type Heading struct {
	Level int
	Text  string
}

// Outline returns the markdown headings of spec in document order.
// It is informational only and does not affect ValidateSpecification.
func Outline(spec []byte) []Heading {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(spec))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			headings = append(headings, Heading{Level: h.Level, Text: headingText(h, spec)})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return headings
}

// headingText concatenates the text segments below n
func headingText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
