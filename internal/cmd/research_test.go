package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/speckit/internal/research"
)

func TestResearchCommand_MockSubset(t *testing.T) {
	dir := setupProject(t)
	out := filepath.Join(dir, "analysis", "research.md")

	output, err := executeCommand(t, "research", "--mock",
		"--only", "advanced_patterns", "--only", "speckit_fundamentals", "--output", out)
	if err != nil {
		t.Fatalf("research failed: %v\n%s", err, output)
	}

	doc, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Document not written: %v", err)
	}
	text := string(doc)
	if !strings.HasPrefix(text, "# SpecKit Methodology: Comprehensive Research Analysis") {
		t.Errorf("Unexpected document title: %.80s", text)
	}
	first := strings.Index(text, "## Speckit Fundamentals")
	second := strings.Index(text, "## Advanced Patterns")
	if first < 0 || second < 0 || first > second {
		t.Errorf("Sections should follow registry order, got indexes %d and %d", first, second)
	}
	if strings.Contains(text, "## Competitive Analysis") {
		t.Error("Unselected queries should not run")
	}
	if !strings.Contains(text, "[Mock Response - API Key Required for Live Research]") {
		t.Error("Expected mock responses")
	}

	if !strings.Contains(output, "Research Summary:") {
		t.Errorf("Expected summary, got: %s", output)
	}
	if !strings.Contains(output, "Follow-ups: 3 additional insights") {
		t.Errorf("Expected follow-up counts, got: %s", output)
	}
}

func TestResearchCommand_DefaultOutput(t *testing.T) {
	dir := setupProject(t)

	output, err := executeCommand(t, "research", "--only", "competitive_analysis")
	if err != nil {
		t.Fatalf("research failed: %v", err)
	}
	if !strings.Contains(output, "SPECKIT_TEST_MISSING_KEY is not set") {
		t.Errorf("Expected missing credential warning, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(dir, "comprehensive-research-analysis.md")); err != nil {
		t.Errorf("Default document not written: %v", err)
	}
}

func TestResearchCommand_UnknownQuery(t *testing.T) {
	setupProject(t)

	_, err := executeCommand(t, "research", "--only", "nope")
	if err == nil || !strings.Contains(err.Error(), "unknown research queries nope") {
		t.Fatalf("Expected unknown query error, got %v", err)
	}
}

func TestSelectQueries(t *testing.T) {
	all := research.DefineQueries()

	got, err := selectQueries(all, []string{"implementation_strategies", "ai_agent_coordination"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "ai_agent_coordination" || got[1].Name != "implementation_strategies" {
		t.Errorf("Expected registry order, got %v", got)
	}

	_, err = selectQueries(all, []string{"ai_agent_coordination", "missing"})
	if err == nil || !strings.Contains(err.Error(), "available: speckit_fundamentals") {
		t.Errorf("Expected error listing available queries, got %v", err)
	}
}

func TestHistoryCommand(t *testing.T) {
	setupProject(t)

	output, err := executeCommand(t, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(output, "No runs recorded") {
		t.Errorf("Expected empty history, got: %s", output)
	}

	runOut, err := executeCommand(t, "run")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := executeCommand(t, "research", "--mock", "--only", "speckit_fundamentals"); err != nil {
		t.Fatalf("research failed: %v", err)
	}

	output, err = executeCommand(t, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(output, "phases: 4  research: 0") {
		t.Errorf("Expected run with 4 phases, got: %s", output)
	}
	if !strings.Contains(output, "phases: 0  research: 1") {
		t.Errorf("Expected research run, got: %s", output)
	}

	runID := runIDFrom(t, runOut)
	output, err = executeCommand(t, "history", "--run", runID)
	if err != nil {
		t.Fatalf("history --run failed: %v", err)
	}
	for _, phase := range []string{"specify", "plan", "tasks", "implement"} {
		if !strings.Contains(output, phase) {
			t.Errorf("Expected %s in run history, got: %s", phase, output)
		}
	}
	if !strings.Contains(output, "4/4 criteria") {
		t.Errorf("Expected criteria counts, got: %s", output)
	}

	_, err = executeCommand(t, "history", "--run", "missing")
	if err == nil || !strings.Contains(err.Error(), "no history for run missing") {
		t.Errorf("Expected missing run error, got %v", err)
	}
}

func runIDFrom(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if rest, ok := strings.CutPrefix(line, "Run "); ok {
			if id, _, ok := strings.Cut(rest, " complete"); ok {
				return id
			}
		}
	}
	t.Fatalf("No run id in output: %s", output)
	return ""
}
