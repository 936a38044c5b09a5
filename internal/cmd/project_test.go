package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/speckit/internal/models"
	"github.com/harrison/speckit/internal/workflow"
)

func TestInitCommand(t *testing.T) {
	dir := setupProject(t)
	reqFile := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(reqFile, []byte("As a planner, I want reminders."), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := executeCommand(t, "init", reqFile, "--agent", "Copilot")
	if err != nil {
		t.Fatalf("init failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, `Project "Test Project" initialized`) {
		t.Errorf("Expected initialized message, got: %s", output)
	}
	if !strings.Contains(output, "Agent: copilot") {
		t.Errorf("Expected lower-cased agent, got: %s", output)
	}
	if !strings.Contains(output, "Current phase: specify") {
		t.Errorf("Expected specify as current phase, got: %s", output)
	}

	spec, err := os.ReadFile(filepath.Join(dir, "output", workflow.SpecificationsNS, workflow.InitialSpecKey))
	if err != nil {
		t.Fatalf("Initial specification not written: %v", err)
	}
	if !strings.Contains(string(spec), "As a planner, I want reminders.") {
		t.Errorf("Specification should embed the requirements, got: %s", spec)
	}
	if _, err := os.Stat(filepath.Join(dir, "output", workflow.ConfigKey)); err != nil {
		t.Errorf("Project config not written: %v", err)
	}
}

func TestInitCommand_Stdin(t *testing.T) {
	dir := setupProject(t)

	rootCmd := NewRootCommand()
	var buf strings.Builder
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader("Requirements from stdin"))
	rootCmd.SetArgs([]string{"init", "-", "--name", "Piped"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	spec, err := os.ReadFile(filepath.Join(dir, "output", workflow.SpecificationsNS, workflow.InitialSpecKey))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(spec), "# Piped - Project Specification") {
		t.Errorf("Expected --name in the title, got: %s", spec)
	}
	if !strings.Contains(string(spec), "Requirements from stdin") {
		t.Errorf("Expected stdin requirements, got: %s", spec)
	}
}

func TestInitCommand_Errors(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErrContain string
	}{
		{
			name:           "invalid agent",
			args:           []string{"init", "--agent", "clippy"},
			wantErrContain: "invalid configuration",
		},
		{
			name:           "invalid format",
			args:           []string{"init", "--format", "xml"},
			wantErrContain: "specification_format",
		},
		{
			name:           "missing requirements file",
			args:           []string{"init", "does-not-exist.txt"},
			wantErrContain: "failed to read requirements",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupProject(t)
			_, err := executeCommand(t, tt.args...)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrContain) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErrContain, err)
			}
		})
	}
}

func TestPhaseCommand(t *testing.T) {
	dir := setupProject(t)
	reqFile := filepath.Join(dir, "req.txt")
	if err := os.WriteFile(reqFile, []byte("As a user, I want A. As a admin, I want B."), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := executeCommand(t, "phase", "SPECIFY", "--input", "requirements=@"+reqFile, "--json")
	if err != nil {
		t.Fatalf("phase failed: %v\n%s", err, output)
	}

	var report models.PhaseExecutionReport
	if err := json.Unmarshal([]byte(output[strings.Index(output, "{\n"):]), &report); err != nil {
		t.Fatalf("Output is not a JSON report: %v\n%s", err, output)
	}
	if report.Phase != models.PhaseSpecify {
		t.Errorf("Expected specify, got %s", report.Phase)
	}
	if report.Results.Specify == nil || report.Results.Specify.UserStoriesCount != 3 {
		t.Errorf("Expected 3 story segments, got %+v", report.Results.Specify)
	}
	if report.Validation.OverallStatus != models.StatusPassed {
		t.Errorf("Expected passed, got %s", report.Validation.OverallStatus)
	}

	if _, err := os.Stat(filepath.Join(dir, "output", "specify", workflow.ResultsKey(models.PhaseSpecify))); err != nil {
		t.Errorf("Execution record not stored: %v", err)
	}
}

func TestPhaseCommand_Text(t *testing.T) {
	setupProject(t)

	output, err := executeCommand(t, "phase", "plan", "-i", "constraints=[Web-based, Responsive]", "-i", "specification=spec")
	if err != nil {
		t.Fatalf("phase failed: %v", err)
	}
	if !strings.Contains(output, "Plan phase: passed") {
		t.Errorf("Expected plan verdict, got: %s", output)
	}
	if !strings.Contains(output, "Inputs: constraints, specification") {
		t.Errorf("Expected sorted inputs, got: %s", output)
	}
}

func TestPhaseCommand_InvalidPhase(t *testing.T) {
	setupProject(t)

	_, err := executeCommand(t, "phase", "deploy")
	if err == nil || !strings.Contains(err.Error(), "invalid phase") {
		t.Fatalf("Expected invalid phase error, got %v", err)
	}
}

func TestParseInputs(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]any
		wantErr bool
	}{
		{
			name:  "plain value",
			pairs: []string{"architecture=MVC"},
			want:  map[string]any{"architecture": "MVC"},
		},
		{
			name:  "bracketed list",
			pairs: []string{"tests=[Unit, Integration,]"},
			want:  map[string]any{"tests": []string{"Unit", "Integration"}},
		},
		{
			name:  "empty list",
			pairs: []string{"tests=[]"},
			want:  map[string]any{"tests": []string{}},
		},
		{
			name:  "commas stay in plain text",
			pairs: []string{"requirements=As a user, I want X, Y"},
			want:  map[string]any{"requirements": "As a user, I want X, Y"},
		},
		{
			name:  "empty value",
			pairs: []string{"strategy="},
			want:  map[string]any{"strategy": ""},
		},
		{
			name:    "missing separator",
			pairs:   []string{"architecture"},
			wantErr: true,
		},
		{
			name:    "empty key",
			pairs:   []string{"=value"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInputs(NewPhaseCommand(), tt.pairs)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(tt.want)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("parseInputs() = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestRunCommand(t *testing.T) {
	dir := setupProject(t)

	output, err := executeCommand(t, "run")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "4 phase(s) executed") {
		t.Errorf("Expected 4 phases executed, got: %s", output)
	}

	report, err := os.ReadFile(filepath.Join(dir, "output", workflow.ImplementationReport))
	if err != nil {
		t.Fatalf("Implementation report not written: %v", err)
	}
	if !strings.Contains(string(report), "# Test Project - Implementation Report") {
		t.Errorf("Unexpected report header: %s", report)
	}

	status, err := executeCommand(t, "status", "--format", "json")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	var st workflow.ProjectStatus
	if err := json.Unmarshal([]byte(status), &st); err != nil {
		t.Fatalf("status output is not JSON: %v\n%s", err, status)
	}
	if st.Project.ProjectName != "Test Project" {
		t.Errorf("Unexpected project name %q", st.Project.ProjectName)
	}
	for _, ph := range st.Phases {
		if !ph.Executed || ph.Status != models.StatusPassed {
			t.Errorf("Phase %s: executed=%v status=%s", ph.Phase, ph.Executed, ph.Status)
		}
	}
	if st.Project.CurrentPhase != models.PhaseSpecify {
		t.Errorf("run without --advance should not move the pipeline, got %s", st.Project.CurrentPhase)
	}
}

func TestRunCommand_Advance(t *testing.T) {
	setupProject(t)

	if _, err := executeCommand(t, "run", "--advance"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	output, err := executeCommand(t, "status", "-f", "yaml")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(output, "current_phase: implement") {
		t.Errorf("Expected implement as current phase, got: %s", output)
	}

	output, err = executeCommand(t, "advance")
	if err != nil {
		t.Fatalf("advance at the last phase should not fail: %v", err)
	}
	if !strings.Contains(output, "Pipeline complete") {
		t.Errorf("Expected pipeline complete message, got: %s", output)
	}
}

func TestAdvanceCommand(t *testing.T) {
	setupProject(t)

	if _, err := executeCommand(t, "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	_, err := executeCommand(t, "advance")
	if err == nil || !strings.Contains(err.Error(), "has not passed validation") {
		t.Fatalf("Expected not validated error, got %v", err)
	}

	if _, err := executeCommand(t, "phase", "specify", "-i", "requirements=x"); err != nil {
		t.Fatalf("phase failed: %v", err)
	}
	output, err := executeCommand(t, "advance")
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if !strings.Contains(output, "Current phase: plan") {
		t.Errorf("Expected plan, got: %s", output)
	}
}

func TestStatusCommand(t *testing.T) {
	t.Run("not initialized", func(t *testing.T) {
		setupProject(t)
		_, err := executeCommand(t, "status")
		if err == nil || !strings.Contains(err.Error(), "not initialized") {
			t.Fatalf("Expected not initialized error, got %v", err)
		}
	})

	t.Run("text", func(t *testing.T) {
		setupProject(t)
		if _, err := executeCommand(t, "init"); err != nil {
			t.Fatal(err)
		}
		output, err := executeCommand(t, "status")
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(output, "Project: Test Project") {
			t.Errorf("Expected project line, got: %s", output)
		}
		if !strings.Contains(output, "* specify") || !strings.Contains(output, "not run") {
			t.Errorf("Expected current specify not run, got: %s", output)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		setupProject(t)
		_, err := executeCommand(t, "status", "--format", "xml")
		if err == nil || !strings.Contains(err.Error(), "invalid format") {
			t.Fatalf("Expected invalid format error, got %v", err)
		}
	})
}

func TestReportCommand(t *testing.T) {
	dir := setupProject(t)

	output, err := executeCommand(t, "report", "--print", "--output-dir", "docs")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(output, "## Phase Execution Summary") {
		t.Errorf("Expected printed report, got: %s", output)
	}
	if !strings.Contains(output, "- **Output Directory**: docs") {
		t.Errorf("Expected --output-dir in the report, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(dir, "docs", workflow.ImplementationReport)); err != nil {
		t.Errorf("Report not written under --output-dir: %v", err)
	}
}
