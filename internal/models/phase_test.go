package models

import (
	"testing"
	"time"
)

func TestParsePhaseID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   PhaseID
		wantOK bool
	}{
		{name: "lowercase", input: "specify", want: PhaseSpecify, wantOK: true},
		{name: "mixed case", input: "Plan", want: PhasePlan, wantOK: true},
		{name: "padded", input: "  tasks ", want: PhaseTasks, wantOK: true},
		{name: "implement", input: "IMPLEMENT", want: PhaseImplement, wantOK: true},
		{name: "unknown", input: "bogus", want: "", wantOK: false},
		{name: "empty", input: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePhaseID(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParsePhaseID(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPhaseID_Next(t *testing.T) {
	tests := []struct {
		phase  PhaseID
		want   PhaseID
		wantOK bool
	}{
		{PhaseSpecify, PhasePlan, true},
		{PhasePlan, PhaseTasks, true},
		{PhaseTasks, PhaseImplement, true},
		{PhaseImplement, "", false},
		{PhaseID("bogus"), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			got, ok := tt.phase.Next()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("%s.Next() = (%q, %v), want (%q, %v)", tt.phase, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		met    int
		failed int
		want   ValidationStatus
	}{
		{name: "nothing failed", met: 4, failed: 0, want: StatusPassed},
		{name: "no criteria at all", met: 0, failed: 0, want: StatusPassed},
		{name: "met outnumbers failed", met: 3, failed: 1, want: StatusPassedWithWarnings},
		{name: "tie", met: 2, failed: 2, want: StatusFailed},
		{name: "all failed", met: 0, failed: 4, want: StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.met, tt.failed); got != tt.want {
				t.Errorf("StatusFor(%d, %d) = %s, want %s", tt.met, tt.failed, got, tt.want)
			}
		})
	}
}

func TestRenderPrompt(t *testing.T) {
	def := PhaseDefinition{
		ID: PhasePlan,
		Prompts: map[string]string{
			"architecture_design": "Specification: {specification}\nConstraints: {constraints}\nOther: {unknown}",
		},
	}

	got, err := def.RenderPrompt("architecture_design", map[string]string{
		"specification": "spec text",
		"constraints":   "web only",
	})
	if err != nil {
		t.Fatalf("RenderPrompt returned error: %v", err)
	}
	want := "Specification: spec text\nConstraints: web only\nOther: {unknown}"
	if got != want {
		t.Errorf("RenderPrompt = %q, want %q", got, want)
	}

	if _, err := def.RenderPrompt("missing", nil); err == nil {
		t.Error("RenderPrompt should fail for an unknown prompt name")
	}
}

func TestExecutionRecord_HasPayload(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name   string
		record *ExecutionRecord
		want   bool
	}{
		{name: "nil record", record: nil, want: false},
		{name: "specify with result", record: &ExecutionRecord{PhaseID: PhaseSpecify, Specify: &SpecifyResult{}}, want: true},
		{name: "plan missing result", record: &ExecutionRecord{PhaseID: PhasePlan}, want: false},
		{name: "result for wrong phase", record: &ExecutionRecord{PhaseID: PhaseTasks, Implement: &ImplementResult{}}, want: false},
		{name: "implement with result", record: &ExecutionRecord{PhaseID: PhaseImplement, Implement: &ImplementResult{}, Timestamp: ts}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.HasPayload(); got != tt.want {
				t.Errorf("HasPayload() = %v, want %v", got, tt.want)
			}
		})
	}
}
