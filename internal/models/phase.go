package models

import (
	"fmt"
	"sort"
	"strings"
)

// PhaseID identifies one stage of the specify -> plan -> tasks -> implement pipeline
type PhaseID string

// Pipeline phase identifiers, in execution order
const (
	PhaseSpecify   PhaseID = "specify"
	PhasePlan      PhaseID = "plan"
	PhaseTasks     PhaseID = "tasks"
	PhaseImplement PhaseID = "implement"
)

// PhaseOrder is the fixed execution order of the pipeline
var PhaseOrder = []PhaseID{PhaseSpecify, PhasePlan, PhaseTasks, PhaseImplement}

// ParsePhaseID converts a user-supplied name into a PhaseID.
// Matching is case-insensitive; ok is false for names outside the pipeline.
func ParsePhaseID(name string) (PhaseID, bool) {
	candidate := PhaseID(strings.ToLower(strings.TrimSpace(name)))
	for _, id := range PhaseOrder {
		if id == candidate {
			return id, true
		}
	}
	return "", false
}

// Index returns the position of the phase in PhaseOrder, or -1 if unknown
func (p PhaseID) Index() int {
	for i, id := range PhaseOrder {
		if id == p {
			return i
		}
	}
	return -1
}

// Next returns the phase that follows p. ok is false for the last phase.
func (p PhaseID) Next() (PhaseID, bool) {
	i := p.Index()
	if i < 0 || i+1 >= len(PhaseOrder) {
		return "", false
	}
	return PhaseOrder[i+1], true
}

// PhaseDefinition describes one pipeline phase.
// Definitions are built once by the workflow engine and never mutated.
type PhaseDefinition struct {
	ID                 PhaseID           // Registry key
	Name               string            // Display name, e.g. "Specify"
	Description        string            // What the phase produces
	Inputs             []string          // Named inputs, in order
	Outputs            []string          // Named outputs, in order
	ValidationCriteria []string          // Free-text completion criteria
	Prompts            map[string]string // Prompt name -> template with {placeholder} fields
}

// PromptNames returns the prompt names sorted alphabetically
func (d PhaseDefinition) PromptNames() []string {
	names := make([]string, 0, len(d.Prompts))
	for name := range d.Prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderPrompt substitutes {key} placeholders in the named prompt template.
// Placeholders without a value are left untouched.
func (d PhaseDefinition) RenderPrompt(name string, vars map[string]string) (string, error) {
	tmpl, ok := d.Prompts[name]
	if !ok {
		return "", fmt.Errorf("phase %s has no prompt %q", d.ID, name)
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl), nil
}

// ValidationStatus is the overall verdict of a phase completion check
type ValidationStatus string

// Validation status constants
const (
	StatusPassed             ValidationStatus = "passed"
	StatusPassedWithWarnings ValidationStatus = "passed_with_warnings"
	StatusFailed             ValidationStatus = "failed"
)

// ValidationOutcome lists which criteria of a phase were met and which failed
type ValidationOutcome struct {
	Phase          string           `json:"phase"`
	CriteriaMet    []string         `json:"criteria_met"`
	CriteriaFailed []string         `json:"criteria_failed"`
	OverallStatus  ValidationStatus `json:"overall_status"`
}

// StatusFor derives the overall status from met and failed counts:
// passed when nothing failed, passed_with_warnings when met outnumbers failed,
// failed otherwise.
func StatusFor(met, failed int) ValidationStatus {
	switch {
	case failed == 0:
		return StatusPassed
	case met > failed:
		return StatusPassedWithWarnings
	default:
		return StatusFailed
	}
}

// IsPassing reports whether the status allows the pipeline to move on
func (s ValidationStatus) IsPassing() bool {
	return s == StatusPassed || s == StatusPassedWithWarnings
}
