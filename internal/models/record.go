package models

import "time"

// ExecutionRecord is the persisted result of one phase invocation.
// Exactly one of the phase-specific result fields is set, matching PhaseID.
// A re-run of the phase produces a new record that replaces the stored one.
type ExecutionRecord struct {
	PhaseID          PhaseID   `json:"phase_id"`
	PhaseName        string    `json:"phase_name"`
	Description      string    `json:"description"`
	InputsProcessed  []string  `json:"inputs_processed"`
	OutputsGenerated []string  `json:"outputs_generated"`
	Timestamp        time.Time `json:"timestamp"`

	Specify   *SpecifyResult   `json:"specify,omitempty"`
	Plan      *PlanResult      `json:"plan,omitempty"`
	Tasks     *TasksResult     `json:"tasks,omitempty"`
	Implement *ImplementResult `json:"implement,omitempty"`
}

// SpecifyResult holds the fields produced by the specify phase
type SpecifyResult struct {
	SpecificationQuality string `json:"specification_quality"`
	UserStoriesCount     int    `json:"user_stories_count"`
}

// PlanResult holds the fields produced by the plan phase
type PlanResult struct {
	ArchitectureComplexity string   `json:"architecture_complexity"`
	TechnologyStack        []string `json:"technology_stack"`
}

// TasksResult holds the fields produced by the tasks phase
type TasksResult struct {
	TaskCount      int `json:"task_count"`
	EstimatedHours int `json:"estimated_hours"`
}

// ImplementResult holds the fields produced by the implement phase
type ImplementResult struct {
	CodeFilesGenerated int    `json:"code_files_generated"`
	TestCoverage       string `json:"test_coverage"`
}

// HasPayload returns true if the phase-specific result for the record's phase is present
func (r *ExecutionRecord) HasPayload() bool {
	if r == nil {
		return false
	}
	switch r.PhaseID {
	case PhaseSpecify:
		return r.Specify != nil
	case PhasePlan:
		return r.Plan != nil
	case PhaseTasks:
		return r.Tasks != nil
	case PhaseImplement:
		return r.Implement != nil
	default:
		return false
	}
}

// HasTimestamp returns true if the record carries a non-zero timestamp
func (r *ExecutionRecord) HasTimestamp() bool {
	return r != nil && !r.Timestamp.IsZero()
}

// PhaseExecutionReport bundles a phase's record with its validation outcome
type PhaseExecutionReport struct {
	Phase       PhaseID           `json:"phase"`
	Results     ExecutionRecord   `json:"results"`
	Validation  ValidationOutcome `json:"validation"`
	CompletedAt time.Time         `json:"completed_at"`
}
