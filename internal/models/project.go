package models

import "time"

// Specification formats accepted for project documents
const (
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
	FormatJSON     = "json"
)

// ProjectConfig is the configuration record written when a project is initialized.
// CurrentPhase starts at the first pipeline phase and only moves forward.
type ProjectConfig struct {
	ID                  string    `json:"id" yaml:"id"`
	ProjectName         string    `json:"project_name" yaml:"project_name"`
	CreatedAt           time.Time `json:"created_at" yaml:"created_at"`
	SpecificationFormat string    `json:"specification_format" yaml:"specification_format"`
	AIAgent             string    `json:"ai_agent" yaml:"ai_agent"`
	Phases              []PhaseID `json:"phases" yaml:"phases"`
	CurrentPhase        PhaseID   `json:"current_phase" yaml:"current_phase"`
}
