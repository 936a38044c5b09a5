package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/harrison/speckit/internal/docstore"
	"github.com/harrison/speckit/internal/models"
)

// InitializeProject creates the project namespaces, writes the initial
// specification derived from requirements, and writes the project config
// record with CurrentPhase set to the first phase. The requirements text is
// substituted verbatim and not validated.
func (e *Engine) InitializeProject(requirements string) (models.ProjectConfig, error) {
	if e.logger != nil {
		e.logger.LogInfo(fmt.Sprintf("Initializing speckit project: %s", e.settings.Name))
	}

	for _, ns := range ProjectNamespaces {
		if err := e.store.EnsureNamespace(ns); err != nil {
			return models.ProjectConfig{}, err
		}
	}

	spec := e.InitialSpecification(requirements)
	if err := e.store.Write(SpecificationsNS, InitialSpecKey, []byte(spec)); err != nil {
		return models.ProjectConfig{}, err
	}

	phases := make([]models.PhaseID, len(e.phases))
	for i, def := range e.phases {
		phases[i] = def.ID
	}
	cfg := models.ProjectConfig{
		ID:                  uuid.NewString(),
		ProjectName:         e.settings.Name,
		CreatedAt:           e.now(),
		SpecificationFormat: e.settings.SpecificationFormat,
		AIAgent:             e.settings.AIAgent,
		Phases:              phases,
		CurrentPhase:        phases[0],
	}
	if err := e.saveProjectConfig(cfg); err != nil {
		return models.ProjectConfig{}, err
	}

	if e.logger != nil {
		e.logger.LogInfo(fmt.Sprintf("Project initialized (id %s)", cfg.ID))
	}
	return cfg, nil
}

// InitialSpecification renders the starting specification document.
// The template carries every section ValidateSpecification looks for.
func (e *Engine) InitialSpecification(requirements string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s - Project Specification\n\n", e.settings.Name)
	fmt.Fprintf(&b, "## Project Overview\n%s\n\n", requirements)
	b.WriteString(`## User Stories
- As a user, I want to [define specific functionality]
- As a developer, I want to [define technical requirements]

## Success Criteria
- [ ] Functional requirements are met
- [ ] Performance criteria are satisfied
- [ ] Security requirements are implemented
- [ ] User experience goals are achieved

## Scope and Boundaries
### In Scope
- Core functionality as defined in requirements
- Basic user interface and experience
- Essential integrations

### Out of Scope
- Advanced features not specified
- Third-party integrations beyond requirements
- Performance optimizations beyond basic requirements

`)
	b.WriteString("## Technical Constraints\n")
	fmt.Fprintf(&b, "- Platform: %s\n", e.settings.AIAgent)
	fmt.Fprintf(&b, "- Output Format: %s\n", e.settings.SpecificationFormat)
	b.WriteString(`- Development Approach: Specification-driven with AI assistance

## Next Steps
1. Review and validate specification
2. Proceed to technical planning phase
3. Break down into implementable tasks
4. Execute with AI-assisted development
`)
	return b.String()
}

// LoadProjectConfig reads the project config record.
func (e *Engine) LoadProjectConfig() (models.ProjectConfig, error) {
	data, err := e.store.Read(docstore.RootNamespace, ConfigKey)
	if err != nil {
		return models.ProjectConfig{}, err
	}
	var cfg models.ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return models.ProjectConfig{}, fmt.Errorf("decode %s: %w", ConfigKey, err)
	}
	return cfg, nil
}

func (e *Engine) saveProjectConfig(cfg models.ProjectConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", ConfigKey, err)
	}
	return e.store.Write(docstore.RootNamespace, ConfigKey, data)
}

// Advance moves CurrentPhase forward when the current phase's stored record
// re-validates as passed or passed_with_warnings.
// It returns ErrPhaseNotValidated when the record is missing or failing and
// ErrPipelineComplete when the last phase has already passed.
func (e *Engine) Advance() (models.ProjectConfig, error) {
	cfg, err := e.LoadProjectConfig()
	if err != nil {
		return models.ProjectConfig{}, err
	}

	outcome, err := e.Revalidate(cfg.CurrentPhase)
	if errors.Is(err, docstore.ErrNotFound) {
		return cfg, fmt.Errorf("%s: %w (run the phase first)", cfg.CurrentPhase, ErrPhaseNotValidated)
	}
	if err != nil {
		return cfg, err
	}
	if !outcome.OverallStatus.IsPassing() {
		return cfg, fmt.Errorf("%s is %s: %w", cfg.CurrentPhase, outcome.OverallStatus, ErrPhaseNotValidated)
	}

	next, ok := cfg.CurrentPhase.Next()
	if !ok {
		return cfg, ErrPipelineComplete
	}

	cfg.CurrentPhase = next
	if err := e.saveProjectConfig(cfg); err != nil {
		return models.ProjectConfig{}, err
	}
	if e.logger != nil {
		e.logger.LogInfo(fmt.Sprintf("Advanced to %s phase", next))
	}
	return cfg, nil
}

// PhaseState summarizes one phase for Status.
type PhaseState struct {
	Phase    models.PhaseID          `json:"phase" yaml:"phase"`
	Name     string                  `json:"name" yaml:"name"`
	Executed bool                    `json:"executed" yaml:"executed"`
	Status   models.ValidationStatus `json:"status,omitempty" yaml:"status,omitempty"`
	Current  bool                    `json:"current" yaml:"current"`
}

// ProjectStatus is the stored project config plus per-phase state.
type ProjectStatus struct {
	Project models.ProjectConfig `json:"project" yaml:"project"`
	Phases  []PhaseState         `json:"phases" yaml:"phases"`
}

// Status reports the project config and the validation state of every phase.
func (e *Engine) Status() (ProjectStatus, error) {
	cfg, err := e.LoadProjectConfig()
	if err != nil {
		return ProjectStatus{}, err
	}

	st := ProjectStatus{Project: cfg}
	for _, def := range e.phases {
		ps := PhaseState{Phase: def.ID, Name: def.Name, Current: def.ID == cfg.CurrentPhase}
		outcome, err := e.Revalidate(def.ID)
		switch {
		case errors.Is(err, docstore.ErrNotFound):
		case err != nil:
			return ProjectStatus{}, err
		default:
			ps.Executed = true
			ps.Status = outcome.OverallStatus
		}
		st.Phases = append(st.Phases, ps)
	}
	return st, nil
}
