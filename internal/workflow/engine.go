// Package workflow runs the specify -> plan -> tasks -> implement pipeline.
//
// The Engine owns the fixed phase registry, executes phases against a
// document store, validates each execution record against the phase's
// declared criteria, and gates forward movement through the pipeline on
// those validation outcomes.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/speckit/internal/config"
	"github.com/harrison/speckit/internal/docstore"
	"github.com/harrison/speckit/internal/models"
)

// Document store keys
const (
	ConfigKey            = "speckit-config.json"
	SpecificationsNS     = "specifications"
	InitialSpecKey       = "initial-spec.md"
	ImplementationReport = "implementation-report.md"
)

// ProjectNamespaces are created by InitializeProject
var ProjectNamespaces = []string{
	"specifications",
	"architecture",
	"tasks",
	"implementation",
	"tests",
	"documentation",
	"templates",
	"validation",
}

// ResultsKey returns the document key of a phase's execution record,
// stored in the namespace named after the phase.
func ResultsKey(id models.PhaseID) string {
	return fmt.Sprintf("%s-results.json", id)
}

// Logger receives workflow events. Any logger.Sink satisfies it.
type Logger interface {
	LogInfo(message string)
	LogWarn(message string)
	LogPhaseStart(def models.PhaseDefinition)
	LogPhaseComplete(report models.PhaseExecutionReport)
}

// Recorder archives phase reports. Archive failures are logged, not returned.
type Recorder interface {
	RecordPhase(ctx context.Context, runID string, report models.PhaseExecutionReport) error
}

// Engine executes pipeline phases and persists their records.
type Engine struct {
	settings  config.ProjectSettings
	store     docstore.Store
	logger    Logger
	recorder  Recorder
	evaluator CriterionEvaluator
	now       func() time.Time
	runID     string

	phases []models.PhaseDefinition
	byID   map[models.PhaseID]models.PhaseDefinition
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder archives every executed phase report.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithEvaluator replaces the default CompletenessEvaluator.
func WithEvaluator(ev CriterionEvaluator) Option {
	return func(e *Engine) {
		if ev != nil {
			e.evaluator = ev
		}
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRunID sets the identifier under which phase reports are archived.
func WithRunID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.runID = id
		}
	}
}

// NewEngine creates an Engine writing into store.
// The logger parameter is optional and can be nil.
func NewEngine(settings config.ProjectSettings, store docstore.Store, logger Logger, opts ...Option) *Engine {
	if store == nil {
		panic("document store cannot be nil")
	}

	e := &Engine{
		settings:  settings,
		store:     store,
		logger:    logger,
		evaluator: CompletenessEvaluator{},
		now:       time.Now,
		runID:     uuid.NewString(),
		phases:    DefinePhases(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	e.byID = make(map[models.PhaseID]models.PhaseDefinition, len(e.phases))
	for _, def := range e.phases {
		e.byID[def.ID] = def
	}
	return e
}

// RunID returns the archive run identifier.
func (e *Engine) RunID() string {
	return e.runID
}

// Phases returns the phase registry in execution order.
func (e *Engine) Phases() []models.PhaseDefinition {
	return e.phases
}

// Phase looks up a phase definition by name, case-insensitively.
func (e *Engine) Phase(name string) (models.PhaseDefinition, error) {
	id, ok := models.ParsePhaseID(name)
	if !ok {
		return models.PhaseDefinition{}, &InvalidPhaseError{Name: name}
	}
	return e.byID[id], nil
}

// ExecutePhase runs the named phase with the given inputs.
// Unknown names fail with an InvalidPhaseError before anything is written.
// The record is persisted under <phase>/<phase>-results.json and validated
// against the phase's criteria; store errors are returned unchanged.
func (e *Engine) ExecutePhase(ctx context.Context, name string, inputs map[string]any) (models.PhaseExecutionReport, error) {
	def, err := e.Phase(name)
	if err != nil {
		return models.PhaseExecutionReport{}, err
	}

	if e.logger != nil {
		e.logger.LogPhaseStart(def)
	}

	if err := e.store.EnsureNamespace(string(def.ID)); err != nil {
		return models.PhaseExecutionReport{}, err
	}

	record, err := computeRecord(def, inputs, e.now())
	if err != nil {
		return models.PhaseExecutionReport{}, err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return models.PhaseExecutionReport{}, fmt.Errorf("encode %s record: %w", def.ID, err)
	}
	if err := e.store.Write(string(def.ID), ResultsKey(def.ID), data); err != nil {
		return models.PhaseExecutionReport{}, err
	}

	report := models.PhaseExecutionReport{
		Phase:       def.ID,
		Results:     record,
		Validation:  evaluate(def, &record, e.evaluator),
		CompletedAt: e.now(),
	}

	if e.logger != nil {
		e.logger.LogPhaseComplete(report)
	}
	if e.recorder != nil {
		if err := e.recorder.RecordPhase(ctx, e.runID, report); err != nil && e.logger != nil {
			e.logger.LogWarn(fmt.Sprintf("failed to archive %s report: %v", def.ID, err))
		}
	}

	return report, nil
}

// LoadRecord reads the stored execution record of a phase.
// A phase that has never run returns an error wrapping docstore.ErrNotFound.
func (e *Engine) LoadRecord(id models.PhaseID) (models.ExecutionRecord, error) {
	data, err := e.store.Read(string(id), ResultsKey(id))
	if err != nil {
		return models.ExecutionRecord{}, err
	}
	var rec models.ExecutionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.ExecutionRecord{}, fmt.Errorf("decode %s record: %w", id, err)
	}
	return rec, nil
}

// Revalidate evaluates the stored record of a phase against its criteria.
func (e *Engine) Revalidate(id models.PhaseID) (models.ValidationOutcome, error) {
	def, ok := e.byID[id]
	if !ok {
		return models.ValidationOutcome{}, &InvalidPhaseError{Name: string(id)}
	}
	rec, err := e.LoadRecord(id)
	if err != nil {
		return models.ValidationOutcome{}, err
	}
	return evaluate(def, &rec, e.evaluator), nil
}
