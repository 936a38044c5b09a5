package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/speckit/internal/config"
	"github.com/harrison/speckit/internal/docstore"
	"github.com/harrison/speckit/internal/models"
)

var testNow = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

type recordingLogger struct {
	mu        sync.Mutex
	infos     []string
	warns     []string
	started   []models.PhaseID
	completed []models.PhaseExecutionReport
}

func (l *recordingLogger) LogInfo(m string) {
	l.mu.Lock()
	l.infos = append(l.infos, m)
	l.mu.Unlock()
}

func (l *recordingLogger) LogWarn(m string) {
	l.mu.Lock()
	l.warns = append(l.warns, m)
	l.mu.Unlock()
}

func (l *recordingLogger) LogPhaseStart(def models.PhaseDefinition) {
	l.mu.Lock()
	l.started = append(l.started, def.ID)
	l.mu.Unlock()
}

func (l *recordingLogger) LogPhaseComplete(r models.PhaseExecutionReport) {
	l.mu.Lock()
	l.completed = append(l.completed, r)
	l.mu.Unlock()
}

type recordingRecorder struct {
	runIDs  []string
	reports []models.PhaseExecutionReport
	err     error
}

func (r *recordingRecorder) RecordPhase(_ context.Context, runID string, report models.PhaseExecutionReport) error {
	r.runIDs = append(r.runIDs, runID)
	r.reports = append(r.reports, report)
	return r.err
}

// failingStore fails every write after allowing EnsureNamespace
type failingStore struct {
	*docstore.MemoryStore
	err error
}

func (f *failingStore) Write(string, string, []byte) error { return f.err }

func testSettings() config.ProjectSettings {
	return config.DefaultConfig().Project
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *docstore.MemoryStore, *recordingLogger) {
	t.Helper()
	store := docstore.NewMemoryStore()
	log := &recordingLogger{}
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewEngine(testSettings(), store, log, opts...), store, log
}

func TestDefinePhases(t *testing.T) {
	phases := DefinePhases()
	require.Len(t, phases, 4)

	for i, def := range phases {
		assert.Equal(t, models.PhaseOrder[i], def.ID)
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.Description)
		assert.NotEmpty(t, def.Inputs)
		assert.Len(t, def.Outputs, 3)
		assert.Len(t, def.ValidationCriteria, 4)
		assert.Len(t, def.Prompts, 2)
	}

	// Fresh values on every call
	phases[0].Outputs[0] = "mutated"
	assert.Equal(t, "specification_document", DefinePhases()[0].Outputs[0])
}

func TestDefinePhases_RenderPrompt(t *testing.T) {
	specify := DefinePhases()[0]
	assert.Equal(t, []string{"specification_generation", "validation"}, specify.PromptNames())

	out, err := specify.RenderPrompt("specification_generation", map[string]string{"requirements": "Build X"})
	require.NoError(t, err)
	assert.Contains(t, out, "Requirements: Build X")
	assert.NotContains(t, out, "{requirements}")
}

func TestPhaseComputersCoverPipeline(t *testing.T) {
	assert.Len(t, phaseComputers, len(models.PhaseOrder))
	for _, id := range models.PhaseOrder {
		_, ok := phaseComputers[id]
		assert.True(t, ok, "no computer for %s", id)
	}
}

func TestExecutePhase_AllPhasesPass(t *testing.T) {
	inputs := map[models.PhaseID]map[string]any{
		models.PhaseSpecify:   {"requirements": "Build X"},
		models.PhasePlan:      {"specification": "spec"},
		models.PhaseTasks:     {"architecture": "mvc"},
		models.PhaseImplement: {"tasks": []string{"a"}},
	}

	for _, def := range DefinePhases() {
		t.Run(string(def.ID), func(t *testing.T) {
			engine, store, log := newTestEngine(t)

			report, err := engine.ExecutePhase(context.Background(), string(def.ID), inputs[def.ID])
			require.NoError(t, err)

			assert.Equal(t, def.ID, report.Phase)
			assert.Equal(t, models.StatusPassed, report.Validation.OverallStatus)
			assert.Equal(t, def.ValidationCriteria, report.Validation.CriteriaMet)
			assert.Empty(t, report.Validation.CriteriaFailed)
			assert.Equal(t, def.Name, report.Validation.Phase)
			assert.Equal(t, testNow, report.CompletedAt)
			assert.True(t, report.Results.HasPayload())
			assert.Equal(t, def.Outputs, report.Results.OutputsGenerated)

			assert.True(t, store.HasNamespace(string(def.ID)))
			data, err := store.Read(string(def.ID), ResultsKey(def.ID))
			require.NoError(t, err)

			var stored models.ExecutionRecord
			require.NoError(t, json.Unmarshal(data, &stored))
			assert.Equal(t, def.Outputs, stored.OutputsGenerated)
			assert.True(t, stored.HasPayload())

			assert.Equal(t, []models.PhaseID{def.ID}, log.started)
			require.Len(t, log.completed, 1)
		})
	}
}

func TestExecutePhase_CaseInsensitive(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	report, err := engine.ExecutePhase(context.Background(), "  PLAN ", nil)
	require.NoError(t, err)
	assert.Equal(t, models.PhasePlan, report.Phase)
	assert.Empty(t, report.Results.InputsProcessed)
}

func TestExecutePhase_InvalidPhase(t *testing.T) {
	engine, store, log := newTestEngine(t)

	_, err := engine.ExecutePhase(context.Background(), "bogus", map[string]any{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPhase))

	var ipe *InvalidPhaseError
	require.True(t, errors.As(err, &ipe))
	assert.Equal(t, "bogus", ipe.Name)

	assert.Empty(t, store.Keys())
	assert.False(t, store.HasNamespace("bogus"))
	assert.Empty(t, log.started)
}

func TestExecutePhase_StoreErrorPropagates(t *testing.T) {
	writeErr := errors.New("disk full")
	store := &failingStore{MemoryStore: docstore.NewMemoryStore(), err: writeErr}
	engine := NewEngine(testSettings(), store, nil)

	_, err := engine.ExecutePhase(context.Background(), "tasks", nil)
	assert.Same(t, writeErr, err)
}

func TestExecutePhase_SpecifyStoryCount(t *testing.T) {
	tests := []struct {
		name   string
		inputs map[string]any
		want   int
	}{
		{name: "no requirements", inputs: nil, want: 1},
		{name: "no stories", inputs: map[string]any{"requirements": "Build X"}, want: 1},
		{name: "two stories", inputs: map[string]any{"requirements": "As a user... As a admin..."}, want: 3},
		{name: "non-string input", inputs: map[string]any{"requirements": []string{"As a user"}}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, _ := newTestEngine(t)
			report, err := engine.ExecutePhase(context.Background(), "specify", tt.inputs)
			require.NoError(t, err)
			require.NotNil(t, report.Results.Specify)
			assert.Equal(t, tt.want, report.Results.Specify.UserStoriesCount)
			assert.Equal(t, "high", report.Results.Specify.SpecificationQuality)
		})
	}
}

func TestExecutePhase_FixedPhaseResults(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	plan, err := engine.ExecutePhase(ctx, "plan", nil)
	require.NoError(t, err)
	assert.Equal(t, &models.PlanResult{ArchitectureComplexity: "moderate", TechnologyStack: []string{"python", "ai-agents", "speckit"}}, plan.Results.Plan)

	tasks, err := engine.ExecutePhase(ctx, "tasks", nil)
	require.NoError(t, err)
	assert.Equal(t, &models.TasksResult{TaskCount: 10, EstimatedHours: 40}, tasks.Results.Tasks)

	impl, err := engine.ExecutePhase(ctx, "implement", nil)
	require.NoError(t, err)
	assert.Equal(t, &models.ImplementResult{CodeFilesGenerated: 5, TestCoverage: "85%"}, impl.Results.Implement)
}

func TestExecutePhase_InputKeysSorted(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	report, err := engine.ExecutePhase(context.Background(), "implement", map[string]any{
		"tests": 1, "code_templates": 2, "task_breakdown": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"code_templates", "task_breakdown", "tests"}, report.Results.InputsProcessed)
}

func TestExecutePhase_Evaluators(t *testing.T) {
	failFirst := func(n int) CriterionFunc {
		return func(criterion string, _ *models.ExecutionRecord) bool {
			for _, c := range DefinePhases()[1].ValidationCriteria[:n] {
				if c == criterion {
					return false
				}
			}
			return true
		}
	}

	tests := []struct {
		name   string
		ev     CriterionEvaluator
		want   models.ValidationStatus
		failed int
	}{
		{name: "default", ev: nil, want: models.StatusPassed},
		{name: "one failed", ev: failFirst(1), want: models.StatusPassedWithWarnings, failed: 1},
		{name: "tie fails", ev: failFirst(2), want: models.StatusFailed, failed: 2},
		{name: "all failed", ev: failFirst(4), want: models.StatusFailed, failed: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, _ := newTestEngine(t, WithEvaluator(tt.ev))
			report, err := engine.ExecutePhase(context.Background(), "plan", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Validation.OverallStatus)
			assert.Len(t, report.Validation.CriteriaFailed, tt.failed)
			assert.Len(t, report.Validation.CriteriaMet, 4-tt.failed)
		})
	}
}

func TestCompletenessEvaluator(t *testing.T) {
	ev := CompletenessEvaluator{}

	complete := &models.ExecutionRecord{PhaseID: models.PhaseTasks, Timestamp: testNow, Tasks: &models.TasksResult{}}
	assert.True(t, ev.Met("anything", complete))

	noPayload := &models.ExecutionRecord{PhaseID: models.PhaseTasks, Timestamp: testNow}
	assert.False(t, ev.Met("anything", noPayload))

	noTimestamp := &models.ExecutionRecord{PhaseID: models.PhaseTasks, Tasks: &models.TasksResult{}}
	assert.False(t, ev.Met("anything", noTimestamp))

	outcome := evaluate(DefinePhases()[2], noPayload, ev)
	assert.Equal(t, models.StatusFailed, outcome.OverallStatus)
	assert.Empty(t, outcome.CriteriaMet)
}

func TestExecutePhase_Recorder(t *testing.T) {
	rec := &recordingRecorder{}
	engine, _, log := newTestEngine(t, WithRecorder(rec), WithRunID("run-1"))

	_, err := engine.ExecutePhase(context.Background(), "specify", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, rec.runIDs)
	assert.Empty(t, log.warns)

	rec.err = fmt.Errorf("database locked")
	_, err = engine.ExecutePhase(context.Background(), "plan", nil)
	require.NoError(t, err, "archive failures are not fatal")
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "database locked")
}

func TestNewEngine_GeneratesRunID(t *testing.T) {
	a := NewEngine(testSettings(), docstore.NewMemoryStore(), nil)
	b := NewEngine(testSettings(), docstore.NewMemoryStore(), nil)
	assert.NotEmpty(t, a.RunID())
	assert.NotEqual(t, a.RunID(), b.RunID())
}

func TestRunAll(t *testing.T) {
	engine, store, _ := newTestEngine(t)

	reports, err := engine.RunAll(context.Background(), SampleInputs())
	require.NoError(t, err)
	require.Len(t, reports, 4)
	for i, r := range reports {
		assert.Equal(t, models.PhaseOrder[i], r.Phase)
		assert.Equal(t, models.StatusPassed, r.Validation.OverallStatus)
	}
	assert.Len(t, store.Keys(), 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reports, err = engine.RunAll(ctx, SampleInputs())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reports)
}
