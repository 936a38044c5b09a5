package workflow

import (
	"context"

	"github.com/harrison/speckit/internal/models"
)

// SampleProjectName names the demonstration project
const SampleProjectName = "Sample AI-Assisted Application"

// SampleRequirements is the requirements text of the demonstration project
const SampleRequirements = `Create a web application that helps users manage their daily tasks.
The application should allow users to create, edit, delete, and organize tasks.
Users should be able to set due dates, priorities, and categories for tasks.
The application should provide a clean, intuitive user interface.`

// SampleInputs returns the demonstration inputs for each phase.
func SampleInputs() map[models.PhaseID]map[string]any {
	return map[models.PhaseID]map[string]any{
		models.PhaseSpecify: {"requirements": SampleRequirements},
		models.PhasePlan: {
			"specification": "Generated specification",
			"constraints":   []string{"Web-based", "Responsive design", "Modern browser support"},
		},
		models.PhaseTasks: {
			"architecture": "MVC architecture with REST API",
			"strategy":     "Iterative development with AI assistance",
		},
		models.PhaseImplement: {
			"tasks": []string{"UI components", "API endpoints", "Database schema"},
			"tests": []string{"Unit tests", "Integration tests"},
		},
	}
}

// RunAll executes every phase in pipeline order with inputs[phase].
// It stops at the first error and returns the reports produced so far.
func (e *Engine) RunAll(ctx context.Context, inputs map[models.PhaseID]map[string]any) ([]models.PhaseExecutionReport, error) {
	reports := make([]models.PhaseExecutionReport, 0, len(e.phases))
	for _, def := range e.phases {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := e.ExecutePhase(ctx, string(def.ID), inputs[def.ID])
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
