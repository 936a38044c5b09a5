package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harrison/speckit/internal/docstore"
	"github.com/harrison/speckit/internal/models"
	"github.com/harrison/speckit/internal/research"
	"github.com/harrison/speckit/internal/workflow"
)

// ListPhasesTool handles speckit_list_phases.
type ListPhasesTool struct {
	engine *workflow.Engine
}

// NewListPhasesTool creates a ListPhasesTool.
func NewListPhasesTool(engine *workflow.Engine) *ListPhasesTool {
	return &ListPhasesTool{engine: engine}
}

// Definition returns the MCP tool definition for speckit_list_phases.
func (t *ListPhasesTool) Definition() mcp.Tool {
	return mcp.NewTool("speckit_list_phases",
		mcp.WithDescription("List the workflow phases in order with their inputs, outputs and validation criteria."),
	)
}

// Handle processes the speckit_list_phases tool call.
func (t *ListPhasesTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	sb.WriteString("## SpecKit Phases\n")
	for i, def := range t.engine.Phases() {
		fmt.Fprintf(&sb, "\n### %d. %s (`%s`)\n%s\n\n", i+1, def.Name, def.ID, def.Description)
		fmt.Fprintf(&sb, "- **Inputs**: %s\n", strings.Join(def.Inputs, ", "))
		fmt.Fprintf(&sb, "- **Outputs**: %s\n", strings.Join(def.Outputs, ", "))
		sb.WriteString("- **Criteria**:\n")
		for _, c := range def.ValidationCriteria {
			fmt.Fprintf(&sb, "  - %s\n", c)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ValidateTool handles speckit_validate_specification.
type ValidateTool struct{}

// NewValidateTool creates a ValidateTool.
func NewValidateTool() *ValidateTool {
	return &ValidateTool{}
}

// Definition returns the MCP tool definition for speckit_validate_specification.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("speckit_validate_specification",
		mcp.WithDescription(
			"Check a specification document for required sections, user stories, success-criteria checkboxes and scope boundaries.",
		),
		mcp.WithString("specification",
			mcp.Required(),
			mcp.Description("Full markdown text of the specification"),
		),
	)
}

// Handle processes the speckit_validate_specification tool call.
func (t *ValidateTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec := req.GetString("specification", "")
	if strings.TrimSpace(spec) == "" {
		return mcp.NewToolResultError("specification is required"), nil
	}

	ok, findings := workflow.ValidateSpecification(spec)
	if ok {
		return mcp.NewToolResultText("Specification is valid: no findings."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Specification has %d finding(s):\n", len(findings))
	for i, f := range findings {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, f)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ExecutePhaseTool handles speckit_execute_phase.
type ExecutePhaseTool struct {
	engine *workflow.Engine
}

// NewExecutePhaseTool creates an ExecutePhaseTool.
func NewExecutePhaseTool(engine *workflow.Engine) *ExecutePhaseTool {
	return &ExecutePhaseTool{engine: engine}
}

// Definition returns the MCP tool definition for speckit_execute_phase.
func (t *ExecutePhaseTool) Definition() mcp.Tool {
	return mcp.NewTool("speckit_execute_phase",
		mcp.WithDescription("Execute one workflow phase, store its results and return the execution report as JSON."),
		mcp.WithString("phase",
			mcp.Required(),
			mcp.Description("Phase name: specify, plan, tasks or implement"),
		),
		mcp.WithString("inputs",
			mcp.Description("Optional JSON object of named inputs, e.g. {\"requirements\": \"As a user ...\"}"),
		),
	)
}

// Handle processes the speckit_execute_phase tool call.
func (t *ExecutePhaseTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phase := req.GetString("phase", "")
	if phase == "" {
		return mcp.NewToolResultError("phase is required"), nil
	}

	inputs := map[string]any{}
	if raw := req.GetString("inputs", ""); strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inputs must be a JSON object: %v", err)), nil
		}
	}

	report, err := t.engine.ExecutePhase(ctx, phase, inputs)
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidPhase) {
			return mcp.NewToolResultError(fmt.Sprintf("%v (valid phases: specify, plan, tasks, implement)", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to execute phase: %v", err)), nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ReportTool handles speckit_generate_report.
type ReportTool struct {
	engine *workflow.Engine
}

// NewReportTool creates a ReportTool.
func NewReportTool(engine *workflow.Engine) *ReportTool {
	return &ReportTool{engine: engine}
}

// Definition returns the MCP tool definition for speckit_generate_report.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("speckit_generate_report",
		mcp.WithDescription("Generate and store the markdown implementation report for the project."),
	)
}

// Handle processes the speckit_generate_report tool call.
func (t *ReportTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := t.engine.GenerateImplementationReport()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to generate report: %v", err)), nil
	}
	return mcp.NewToolResultText(report), nil
}

// StatusTool handles speckit_project_status.
type StatusTool struct {
	engine *workflow.Engine
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(engine *workflow.Engine) *StatusTool {
	return &StatusTool{engine: engine}
}

// Definition returns the MCP tool definition for speckit_project_status.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("speckit_project_status",
		mcp.WithDescription("Show the current phase and the validation state of every phase."),
	)
}

// Handle processes the speckit_project_status tool call.
func (t *StatusTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := t.engine.Status()
	if errors.Is(err, docstore.ErrNotFound) {
		return mcp.NewToolResultError("project is not initialized; run `speckit init` first"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load status: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n- **Current phase**: %s\n\n", st.Project.ProjectName, st.Project.CurrentPhase)
	for _, ps := range st.Phases {
		state := "not run"
		if ps.Executed {
			state = string(ps.Status)
		}
		marker := ""
		if ps.Current {
			marker = " (current)"
		}
		fmt.Fprintf(&sb, "- %s: %s%s\n", ps.Name, state, marker)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ResearchTool handles speckit_conduct_research.
type ResearchTool struct {
	orch *research.Orchestrator
}

// NewResearchTool creates a ResearchTool.
func NewResearchTool(orch *research.Orchestrator) *ResearchTool {
	return &ResearchTool{orch: orch}
}

// Definition returns the MCP tool definition for speckit_conduct_research.
func (t *ResearchTool) Definition() mcp.Tool {
	return mcp.NewTool("speckit_conduct_research",
		mcp.WithDescription(
			"Run one research query with optional follow-ups. Without an API key the analysis is placeholder text.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Research topic"),
		),
		mcp.WithString("focus_areas",
			mcp.Description("Comma-separated focus areas"),
		),
		mcp.WithString("depth",
			mcp.Description("shallow, medium, deep (default) or comprehensive"),
		),
		mcp.WithString("model",
			mcp.Description("sonar-reasoning (default), sonar-small, sonar-large or sonar-huge"),
		),
		mcp.WithString("follow_ups",
			mcp.Description("Follow-up questions, one per line"),
		),
	)
}

// Handle processes the speckit_conduct_research tool call.
func (t *ResearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(req.GetString("query", ""))
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	depth := models.DepthLevel(req.GetString("depth", ""))
	if depth != "" && !depth.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("invalid depth %q", depth)), nil
	}

	q := models.NewResearchQuery(query,
		splitList(req.GetString("focus_areas", ""), ","),
		depth,
		models.ModelSelector(req.GetString("model", "")),
		splitList(req.GetString("follow_ups", ""), "\n")...,
	)
	result := t.orch.ConductResearch(ctx, q)
	return mcp.NewToolResultText(research.RenderResult("research_result", result)), nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
