// Package mcpserver exposes the workflow engine and the research
// orchestrator as MCP tools over stdio.
//
// Each tool is a struct holding its dependencies, with Definition returning
// the mcp.Tool schema and Handle processing a call. Tool failures are
// reported as tool-result errors so the client sees them as text.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/harrison/speckit/internal/research"
	"github.com/harrison/speckit/internal/workflow"
)

// ServerName is advertised to MCP clients.
const ServerName = "speckit"

const instructions = `SpecKit drives a four-phase specification workflow (specify, plan, tasks, implement).
Call speckit_list_phases to see each phase's inputs and criteria, speckit_validate_specification
to check a specification document, speckit_execute_phase to run a phase, and
speckit_generate_report for the implementation guide. speckit_conduct_research runs one
research query; without an API key it returns placeholder analysis.`

// New builds the MCP server with every speckit tool registered.
func New(engine *workflow.Engine, orch *research.Orchestrator, version string) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	listPhases := NewListPhasesTool(engine)
	s.AddTool(listPhases.Definition(), listPhases.Handle)

	validate := NewValidateTool()
	s.AddTool(validate.Definition(), validate.Handle)

	execute := NewExecutePhaseTool(engine)
	s.AddTool(execute.Definition(), execute.Handle)

	report := NewReportTool(engine)
	s.AddTool(report.Definition(), report.Handle)

	status := NewStatusTool(engine)
	s.AddTool(status.Definition(), status.Handle)

	conduct := NewResearchTool(orch)
	s.AddTool(conduct.Definition(), conduct.Handle)

	return s
}

// ServeStdio runs s on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
