package workflow

import "github.com/harrison/speckit/internal/models"

// DefinePhases returns the four pipeline phases in execution order.
// Each call builds fresh values; callers may not rely on sharing.
func DefinePhases() []models.PhaseDefinition {
	return []models.PhaseDefinition{
		{
			ID:          models.PhaseSpecify,
			Name:        "Specify",
			Description: "Create high-level description of project goals and user experiences",
			Inputs:      []string{"business_requirements", "user_stories", "success_criteria"},
			Outputs:     []string{"specification_document", "user_experience_map", "success_metrics"},
			ValidationCriteria: []string{
				"Clear problem statement",
				"Defined user personas",
				"Measurable success criteria",
				"Scope boundaries identified",
			},
			Prompts: map[string]string{
				"specification_generation": `Create a comprehensive specification based on the following requirements:

Requirements: {requirements}

Generate a specification that includes:
1. Problem Statement
2. User Stories and Personas
3. Success Criteria
4. Scope and Boundaries
5. Key Features and Functionality

Use clear, unambiguous language that can guide AI-assisted development.`,
				"validation": `Validate the following specification for completeness and clarity:

Specification: {specification}

Check for:
- Clear problem definition
- Well-defined user stories
- Measurable success criteria
- Proper scope boundaries

Provide feedback and suggestions for improvement.`,
			},
		},
		{
			ID:          models.PhasePlan,
			Name:        "Plan",
			Description: "Define technical architecture, constraints, and implementation strategy",
			Inputs:      []string{"specification_document", "technical_constraints", "platform_requirements"},
			Outputs:     []string{"technical_architecture", "implementation_strategy", "constraint_analysis"},
			ValidationCriteria: []string{
				"Architecture aligns with specification",
				"Constraints are addressed",
				"Implementation strategy is feasible",
				"Technology choices are justified",
			},
			Prompts: map[string]string{
				"architecture_design": `Based on the specification, design a technical architecture:

Specification: {specification}
Technical Constraints: {constraints}

Generate:
1. System Architecture Diagram
2. Technology Stack Recommendations
3. Data Flow and Storage Strategy
4. Security and Compliance Considerations
5. Scalability and Performance Planning

Ensure the architecture directly supports the specification requirements.`,
				"constraint_analysis": `Analyze constraints and their impact on implementation:

Specification: {specification}
Constraints: {constraints}

Provide:
- Constraint impact analysis
- Mitigation strategies
- Alternative approaches
- Risk assessment`,
			},
		},
		{
			ID:          models.PhaseTasks,
			Name:        "Tasks",
			Description: "Break down specification into granular, testable work units",
			Inputs:      []string{"technical_architecture", "implementation_strategy"},
			Outputs:     []string{"task_breakdown", "test_specifications", "acceptance_criteria"},
			ValidationCriteria: []string{
				"Tasks are granular and specific",
				"Each task has clear acceptance criteria",
				"Tasks can be independently tested",
				"Dependencies are identified",
			},
			Prompts: map[string]string{
				"task_breakdown": `Break down the implementation into granular, testable tasks:

Architecture: {architecture}
Implementation Strategy: {strategy}

Generate:
1. Detailed task list with priorities
2. Task dependencies and relationships
3. Acceptance criteria for each task
4. Test specifications
5. Estimated effort and timeline

Ensure each task can be completed and validated independently.`,
				"test_generation": `Generate comprehensive test specifications:

Tasks: {tasks}
Acceptance Criteria: {criteria}

Create:
- Unit test specifications
- Integration test scenarios
- End-to-end test cases
- Performance test criteria
- Security test requirements`,
			},
		},
		{
			ID:          models.PhaseImplement,
			Name:        "Implement",
			Description: "Execute tasks using AI coding agents with specification guidance",
			Inputs:      []string{"task_breakdown", "test_specifications", "code_templates"},
			Outputs:     []string{"source_code", "test_implementations", "documentation"},
			ValidationCriteria: []string{
				"Code meets specification requirements",
				"All tests pass",
				"Code follows established patterns",
				"Documentation is complete",
			},
			Prompts: map[string]string{
				"code_generation": `Generate code based on the specification and tasks:

Specification: {specification}
Task: {task}
Test Specifications: {tests}

Generate:
1. Source code implementation
2. Unit tests
3. Integration tests
4. Code documentation
5. Usage examples

Ensure code strictly adheres to specification requirements.`,
				"code_validation": `Validate generated code against specification:

Specification: {specification}
Generated Code: {code}

Check:
- Specification compliance
- Code quality and patterns
- Test coverage
- Documentation completeness
- Performance considerations`,
			},
		},
	}
}
