package research

import "github.com/harrison/speckit/internal/models"

// NamedQuery is a registry entry
type NamedQuery struct {
	Name  string
	Query models.ResearchQuery
}

// DefineQueries returns the six registry queries in execution order.
func DefineQueries() []NamedQuery {
	return []NamedQuery{
		{
			Name: "speckit_fundamentals",
			Query: models.NewResearchQuery(
				"GitHub SpecKit methodology specification-driven development framework analysis",
				[]string{
					"executable specifications",
					"specification syntax and structure",
					"integration patterns",
					"developer workflow",
					"tooling ecosystem",
				},
				models.DepthComprehensive, "",
				"SpecKit vs traditional BDD frameworks comparison",
				"SpecKit enterprise adoption case studies",
				"SpecKit performance benchmarks and optimization",
			),
		},
		{
			Name: "ai_agent_coordination",
			Query: models.NewResearchQuery(
				"AI agent coordination patterns specification-driven development multi-agent systems",
				[]string{
					"agent orchestration frameworks",
					"specification-based coordination",
					"inter-agent communication protocols",
					"distributed agent architectures",
					"agent specification languages",
				},
				models.DepthDeep, "",
				"OpenAI Swarm vs SpecKit agent coordination comparison",
				"Agent specification validation and testing strategies",
				"Multi-agent specification conflict resolution",
			),
		},
		{
			Name: "executable_specifications",
			Query: models.NewResearchQuery(
				"executable specifications programming living documentation test-driven development",
				[]string{
					"specification execution engines",
					"specification testing frameworks",
					"living documentation systems",
					"specification validation tools",
					"behavioral specification languages",
				},
				models.DepthComprehensive, "",
				"Cucumber vs SpecKit executable specifications comparison",
				"Specification-driven API development best practices",
				"Specification performance optimization techniques",
			),
		},
		{
			Name: "competitive_analysis",
			Query: models.NewResearchQuery(
				"specification-driven development frameworks comparison BDD Cucumber Gherkin SpecFlow alternatives",
				[]string{
					"framework feature comparison",
					"performance benchmarks",
					"ecosystem maturity",
					"enterprise adoption",
					"learning curve analysis",
				},
				models.DepthComprehensive, "",
				"Migration strategies from traditional BDD to SpecKit",
				"Hybrid specification framework approaches",
				"Cost-benefit analysis specification-driven development adoption",
			),
		},
		{
			Name: "implementation_strategies",
			Query: models.NewResearchQuery(
				"SpecKit implementation strategies enterprise deployment patterns best practices",
				[]string{
					"deployment architectures",
					"integration patterns",
					"scalability considerations",
					"team adoption strategies",
					"governance frameworks",
				},
				models.DepthDeep, "",
				"SpecKit CI/CD pipeline integration patterns",
				"SpecKit monitoring and observability strategies",
				"SpecKit security and compliance considerations",
			),
		},
		{
			Name: "advanced_patterns",
			Query: models.NewResearchQuery(
				"advanced specification patterns microservices event-driven architecture domain-driven design",
				[]string{
					"microservices specification patterns",
					"event-driven specification modeling",
					"domain boundary specifications",
					"specification composition strategies",
					"cross-service specification coordination",
				},
				models.DepthDeep, "",
				"Event sourcing with specification-driven development",
				"CQRS pattern specification modeling",
				"Saga pattern specification coordination",
			),
		},
	}
}
