package research

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harrison/speckit/internal/models"
)

// Fixed request parameters
const (
	DefaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "llama-3.1-sonar-large-128k-online"
	temperature    = 0.1
	topP           = 0.9
	recencyFilter  = "month"
	snippetLimit   = 200

	systemPrompt = "You are an expert research analyst specializing in software development methodologies, " +
		"AI agent coordination, and specification-driven development. Provide comprehensive, " +
		"well-sourced analysis with actionable insights."
)

var domainFilter = []string{"github.com", "medium.com", "dev.to", "arxiv.org", "stackoverflow.com"}

var modelNames = map[models.ModelSelector]string{
	models.ModelSonarReasoning: "llama-3.1-sonar-large-128k-online",
	models.ModelSonarSmall:     "llama-3.1-sonar-small-128k-online",
	models.ModelSonarLarge:     "llama-3.1-sonar-large-128k-online",
	models.ModelSonarHuge:      "llama-3.1-sonar-huge-128k-online",
}

// ModelName maps a selector to the API model identifier; unknown selectors
// get the large model.
func ModelName(sel models.ModelSelector) string {
	if name, ok := modelNames[sel]; ok {
		return name
	}
	return defaultModel
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Temperature         float64       `json:"temperature"`
	TopP                float64       `json:"top_p"`
	ReturnCitations     bool          `json:"return_citations"`
	SearchDomainFilter  []string      `json:"search_domain_filter"`
	SearchRecencyFilter string        `json:"search_recency_filter"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Citations []citation `json:"citations"`
}

// citation accepts both object citations and bare URL strings.
type citation struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (c *citation) UnmarshalJSON(data []byte) error {
	var url string
	if err := json.Unmarshal(data, &url); err == nil {
		*c = citation{URL: url}
		return nil
	}
	type plain citation
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = citation(p)
	return nil
}

// BuildPrompt renders the user prompt for q.
func BuildPrompt(q models.ResearchQuery) string {
	focus := "general analysis"
	if len(q.FocusAreas) > 0 {
		focus = strings.Join(q.FocusAreas, ", ")
	}
	return fmt.Sprintf(`Conduct %s research on: %s

Focus Areas: %s

Research Requirements:
1. Provide comprehensive analysis with specific examples and code snippets where applicable
2. Include recent developments and industry trends (within last 12 months)
3. Compare with alternative approaches and competitive solutions
4. Identify implementation challenges and best practices
5. Include relevant GitHub repositories, documentation, and community resources
6. Analyze enterprise adoption patterns and use cases
7. Provide actionable insights for implementation teams

Structure your response with:
- Executive Summary
- Detailed Analysis
- Implementation Strategies
- Comparative Analysis
- Recent Developments
- Community Resources
- Actionable Recommendations

Prioritize authoritative sources and practical insights over theoretical concepts.
`, q.Depth, q.Query, focus)
}

func buildRequestBody(q models.ResearchQuery) ([]byte, error) {
	req := chatRequest{
		Model: ModelName(q.Model),
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(q)},
		},
		Temperature:         temperature,
		TopP:                topP,
		ReturnCitations:     true,
		SearchDomainFilter:  domainFilter,
		SearchRecencyFilter: recencyFilter,
	}
	return json.Marshal(req)
}

// parseResponse extracts the first completion's content and the sources.
func parseResponse(body []byte) (string, []models.Source, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", nil, fmt.Errorf("decode research response: %w", err)
	}

	var content string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	sources := make([]models.Source, 0, len(resp.Citations))
	for _, c := range resp.Citations {
		sources = append(sources, models.Source{
			URL:     c.URL,
			Title:   c.Title,
			Snippet: truncate(c.Text, snippetLimit),
		})
	}
	return content, sources, nil
}

// truncate shortens s to limit runes and appends "..." when it was longer.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
