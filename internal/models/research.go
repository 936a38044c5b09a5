package models

import "time"

// DepthLevel controls how thorough a research query is
type DepthLevel string

// Research depth levels
const (
	DepthShallow       DepthLevel = "shallow"
	DepthMedium        DepthLevel = "medium"
	DepthDeep          DepthLevel = "deep"
	DepthComprehensive DepthLevel = "comprehensive"
)

// Valid returns true if d is one of the known depth levels
func (d DepthLevel) Valid() bool {
	switch d {
	case DepthShallow, DepthMedium, DepthDeep, DepthComprehensive:
		return true
	}
	return false
}

// ModelSelector names one of the supported research models
type ModelSelector string

// Supported model selectors
const (
	ModelSonarReasoning ModelSelector = "sonar-reasoning"
	ModelSonarSmall     ModelSelector = "sonar-small"
	ModelSonarLarge     ModelSelector = "sonar-large"
	ModelSonarHuge      ModelSelector = "sonar-huge"
)

// ResearchQuery describes one research request.
// Build it with NewResearchQuery; fields are not modified afterwards.
type ResearchQuery struct {
	Query      string        `json:"query"`
	FocusAreas []string      `json:"focus_areas"`
	Depth      DepthLevel    `json:"depth_level"`
	Model      ModelSelector `json:"model"`
	FollowUps  []string      `json:"follow_up_queries"`
}

// NewResearchQuery builds a query. An empty depth defaults to deep and an
// empty model defaults to sonar-reasoning. The slices are copied.
func NewResearchQuery(query string, focusAreas []string, depth DepthLevel, model ModelSelector, followUps ...string) ResearchQuery {
	if depth == "" {
		depth = DepthDeep
	}
	if model == "" {
		model = ModelSonarReasoning
	}
	return ResearchQuery{
		Query:      query,
		FocusAreas: append([]string{}, focusAreas...),
		Depth:      depth,
		Model:      model,
		FollowUps:  append([]string{}, followUps...),
	}
}

// FollowUp derives a query for a follow-up question. It shares focus areas,
// depth and model with q but carries no further follow-ups.
func (q ResearchQuery) FollowUp(query string) ResearchQuery {
	return NewResearchQuery(query, q.FocusAreas, q.Depth, q.Model)
}

// Source is one citation attached to a research response
type Source struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// FollowUpInsight pairs a follow-up question with the result it produced
type FollowUpInsight struct {
	Query  string         `json:"query"`
	Result ResearchResult `json:"result"`
}

// ResearchResult is the outcome of executing one ResearchQuery.
// Live and placeholder results share this shape.
type ResearchResult struct {
	Query            string            `json:"query"`
	Response         string            `json:"response"`
	Sources          []Source          `json:"sources"`
	Timestamp        time.Time         `json:"timestamp"`
	ModelUsed        ModelSelector     `json:"model_used"`
	FollowUpInsights []FollowUpInsight `json:"follow_up_insights"`
}

// NamedResult is a research result keyed by its registry name
type NamedResult struct {
	Name   string
	Result ResearchResult
}

// ResearchResults is an ordered name -> result mapping.
// Order matches the order in which queries were executed.
type ResearchResults []NamedResult

// Get returns the result stored under name
func (rs ResearchResults) Get(name string) (ResearchResult, bool) {
	for _, nr := range rs {
		if nr.Name == name {
			return nr.Result, true
		}
	}
	return ResearchResult{}, false
}

// Names returns the result names in execution order
func (rs ResearchResults) Names() []string {
	names := make([]string, len(rs))
	for i, nr := range rs {
		names[i] = nr.Name
	}
	return names
}
