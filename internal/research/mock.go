package research

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/speckit/internal/models"
)

// MockSource is the single source attached to every placeholder result
var MockSource = models.Source{URL: "mock://source", Title: "Mock Source", Snippet: "Mock source content"}

// MockResponse renders the placeholder analysis for q. The text depends only
// on the query's own fields.
func MockResponse(q models.ResearchQuery) string {
	focus := "general analysis"
	if len(q.FocusAreas) > 0 {
		focus = strings.Join(q.FocusAreas, ", ")
	}
	return fmt.Sprintf(`# Research Analysis: %[1]s

## Executive Summary
[Mock Response - API Key Required for Live Research]

This would contain comprehensive analysis of %[1]s with focus on %[2]s.

## Detailed Analysis
Comprehensive research would be conducted using Perplexity Sonar's %[3]s model with %[4]s analysis depth.

## Implementation Strategies
- Strategy 1: [Detailed implementation approach]
- Strategy 2: [Alternative implementation method]
- Strategy 3: [Enterprise-scale deployment]

## Recent Developments
Latest industry trends and developments within the last 12 months.

## Actionable Recommendations
Specific, implementable recommendations for development teams.
`, q.Query, focus, q.Model, q.Depth)
}

// mockResult builds the placeholder result for q, including one placeholder
// insight per follow-up so callers see the same shape as a live result.
func mockResult(q models.ResearchQuery, now time.Time) models.ResearchResult {
	result := models.ResearchResult{
		Query:            q.Query,
		Response:         MockResponse(q),
		Sources:          []models.Source{MockSource},
		Timestamp:        now,
		ModelUsed:        q.Model,
		FollowUpInsights: []models.FollowUpInsight{},
	}
	for _, f := range q.FollowUps {
		result.FollowUpInsights = append(result.FollowUpInsights, models.FollowUpInsight{
			Query:  f,
			Result: mockResult(q.FollowUp(f), now),
		})
	}
	return result
}
