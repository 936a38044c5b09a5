// Package research fans a fixed registry of research queries out to a
// chat-completions style search API, one at a time, and falls back to
// deterministic placeholder results whenever the API is unavailable.
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/speckit/internal/models"
)

// Defaults for Options fields left at zero.
const (
	DefaultTimeout = 120 * time.Second
	DefaultPause   = 2 * time.Second
)

// ErrNoCredential marks a query answered in mock mode because no API key
// was configured. It is logged, never returned.
var ErrNoCredential = errors.New("no research API credential configured")

// Logger is the subset of logging the orchestrator needs.
type Logger interface {
	LogWarn(message string)
	LogDebug(message string)
	LogResearchStart(name string, query models.ResearchQuery)
	LogResearchComplete(name string, result models.ResearchResult)
	LogPause(completed, total int, pause time.Duration)
}

// Recorder archives research results. Failures are logged by the
// orchestrator and do not affect the run.
type Recorder interface {
	RecordResearch(ctx context.Context, runID, name string, result models.ResearchResult) error
}

// Options configures the API connection. An empty APIKey means mock mode.
type Options struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Pause   time.Duration
}

// Orchestrator executes research queries sequentially against a Poster.
type Orchestrator struct {
	opts     Options
	logger   Logger
	poster   Poster
	recorder Recorder
	queries  []NamedQuery
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
	runID    string
	history  []models.ResearchResult
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithPoster replaces the default net/http poster.
func WithPoster(p Poster) Option {
	return func(o *Orchestrator) { o.poster = p }
}

// WithRecorder archives every registry result under the run ID.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithSleep replaces the pause implementation.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) { o.sleep = sleep }
}

// WithClock sets the timestamp source for results.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithQueries replaces the default registry.
func WithQueries(queries []NamedQuery) Option {
	return func(o *Orchestrator) { o.queries = queries }
}

// NewOrchestrator creates an orchestrator. A nil logger discards events.
func NewOrchestrator(opts Options, logger Logger, options ...Option) *Orchestrator {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Pause < 0 {
		opts.Pause = 0
	}
	if logger == nil {
		logger = nopLogger{}
	}

	o := &Orchestrator{
		opts:    opts,
		logger:  logger,
		queries: DefineQueries(),
		sleep:   sleepContext,
		now:     time.Now,
		runID:   uuid.NewString(),
	}
	for _, opt := range options {
		opt(o)
	}
	if o.poster == nil {
		o.poster = NewHTTPPoster(nil)
	}
	return o
}

// RunID identifies this orchestrator's history in the archive.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// MockMode reports whether every query will be answered with placeholders.
func (o *Orchestrator) MockMode() bool {
	return o.opts.APIKey == ""
}

// Queries returns the registry in execution order.
func (o *Orchestrator) Queries() []NamedQuery {
	return append([]NamedQuery(nil), o.queries...)
}

// History returns a copy of every registry result produced so far. Like
// ComprehensiveResearch it belongs to the goroutine driving the orchestrator.
func (o *Orchestrator) History() []models.ResearchResult {
	return append([]models.ResearchResult(nil), o.history...)
}

// ConductResearch executes q and its follow-ups. It never fails: without a
// credential, or when any request fails, the whole result is replaced by a
// mock result.
func (o *Orchestrator) ConductResearch(ctx context.Context, q models.ResearchQuery) models.ResearchResult {
	if o.MockMode() {
		o.logger.LogDebug(fmt.Sprintf("%v; using mock result for %q", ErrNoCredential, q.Query))
		return mockResult(q, o.now())
	}

	result, err := o.conductLive(ctx, q)
	if err != nil {
		o.logger.LogWarn(fmt.Sprintf("Research failed for %q: %v (using mock result)", q.Query, err))
		return mockResult(q, o.now())
	}
	return result
}

func (o *Orchestrator) conductLive(ctx context.Context, q models.ResearchQuery) (models.ResearchResult, error) {
	content, sources, err := o.request(ctx, q)
	if err != nil {
		return models.ResearchResult{}, err
	}

	insights := make([]models.FollowUpInsight, 0, len(q.FollowUps))
	for _, f := range q.FollowUps {
		fq := q.FollowUp(f)
		fContent, fSources, err := o.request(ctx, fq)
		if err != nil {
			return models.ResearchResult{}, fmt.Errorf("follow-up %q: %w", f, err)
		}
		insights = append(insights, models.FollowUpInsight{
			Query: f,
			Result: models.ResearchResult{
				Query:            fq.Query,
				Response:         fContent,
				Sources:          fSources,
				Timestamp:        o.now(),
				ModelUsed:        fq.Model,
				FollowUpInsights: []models.FollowUpInsight{},
			},
		})
	}

	return models.ResearchResult{
		Query:            q.Query,
		Response:         content,
		Sources:          sources,
		Timestamp:        o.now(),
		ModelUsed:        q.Model,
		FollowUpInsights: insights,
	}, nil
}

func (o *Orchestrator) request(ctx context.Context, q models.ResearchQuery) (string, []models.Source, error) {
	body, err := buildRequestBody(q)
	if err != nil {
		return "", nil, fmt.Errorf("encode research request: %w", err)
	}
	headers := map[string]string{
		"Authorization": "Bearer " + o.opts.APIKey,
		"Content-Type":  "application/json",
	}
	resp, err := o.poster.Post(ctx, o.opts.BaseURL+"/chat/completions", headers, body, o.opts.Timeout)
	if err != nil {
		return "", nil, err
	}
	return parseResponse(resp)
}

// ComprehensiveResearch runs every registry query in order, pausing between
// queries. Each result is appended to the history and archived when a
// recorder is configured. The only error is context cancellation, returned
// with the results gathered so far.
func (o *Orchestrator) ComprehensiveResearch(ctx context.Context) (models.ResearchResults, error) {
	results := make(models.ResearchResults, 0, len(o.queries))

	for i, nq := range o.queries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		o.logger.LogResearchStart(nq.Name, nq.Query)
		result := o.ConductResearch(ctx, nq.Query)
		o.logger.LogResearchComplete(nq.Name, result)

		results = append(results, models.NamedResult{Name: nq.Name, Result: result})
		o.history = append(o.history, result)

		if o.recorder != nil {
			if err := o.recorder.RecordResearch(ctx, o.runID, nq.Name, result); err != nil {
				o.logger.LogWarn(fmt.Sprintf("Failed to archive research %s: %v", nq.Name, err))
			}
		}

		if i < len(o.queries)-1 && o.opts.Pause > 0 {
			o.logger.LogPause(i+1, len(o.queries), o.opts.Pause)
			if err := o.sleep(ctx, o.opts.Pause); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type nopLogger struct{}

func (nopLogger) LogWarn(string)                                    {}
func (nopLogger) LogDebug(string)                                   {}
func (nopLogger) LogResearchStart(string, models.ResearchQuery)     {}
func (nopLogger) LogResearchComplete(string, models.ResearchResult) {}
func (nopLogger) LogPause(int, int, time.Duration)                  {}
