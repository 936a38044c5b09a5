package logger

import (
	"time"

	"github.com/harrison/speckit/internal/models"
)

// Sink is the full set of events a speckit logger handles.
// ConsoleLogger, FileLogger, MultiLogger and NoOpLogger all implement it.
type Sink interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogPhaseStart(def models.PhaseDefinition)
	LogPhaseComplete(report models.PhaseExecutionReport)
	LogResearchStart(name string, query models.ResearchQuery)
	LogResearchComplete(name string, result models.ResearchResult)
	LogPause(completed, total int, pause time.Duration)
	LogSummary(reports []models.PhaseExecutionReport)
}

// MultiLogger fans every event out to each wrapped sink in order.
type MultiLogger struct {
	sinks []Sink
}

// NewMultiLogger combines sinks; nil entries are skipped.
func NewMultiLogger(sinks ...Sink) *MultiLogger {
	m := &MultiLogger{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *MultiLogger) LogTrace(message string) {
	for _, s := range m.sinks {
		s.LogTrace(message)
	}
}

func (m *MultiLogger) LogDebug(message string) {
	for _, s := range m.sinks {
		s.LogDebug(message)
	}
}

func (m *MultiLogger) LogInfo(message string) {
	for _, s := range m.sinks {
		s.LogInfo(message)
	}
}

func (m *MultiLogger) LogWarn(message string) {
	for _, s := range m.sinks {
		s.LogWarn(message)
	}
}

func (m *MultiLogger) LogError(message string) {
	for _, s := range m.sinks {
		s.LogError(message)
	}
}

func (m *MultiLogger) LogPhaseStart(def models.PhaseDefinition) {
	for _, s := range m.sinks {
		s.LogPhaseStart(def)
	}
}

func (m *MultiLogger) LogPhaseComplete(report models.PhaseExecutionReport) {
	for _, s := range m.sinks {
		s.LogPhaseComplete(report)
	}
}

func (m *MultiLogger) LogResearchStart(name string, query models.ResearchQuery) {
	for _, s := range m.sinks {
		s.LogResearchStart(name, query)
	}
}

func (m *MultiLogger) LogResearchComplete(name string, result models.ResearchResult) {
	for _, s := range m.sinks {
		s.LogResearchComplete(name, result)
	}
}

func (m *MultiLogger) LogPause(completed, total int, pause time.Duration) {
	for _, s := range m.sinks {
		s.LogPause(completed, total, pause)
	}
}

func (m *MultiLogger) LogSummary(reports []models.PhaseExecutionReport) {
	for _, s := range m.sinks {
		s.LogSummary(reports)
	}
}

// NoOpLogger discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string)                                   {}
func (n *NoOpLogger) LogDebug(string)                                   {}
func (n *NoOpLogger) LogInfo(string)                                    {}
func (n *NoOpLogger) LogWarn(string)                                    {}
func (n *NoOpLogger) LogError(string)                                   {}
func (n *NoOpLogger) LogPhaseStart(models.PhaseDefinition)              {}
func (n *NoOpLogger) LogPhaseComplete(models.PhaseExecutionReport)      {}
func (n *NoOpLogger) LogResearchStart(string, models.ResearchQuery)     {}
func (n *NoOpLogger) LogResearchComplete(string, models.ResearchResult) {}
func (n *NoOpLogger) LogPause(int, int, time.Duration)                  {}
func (n *NoOpLogger) LogSummary([]models.PhaseExecutionReport)          {}

var (
	_ Sink = (*ConsoleLogger)(nil)
	_ Sink = (*FileLogger)(nil)
	_ Sink = (*MultiLogger)(nil)
	_ Sink = (*NoOpLogger)(nil)
)
