// Package logger provides logging implementations for speckit workflow runs
// and research sessions.
//
// Loggers are injected into the workflow engine and research orchestrator;
// there is no package-level logger. Implementations are thread-safe and
// support console and file destinations.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/speckit/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs workflow progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is enabled only when the writer is a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	now         func() time.Time
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
		now:         time.Now,
	}
}

// isTerminal reports whether w is a TTY file and colors are not disabled (NO_COLOR).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if _, ok := levelValues[normalized]; ok {
		return normalized
	}
	return "info"
}

var levelValues = map[string]int{
	"trace": levelTrace,
	"debug": levelDebug,
	"info":  levelInfo,
	"warn":  levelWarn,
	"error": levelError,
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	if v, ok := levelValues[level]; ok {
		return v
	}
	return levelInfo
}

// shouldLog checks if a message at the given level passes the configured level.
func shouldLog(configured, messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(configured)
}

// LogTrace logs a trace-level message.
func (cl *ConsoleLogger) LogTrace(message string) { cl.logWithLevel("TRACE", message) }

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) { cl.logWithLevel("DEBUG", message) }

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) { cl.logWithLevel("INFO", message) }

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) { cl.logWithLevel("WARN", message) }

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) { cl.logWithLevel("ERROR", message) }

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !shouldLog(cl.logLevel, strings.ToLower(level)) {
		return
	}

	label := level
	if cl.colorOutput {
		label = levelColor(level).Sprint(level)
	}
	cl.write(fmt.Sprintf("[%s] [%s] %s\n", cl.timestamp(), label, message))
}

func levelColor(level string) *color.Color {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack)
	case "DEBUG":
		return color.New(color.FgCyan)
	case "WARN":
		return color.New(color.FgYellow)
	case "ERROR":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgBlue)
	}
}

// LogPhaseStart logs the start of a phase at INFO level.
// Format: "[HH:MM:SS] Starting <Name> phase: <n> inputs -> <m> outputs"
func (cl *ConsoleLogger) LogPhaseStart(def models.PhaseDefinition) {
	if cl.writer == nil || !shouldLog(cl.logLevel, "info") {
		return
	}

	name := def.Name
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(name)
	}
	cl.write(fmt.Sprintf("[%s] Starting %s phase: %d inputs -> %d outputs\n",
		cl.timestamp(), name, len(def.Inputs), len(def.Outputs)))
}

// LogPhaseComplete logs a phase's validation verdict at INFO level.
// Format: "[HH:MM:SS] <phase> complete: <status> (<met>/<total> criteria met)"
func (cl *ConsoleLogger) LogPhaseComplete(report models.PhaseExecutionReport) {
	if cl.writer == nil || !shouldLog(cl.logLevel, "info") {
		return
	}

	v := report.Validation
	total := len(v.CriteriaMet) + len(v.CriteriaFailed)
	status := string(v.OverallStatus)
	if cl.colorOutput {
		status = statusColor(v.OverallStatus).Sprint(status)
	}
	cl.write(fmt.Sprintf("[%s] %s complete: %s (%d/%d criteria met)\n",
		cl.timestamp(), v.Phase, status, len(v.CriteriaMet), total))

	if shouldLog(cl.logLevel, "debug") {
		for _, c := range v.CriteriaFailed {
			cl.write(fmt.Sprintf("[%s]   - unmet: %s\n", cl.timestamp(), c))
		}
	}
}

func statusColor(s models.ValidationStatus) *color.Color {
	switch s {
	case models.StatusPassed:
		return color.New(color.FgGreen)
	case models.StatusPassedWithWarnings:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// LogResearchStart logs the start of a research query at INFO level.
func (cl *ConsoleLogger) LogResearchStart(name string, query models.ResearchQuery) {
	if cl.writer == nil || !shouldLog(cl.logLevel, "info") {
		return
	}

	label := name
	if cl.colorOutput {
		label = color.New(color.Bold).Sprint(name)
	}
	cl.write(fmt.Sprintf("[%s] Researching %s (%s, %s)\n", cl.timestamp(), label, query.Depth, query.Model))
	if shouldLog(cl.logLevel, "debug") {
		cl.write(fmt.Sprintf("[%s]   query: %s\n", cl.timestamp(), query.Query))
	}
}

// LogResearchComplete logs the size of a research result at INFO level.
func (cl *ConsoleLogger) LogResearchComplete(name string, result models.ResearchResult) {
	if cl.writer == nil || !shouldLog(cl.logLevel, "info") {
		return
	}

	done := "done"
	if cl.colorOutput {
		done = color.New(color.FgGreen).Sprint(done)
	}
	cl.write(fmt.Sprintf("[%s] %s %s: %d chars, %d sources, %d follow-ups\n",
		cl.timestamp(), name, done, len(result.Response), len(result.Sources), len(result.FollowUpInsights)))
}

// LogPause logs research progress and the rate-limit pause before the next query.
// Format: "[HH:MM:SS] Research [=====     ] 3/6 (50%) - pausing 2s"
func (cl *ConsoleLogger) LogPause(completed, total int, pause time.Duration) {
	if cl.writer == nil || !shouldLog(cl.logLevel, "info") {
		return
	}

	pb := NewProgressBar(total, 10, cl.colorOutput)
	pb.SetPrefix("Research ")
	pb.Update(completed)
	cl.write(fmt.Sprintf("[%s] %s - pausing %s\n", cl.timestamp(), pb.Render(), formatDuration(pause)))
}

// LogSummary logs a per-phase summary of a pipeline run at INFO level.
func (cl *ConsoleLogger) LogSummary(reports []models.PhaseExecutionReport) {
	if cl.writer == nil || !shouldLog(cl.logLevel, "info") {
		return
	}

	ts := cl.timestamp()
	passing := 0
	for _, r := range reports {
		if r.Validation.OverallStatus.IsPassing() {
			passing++
		}
	}

	header := "=== Workflow Summary ==="
	if cl.colorOutput {
		header = color.New(color.Bold).Sprint(header)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", ts, header)
	fmt.Fprintf(&b, "[%s] Phases run: %d\n", ts, len(reports))
	fmt.Fprintf(&b, "[%s] Passing: %d\n", ts, passing)
	for _, r := range reports {
		status := string(r.Validation.OverallStatus)
		if cl.colorOutput {
			status = statusColor(r.Validation.OverallStatus).Sprint(status)
		}
		fmt.Fprintf(&b, "[%s]   - %s: %s\n", ts, r.Phase, status)
	}
	cl.write(b.String())
}

func (cl *ConsoleLogger) write(s string) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.writer.Write([]byte(s))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func (cl *ConsoleLogger) timestamp() string {
	return cl.now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "500ms", "5s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	}
}
